package cli

import (
	"fmt"
	"io"

	"github.com/me/rota/internal/allocator"
)

// progressPrinter reports failed retry attempts on the command's output.
type progressPrinter struct {
	w io.Writer
}

func (p progressPrinter) AttemptFailed(a allocator.Attempt) {
	if a.Err != nil {
		fmt.Fprintf(p.w, "%v. Trying again...\n", a.Err)
		return
	}
	fmt.Fprintf(p.w, "%d servers not doing any jobs. Trying again...\n", a.Idle)
}

func (p progressPrinter) Completed(*allocator.Round) {}

// printAssignments prints one "job: A & B" line per job.
func printAssignments(w io.Writer, r *allocator.Round) {
	for _, a := range r.Assignments() {
		fmt.Fprintln(w, a)
	}
}

// printIdle warns about every worker the round left without a job.
func printIdle(w io.Writer, r *allocator.Round) {
	for _, name := range r.IdleNames() {
		fmt.Fprintf(w, "WARNING: %s is not doing any jobs!\n", name)
	}
}
