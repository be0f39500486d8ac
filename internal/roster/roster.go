// Package roster loads and saves the ordered worker and job lists the
// allocator consumes.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/me/rota/pkg/model"
)

// Roster is an ordered list of workers and an ordered list of jobs.
type Roster struct {
	Workers []*model.Worker `json:"workers" yaml:"workers"`
	Jobs    []*model.Job    `json:"jobs" yaml:"jobs"`
}

// Source provides a roster.
type Source interface {
	Load(ctx context.Context) (*Roster, error)
}

// Validate checks names are present and unique. It reports every problem
// found in a single validation error.
func (r *Roster) Validate() error {
	var details []model.FieldError

	seen := make(map[string]int)
	for i, w := range r.Workers {
		field := fmt.Sprintf("workers[%d].name", i)
		switch {
		case w == nil:
			details = append(details, model.FieldError{Field: fmt.Sprintf("workers[%d]", i), Message: "worker is null"})
		case strings.TrimSpace(w.Name) == "":
			details = append(details, model.FieldError{Field: field, Message: "name is required"})
		default:
			if j, dup := seen[w.Name]; dup {
				details = append(details, model.FieldError{Field: field, Message: fmt.Sprintf("duplicate worker name %q (first at workers[%d])", w.Name, j)})
				continue
			}
			seen[w.Name] = i
		}
	}

	seen = make(map[string]int)
	for i, j := range r.Jobs {
		field := fmt.Sprintf("jobs[%d].name", i)
		switch {
		case j == nil:
			details = append(details, model.FieldError{Field: fmt.Sprintf("jobs[%d]", i), Message: "job is null"})
		case strings.TrimSpace(j.Name) == "":
			details = append(details, model.FieldError{Field: field, Message: "name is required"})
		default:
			if k, dup := seen[j.Name]; dup {
				details = append(details, model.FieldError{Field: field, Message: fmt.Sprintf("duplicate job name %q (first at jobs[%d])", j.Name, k)})
				continue
			}
			seen[j.Name] = i
		}
	}

	if len(details) > 0 {
		return model.NewValidationError("invalid roster", details...)
	}
	return nil
}

// Slots returns the total number of worker slots the jobs offer.
func (r *Roster) Slots() int {
	n := 0
	for _, j := range r.Jobs {
		n += j.Slots()
	}
	return n
}

// Coverable reports whether the jobs offer enough slots for every worker
// to hold one. When false, a retry loop without an attempt cap never ends.
func (r *Roster) Coverable() bool {
	return len(r.Workers) <= r.Slots()
}
