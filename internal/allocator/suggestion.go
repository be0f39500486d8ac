package allocator

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/me/rota/pkg/model"
)

// Tier is an eligibility level of a worker against one job.
type Tier int

const (
	TierMin Tier = iota // meets minimum requirements
	TierMed             // meets most requirements
	TierMax             // meets all requirements

	tierCount = 3
)

// tiers lists the tiers in selection priority order.
var tiers = [tierCount]Tier{TierMin, TierMed, TierMax}

func (t Tier) String() string {
	switch t {
	case TierMin:
		return "min"
	case TierMed:
		return "med"
	case TierMax:
		return "max"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Suggestion is the per-job, per-round result: three disjoint tiers of
// candidate workers plus the worker(s) finally chosen. It does not own the
// workers it references.
type Suggestion struct {
	Job    *model.Job
	Chosen []*model.Worker

	tiers  [tierCount][]*model.Worker
	logger *slog.Logger
}

// NewSuggestion creates an empty Suggestion for job.
func NewSuggestion(job *model.Job, logger *slog.Logger) *Suggestion {
	return &Suggestion{
		Job:    job,
		logger: logger.With("job", job.Name),
	}
}

// Tier returns a copy of the workers currently in tier t, in insertion order.
func (s *Suggestion) Tier(t Tier) []*model.Worker {
	return append([]*model.Worker(nil), s.tiers[t]...)
}

// Len returns the number of candidates across all tiers.
func (s *Suggestion) Len() int {
	n := 0
	for _, t := range tiers {
		n += len(s.tiers[t])
	}
	return n
}

// Contains reports which tier holds w, if any.
func (s *Suggestion) Contains(w *model.Worker) (Tier, bool) {
	for _, t := range tiers {
		if indexOf(s.tiers[t], w) >= 0 {
			return t, true
		}
	}
	return 0, false
}

// Add appends w to the min tier. It is a no-op if w is already in any tier.
func (s *Suggestion) Add(w *model.Worker, reason string) bool {
	if _, ok := s.Contains(w); ok {
		return false
	}
	s.tiers[TierMin] = append(s.tiers[TierMin], w)
	s.logger.Debug("candidate added", "worker", w.Name, "tier", TierMin, "reason", reason)
	return true
}

// Move transfers w from one tier to another. It is a no-op unless w is
// currently in from.
func (s *Suggestion) Move(w *model.Worker, from, to Tier, reason string) bool {
	i := indexOf(s.tiers[from], w)
	if i < 0 {
		return false
	}
	s.tiers[from] = slices.Delete(s.tiers[from], i, i+1)
	s.tiers[to] = append(s.tiers[to], w)
	s.logger.Debug("candidate moved", "worker", w.Name, "from", from, "to", to, "reason", reason)
	return true
}

// Remove drops w from whichever tier holds it.
func (s *Suggestion) Remove(w *model.Worker, reason string) bool {
	for _, t := range tiers {
		if i := indexOf(s.tiers[t], w); i >= 0 {
			s.tiers[t] = slices.Delete(s.tiers[t], i, i+1)
			s.logger.Debug("candidate removed", "worker", w.Name, "tier", t, "reason", reason)
			return true
		}
	}
	return false
}

// Best returns the first worker of the first non-empty tier, scanning
// min, med, max. It returns nil when every tier is empty.
func (s *Suggestion) Best() *model.Worker {
	for _, t := range tiers {
		if len(s.tiers[t]) > 0 {
			return s.tiers[t][0]
		}
	}
	return nil
}

// HasChosen reports whether w is among the chosen workers.
func (s *Suggestion) HasChosen(w *model.Worker) bool {
	return indexOf(s.Chosen, w) >= 0
}

// Assignment returns the display form of the chosen workers.
func (s *Suggestion) Assignment() model.Assignment {
	names := make([]string, 0, len(s.Chosen))
	for _, w := range s.Chosen {
		names = append(names, w.Name)
	}
	return model.Assignment{Job: s.Job.Name, Workers: names}
}

// choose records the chosen workers and charges each one job.
func (s *Suggestion) choose(ws ...*model.Worker) {
	s.Chosen = ws
	for _, w := range ws {
		w.JobsAssigned++
	}
}

func (s *Suggestion) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job Name: %s", s.Job.Name)
	for _, t := range tiers {
		fmt.Fprintf(&b, "\n%s_suggest=%s", t, workerNames(s.tiers[t]))
	}
	fmt.Fprintf(&b, "\nchosen=%s\n", workerNames(s.Chosen))
	return b.String()
}

func indexOf(ws []*model.Worker, w *model.Worker) int {
	for i, x := range ws {
		if x.Name == w.Name {
			return i
		}
	}
	return -1
}

func workerNames(ws []*model.Worker) []string {
	names := make([]string, len(ws))
	for i, w := range ws {
		names[i] = w.Name
	}
	return names
}
