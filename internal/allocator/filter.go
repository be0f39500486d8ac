package allocator

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/me/rota/pkg/model"
)

// filterOptions parameterises one run of the candidate filter.
type filterOptions struct {
	quota int
	// rng shuffles the working order before the load sort when non-nil.
	rng *rand.Rand
	// recent holds the job's most recent chosen tuples; their workers are
	// dropped from every tier.
	recent [][]*model.Worker
}

// orderByLoad returns a working copy of workers, optionally shuffled, then
// stably sorted by ascending JobsAssigned. The caller's slice is untouched.
func orderByLoad(workers []*model.Worker, rng *rand.Rand) []*model.Worker {
	ordered := slices.Clone(workers)
	if rng != nil {
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}
	slices.SortStableFunc(ordered, func(a, b *model.Worker) int {
		return cmp.Compare(a.JobsAssigned, b.JobsAssigned)
	})
	return ordered
}

// classify sorts workers into the tiers of s. Running it again on the same
// Suggestion with an unchanged roster leaves the tiers as they were.
func classify(s *Suggestion, workers []*model.Worker, opts filterOptions) {
	job := s.Job
	ordered := orderByLoad(workers, opts.rng)

	for _, w := range ordered {
		if w.JobsAssigned == 0 && (!w.IsSenior || job.SeniorRequired) {
			s.Add(w, "not doing any jobs and (not senior or senior required)")
		}
	}

	for _, w := range ordered {
		if w.Size >= job.MinSize && w.Endurance >= job.MinEndurance {
			s.Add(w, "meets minimum requirements")
		}
		if meetsAgeRequirement(job, w) {
			s.Move(w, TierMin, TierMed, "meets age requirement")
		}
		if job.YoungerRequired && !w.IsYoung {
			s.Remove(w, "not a younger worker")
		}
		if job.YoungerRequired && w.IsSenior {
			s.Remove(w, "senior worker on a younger job")
		}
		if w.JobsAssigned >= opts.quota && !(job.YoungerRequired && w.IsYoung) {
			s.Remove(w, fmt.Sprintf("doing %d of at most %d jobs", w.JobsAssigned, opts.quota))
		}
	}

	for _, chosen := range opts.recent {
		for _, w := range chosen {
			s.Remove(w, "previously suggested")
		}
	}
}

func meetsAgeRequirement(job *model.Job, w *model.Worker) bool {
	return (job.YoungerRequired && w.IsYoung) ||
		(job.SeniorRequired && w.IsSenior) ||
		(job.OlderRequired && w.IsOlder)
}
