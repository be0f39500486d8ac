package allocator

import (
	"math"

	"github.com/me/rota/pkg/model"
)

// Pair is an unordered pair of workers chosen together for one job.
type Pair [2]*model.Worker

// Same reports whether p and o hold the same two workers in any order.
func (p Pair) Same(o Pair) bool {
	a, b := p[0].Name, p[1].Name
	x, y := o[0].Name, o[1].Name
	return (a == x && b == y) || (a == y && b == x)
}

// Distance is the Euclidean distance between two workers over size class
// and endurance class.
func Distance(a, b *model.Worker) float64 {
	ds := float64(a.Size - b.Size)
	de := float64(a.Endurance - b.Endurance)
	return math.Sqrt(ds*ds + de*de)
}

// closestPair scans all unordered pairs of ws and returns the one with the
// smallest distance that is not in excluded. Ties keep the first pair found.
func closestPair(ws []*model.Worker, excluded []Pair) (Pair, bool) {
	best := math.Inf(1)
	var found Pair
	ok := false
	for i := 0; i < len(ws); i++ {
		for j := i + 1; j < len(ws); j++ {
			p := Pair{ws[i], ws[j]}
			d := Distance(ws[i], ws[j])
			if d < best && !containsPair(excluded, p) {
				best = d
				found = p
				ok = true
			}
		}
	}
	return found, ok
}

// closestTo returns the roster worker nearest to anchor, skipping anchor
// itself and anyone who already holds a job this round.
func closestTo(anchor *model.Worker, roster []*model.Worker) *model.Worker {
	best := math.Inf(1)
	var found *model.Worker
	for _, w := range roster {
		if w.Name == anchor.Name || w.JobsAssigned > 0 {
			continue
		}
		if d := Distance(anchor, w); d < best {
			best = d
			found = w
		}
	}
	return found
}

func containsPair(ps []Pair, p Pair) bool {
	for _, x := range ps {
		if x.Same(p) {
			return true
		}
	}
	return false
}

// pair chooses two workers for a pair job. With fewer than two candidates
// it anchors on the best single candidate and pairs it with the closest
// free worker of the whole roster. Otherwise tiers are searched min, med,
// max and the first tier holding an allowed pair wins, even if a later
// tier holds a closer one.
func (s *Suggestion) pair(roster []*model.Worker, recentPairs []Pair) (Pair, error) {
	if s.Len() < 2 {
		anchor := s.Best()
		if anchor == nil {
			return Pair{}, &NoPairError{Job: s.Job.Name}
		}
		partner := closestTo(anchor, roster)
		if partner == nil {
			return Pair{}, &NoPairError{Job: s.Job.Name}
		}
		p := Pair{anchor, partner}
		s.choose(p[0], p[1])
		return p, nil
	}

	for _, t := range tiers {
		if p, ok := closestPair(s.tiers[t], recentPairs); ok {
			s.choose(p[0], p[1])
			return p, nil
		}
	}
	return Pair{}, &NoPairError{Job: s.Job.Name}
}

// single chooses the best candidate for a single-worker job. It leaves
// Chosen empty when there are no candidates.
func (s *Suggestion) single() {
	if w := s.Best(); w != nil {
		s.choose(w)
	}
}
