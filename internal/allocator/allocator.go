// Package allocator assigns a roster of workers to a list of jobs for a
// single scheduling round.
//
// Each job gets a Suggestion: the candidate filter sorts eligible workers
// into min, med and max tiers (least-loaded first), then one worker or the
// closest pair of workers is chosen from the highest-priority tier. The
// Allocator remembers recent choices per job and recent pairs across all
// jobs so consecutive rounds avoid repeating them. Complete reruns shuffled
// rounds until no worker is left idle.
//
// An Allocator is not safe for concurrent use.
package allocator

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/me/rota/pkg/model"
)

// Config holds allocation settings. It is passed explicitly to New; the
// allocator never reads ambient state.
type Config struct {
	// RemovePrevious is the exclusion window. A job's choices from the
	// last RemovePrevious-1 rounds are dropped from its candidates, and the
	// last RemovePrevious pairs are never re-paired. Zero disables both.
	RemovePrevious int
	// MaxJobsOverride fixes the per-worker quota. Zero derives it from the
	// worker to job ratio.
	MaxJobsOverride int
	// Shuffle randomises candidate order before the load sort in Round.
	// Complete always shuffles.
	Shuffle bool
	// MaxAttempts caps Complete. Zero retries until success, which never
	// returns if the roster cannot leave every worker busy.
	MaxAttempts int
	// Seed seeds the shuffle source. Zero seeds from the clock.
	Seed uint64
	// Observer, if set, is notified of failed attempts and completions.
	Observer Observer
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{RemovePrevious: 2}
}

// Allocator drives allocation rounds over a fixed roster and keeps the
// cross-round exclusion history.
type Allocator struct {
	workers []*model.Worker
	jobs    []*model.Job
	config  Config
	rng     *rand.Rand
	logger  *slog.Logger

	previous map[string]*History[[]*model.Worker]
	pairs    *History[Pair]
}

// New creates an Allocator. Workers are shared by reference: their
// JobsAssigned counters are updated in place by every round.
func New(workers []*model.Worker, jobs []*model.Job, cfg Config, logger *slog.Logger) *Allocator {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &Allocator{
		workers:  workers,
		jobs:     jobs,
		config:   cfg,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:   logger.With("component", "allocator"),
		previous: make(map[string]*History[[]*model.Worker]),
		pairs:    NewHistory[Pair](cfg.RemovePrevious),
	}
}

// Workers returns the roster the allocator mutates.
func (a *Allocator) Workers() []*model.Worker {
	return a.workers
}

// Jobs returns the job list in allocation order.
func (a *Allocator) Jobs() []*model.Job {
	return a.jobs
}

// Round is the outcome of one full pass over the job list.
type Round struct {
	Quota       int
	Suggestions []*Suggestion
	Idle        []*model.Worker
	// Attempt is the 1-based retry attempt that produced the round; zero
	// for rounds run directly.
	Attempt int
}

// IdleCount returns how many workers ended the round with no job.
func (r *Round) IdleCount() int {
	return len(r.Idle)
}

// Assignments returns the job to worker(s) mapping in job order.
func (r *Round) Assignments() []model.Assignment {
	out := make([]model.Assignment, len(r.Suggestions))
	for i, s := range r.Suggestions {
		out[i] = s.Assignment()
	}
	return out
}

// IdleNames returns the names of the idle workers.
func (r *Round) IdleNames() []string {
	return workerNames(r.Idle)
}

// Quota returns the per-worker job cap for the current roster.
func (a *Allocator) Quota() int {
	if a.config.MaxJobsOverride > 0 {
		return a.config.MaxJobsOverride
	}
	if len(a.jobs) == 0 {
		return 1
	}
	q := (len(a.workers) + len(a.jobs) - 1) / len(a.jobs)
	if q < 1 {
		q = 1
	}
	return q
}

// Round runs a single allocation round, shuffling only if the config asks.
func (a *Allocator) Round() (*Round, error) {
	return a.round(a.config.Shuffle)
}

func (a *Allocator) round(shuffle bool) (*Round, error) {
	if len(a.jobs) == 0 {
		return nil, ErrEmptyRoster
	}
	for _, w := range a.workers {
		w.JobsAssigned = 0
	}

	quota := a.Quota()
	a.logger.Debug("round started", "workers", len(a.workers), "jobs", len(a.jobs), "quota", quota)

	var rng *rand.Rand
	if shuffle {
		rng = a.rng
	}

	r := &Round{Quota: quota, Suggestions: make([]*Suggestion, 0, len(a.jobs))}
	for _, job := range a.jobs {
		s, err := a.allocate(job, quota, rng)
		if err != nil {
			return nil, err
		}
		r.Suggestions = append(r.Suggestions, s)
		a.logger.Debug("job allocated", "job", job.Name, "workers", workerNames(s.Chosen))
	}

	for _, w := range a.workers {
		if w.Idle() {
			r.Idle = append(r.Idle, w)
		}
	}
	return r, nil
}

// allocate builds and resolves the Suggestion for one job.
func (a *Allocator) allocate(job *model.Job, quota int, rng *rand.Rand) (*Suggestion, error) {
	s := NewSuggestion(job, a.logger)
	classify(s, a.workers, filterOptions{
		quota:  quota,
		rng:    rng,
		recent: a.history(job.Name).Recent(a.config.RemovePrevious - 1),
	})

	if job.RequiresPair {
		p, err := s.pair(a.workers, a.pairs.Recent(a.config.RemovePrevious))
		if err != nil {
			return nil, err
		}
		a.pairs.Push(p)
	} else {
		s.single()
	}

	a.history(job.Name).Push(s.Chosen)
	return s, nil
}

func (a *Allocator) history(job string) *History[[]*model.Worker] {
	h, ok := a.previous[job]
	if !ok {
		h = NewHistory[[]*model.Worker](a.config.RemovePrevious - 1)
		a.previous[job] = h
	}
	return h
}

// AverageJobs returns the mean JobsAssigned over workers, skipping the
// named ones. It returns 0 when nothing is left to average.
func AverageJobs(workers []*model.Worker, exclude ...string) float64 {
	total, n := 0, 0
	for _, w := range workers {
		skip := false
		for _, name := range exclude {
			if w.Name == name {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		total += w.JobsAssigned
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// Record converts the round into its audit log form.
func (r *Round) Record(id string, at time.Time) *model.RoundRecord {
	idle := r.IdleNames()
	if idle == nil {
		idle = []string{}
	}
	return &model.RoundRecord{
		ID:          id,
		Attempts:    r.Attempt,
		Quota:       r.Quota,
		Idle:        idle,
		Assignments: r.Assignments(),
		CreatedAt:   at,
	}
}
