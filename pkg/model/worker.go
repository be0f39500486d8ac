package model

// Worker is a person available for assignment to jobs in a round.
// Two workers are the same entity iff they share a Name.
type Worker struct {
	Name      string         `json:"name" yaml:"name"`
	Size      SizeClass      `json:"height" yaml:"height"`
	Endurance EnduranceClass `json:"stamina" yaml:"stamina"`
	IsSenior  bool           `json:"is_senior" yaml:"is_senior"`
	IsYoung   bool           `json:"is_young" yaml:"is_young"`
	IsOlder   bool           `json:"is_older" yaml:"is_older"`

	// JobsAssigned is round-scoped and never persisted. The allocator resets
	// it at the start of every round.
	JobsAssigned int `json:"-" yaml:"-"`
}

// Idle reports whether the worker holds no job this round.
func (w *Worker) Idle() bool {
	return w.JobsAssigned == 0
}

// Job is a task needing one or two workers meeting eligibility rules.
type Job struct {
	Name            string         `json:"name" yaml:"name"`
	MinSize         SizeClass      `json:"min_height" yaml:"min_height"`
	MinEndurance    EnduranceClass `json:"min_stamina" yaml:"min_stamina"`
	SeniorRequired  bool           `json:"senior_required" yaml:"senior_required"`
	YoungerRequired bool           `json:"younger_required" yaml:"younger_required"`
	OlderRequired   bool           `json:"older_required" yaml:"older_required"`
	RequiresPair    bool           `json:"requires_pair" yaml:"requires_pair"`
}

// Slots returns how many workers the job takes (1 or 2).
func (j *Job) Slots() int {
	if j.RequiresPair {
		return 2
	}
	return 1
}
