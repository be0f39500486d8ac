package model

import (
	"strings"
	"time"
)

// Assignment is the display form of one job's outcome in a round.
type Assignment struct {
	Job     string   `json:"job" yaml:"job"`
	Workers []string `json:"workers" yaml:"workers"`
}

// String renders the assignment as "job: A & B".
func (a Assignment) String() string {
	return a.Job + ": " + strings.Join(a.Workers, " & ")
}

// RoundRecord is a completed allocation as persisted in the audit log.
type RoundRecord struct {
	ID          string       `json:"id" yaml:"id"`
	Attempts    int          `json:"attempts" yaml:"attempts"`
	Quota       int          `json:"quota" yaml:"quota"`
	Idle        []string     `json:"idle" yaml:"idle"`
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
}
