package models

import "time"

// Outcome is the recorded result of one actuation request.
type Outcome string

const (
	OutcomePending     Outcome = "pending"
	OutcomeDone        Outcome = "done"
	OutcomeFailed      Outcome = "failed"
	OutcomeUnavailable Outcome = "unavailable"
)

// Actuation is a journal record of a trigger and what the actuator did with it.
type Actuation struct {
	ID          string     `json:"id"`
	RequestedAt time.Time  `json:"requested_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	ClassID     int        `json:"class_id"`
	Confidence  float64    `json:"confidence"`
	Box         Box        `json:"box"`
	Outcome     Outcome    `json:"outcome"`
	Error       string     `json:"error,omitempty"`
	Snapshot    string     `json:"snapshot,omitempty"`
}

// ActuationStats contains aggregate counts over the journal.
type ActuationStats struct {
	Total           int             `json:"total"`
	PerOutcome      map[Outcome]int `json:"per_outcome"`
	LastRequestedAt *time.Time      `json:"last_requested_at,omitempty"`
}
