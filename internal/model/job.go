package model

import "time"

// JobState is the lifecycle state of a processing job.
type JobState string

const (
	JobPending    JobState = "pending"
	JobInProgress JobState = "in_progress"
	JobCompleted  JobState = "completed"
	JobFailed     JobState = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s JobState) Terminal() bool { return s == JobCompleted || s == JobFailed }

// ProcessingJob is the scheduler's record of in-flight work for one
// candidate. At most one non-terminal job exists per candidate id.
type ProcessingJob struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidateId"`
	State       JobState   `json:"state"`
	Attempt     int        `json:"attempt"`
	LastError   string     `json:"lastError,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}
