package model

import "fmt"

// InvalidInputError marks caller mistakes (malformed locator, non-positive
// duration). Never retried.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Reason }

// ExtractionError marks a signal extractor failing for an entire recording.
// One failed modality degrades to no-data; all modalities failing escalates
// to AnalysisError.
type ExtractionError struct {
	Source string // "face", "voice", "speech"
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ScoringError marks a scoring collaborator failure for one criterion.
type ScoringError struct {
	Criterion string
	Err       error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed for %s: %v", e.Criterion, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

// PersistenceError marks a record-store read or write failure. Retried with
// backoff by the scheduler, never silently dropped.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConfigurationError is fatal at startup (rubric weights, unknown criteria).
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Reason }

// AnalysisError marks an unrecoverable pipeline failure for one recording.
type AnalysisError struct {
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Reason, e.Err)
	}
	return "analysis failed: " + e.Reason
}

func (e *AnalysisError) Unwrap() error { return e.Err }
