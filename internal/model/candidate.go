package model

import "time"

// Candidate is one row of the external worklist. Field order mirrors the
// source sheet columns; bookkeeping fields are owned by the scheduler.
type Candidate struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Email           string    `json:"email" bson:"email"`
	Phone           string    `json:"phone" bson:"phone"`
	Preferences     string    `json:"preferences,omitempty" bson:"preferences,omitempty"`
	CVStorageRef    string    `json:"cvStorageRef,omitempty" bson:"cvStorageRef,omitempty"`
	VideoStorageRef string    `json:"videoStorageRef,omitempty" bson:"videoStorageRef,omitempty"`
	CVURL           string    `json:"cvUrl,omitempty" bson:"cvUrl,omitempty"`
	VideoURL        string    `json:"videoUrl" bson:"videoUrl"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	QuestionsURL    string    `json:"questionsUrl,omitempty" bson:"questionsUrl,omitempty"`
	Processed       int       `json:"processed" bson:"processed"` // 0 or 1

	// Scheduler bookkeeping
	ClaimedAt       *time.Time `json:"claimedAt,omitempty" bson:"claimedAt,omitempty"`
	Attempts        int        `json:"attempts" bson:"attempts"`
	LastError       string     `json:"lastError,omitempty" bson:"lastError,omitempty"`
	PermanentlyFailed bool     `json:"permanentlyFailed" bson:"permanentlyFailed"`
}

// HasMedia reports whether the record carries a media locator worth analyzing.
func (c *Candidate) HasMedia() bool {
	return c.VideoURL != ""
}
