package scoring

import (
	"context"

	"interviewlens/internal/config"
	"interviewlens/internal/model"
)

// ScoreRequest carries everything the language model needs to score one
// criterion. All context fields are plain text, already rendered by the
// prompt builders.
type ScoreRequest struct {
	Criterion       config.Criterion
	CandidateName   string
	Language        string
	Transcript      string
	CVText          string
	QuestionsText   string
	BehaviorSummary string
	TrendSummary    string
}

// ScoreResponse is the model's verdict for one criterion. Sub-scores are on
// the 0-10 scale; validation and clamping happen in the scorer, not here.
type ScoreResponse struct {
	Verbal       float64  `json:"verbal_score"`
	Nonverbal    float64  `json:"nonverbal_score"`
	Explanation  string   `json:"explanation"`
	Observations []string `json:"observations"`
}

// PhaseRequest asks for the interview to be split into topical phases.
type PhaseRequest struct {
	SegmentCount int
	// Excerpts holds one transcript excerpt per segment, indexed by segment.
	Excerpts []string
}

// Collaborator is the language-model boundary. Implementations make exactly
// one model call per invocation.
type Collaborator interface {
	Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error)
	ClassifyPhases(ctx context.Context, req PhaseRequest) ([]model.PhaseSpan, error)
}
