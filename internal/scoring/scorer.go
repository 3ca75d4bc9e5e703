package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"interviewlens/internal/config"
	"interviewlens/internal/model"
)

// slack beyond the 0-10 scale that is treated as a model formatting slip
// (and clamped) rather than a bad response worth retrying.
const scoreSlack = 0.5

// Scorer walks the rubric and produces one CriterionScore per criterion.
// Each criterion gets its own collaborator call; a criterion whose calls
// keep failing is marked degraded instead of failing the whole analysis.
type Scorer struct {
	rubric      *config.Rubric
	collab      Collaborator
	maxAttempts int
	retryDelay  time.Duration
}

// NewScorer creates a scorer over a validated rubric.
func NewScorer(rubric *config.Rubric, collab Collaborator) *Scorer {
	return &Scorer{
		rubric:      rubric,
		collab:      collab,
		maxAttempts: 3,
		retryDelay:  time.Second,
	}
}

// ScoreAll scores every rubric criterion. The returned slice always has one
// entry per criterion, in rubric order; inspect Degraded for failures.
// Context cancellation aborts the walk and returns the error.
func (s *Scorer) ScoreAll(ctx context.Context, req ScoreRequest) ([]model.CriterionScore, error) {
	scores := make([]model.CriterionScore, 0, len(s.rubric.Criteria))
	for _, c := range s.rubric.Criteria {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req.Criterion = c
		score, err := s.scoreOne(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[Scorer] Criterion %s degraded: %v", c.Key, err)
			score = model.CriterionScore{
				Criterion:   c.Key,
				Explanation: "scoring unavailable for this criterion",
				Degraded:    true,
			}
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// scoreOne calls the collaborator for a single criterion, retrying invalid
// or failed responses with exponential backoff. One call per attempt.
func (s *Scorer) scoreOne(ctx context.Context, req ScoreRequest) (model.CriterionScore, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * s.retryDelay
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return model.CriterionScore{}, ctx.Err()
			}
		}

		resp, err := s.collab.Score(ctx, req)
		if err == nil {
			err = validateResponse(resp)
		}
		if err != nil {
			lastErr = &model.ScoringError{Criterion: req.Criterion.Key, Err: err}
			continue
		}

		return model.CriterionScore{
			Criterion:      req.Criterion.Key,
			VerbalScore:    clampScore(resp.Verbal, req.Criterion.Key, "verbal"),
			NonverbalScore: clampScore(resp.Nonverbal, req.Criterion.Key, "nonverbal"),
			Explanation:    resp.Explanation,
			Observations:   resp.Observations,
		}, nil
	}
	return model.CriterionScore{}, lastErr
}

// validateResponse rejects responses a retry might fix: NaN scores or values
// far off the 0-10 scale.
func validateResponse(resp *ScoreResponse) error {
	for name, v := range map[string]float64{"verbal": resp.Verbal, "nonverbal": resp.Nonverbal} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s score is not a number", name)
		}
		if v < -scoreSlack || v > 10+scoreSlack {
			return fmt.Errorf("%s score %.2f outside 0-10", name, v)
		}
	}
	return nil
}

// clampScore snaps a near-miss back onto the 0-10 scale.
func clampScore(v float64, criterion, sub string) float64 {
	if v < 0 {
		log.Printf("[Scorer] Clamping %s %s score %.2f to 0", criterion, sub, v)
		return 0
	}
	if v > 10 {
		log.Printf("[Scorer] Clamping %s %s score %.2f to 10", criterion, sub, v)
		return 10
	}
	return v
}
