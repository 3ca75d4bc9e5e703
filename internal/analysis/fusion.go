package analysis

import (
	"math"

	"interviewlens/internal/config"
	"interviewlens/internal/model"
)

// FusionEngine combines verbal and non-verbal sub-scores per criterion and
// folds them into the weighted overall score and recommendation. Pure: the
// same scores always produce the same overall.
type FusionEngine struct {
	rubric *config.Rubric
}

// NewFusionEngine builds a fusion engine over a validated rubric.
func NewFusionEngine(rubric *config.Rubric) *FusionEngine {
	return &FusionEngine{rubric: rubric}
}

// FuseCriterion computes one criterion's fused 0-10 score. Criteria marked
// verbal-only or nonverbal-only count only the available sub-score; everything
// else is the equal-weighted average.
func (f *FusionEngine) FuseCriterion(c config.Criterion, verbal, nonverbal float64) float64 {
	switch c.Mode {
	case config.ModeVerbalOnly:
		return round1(verbal)
	case config.ModeNonverbalOnly:
		return round1(nonverbal)
	default:
		return round1((verbal + nonverbal) / 2)
	}
}

// Fuse fills the Fused field of every criterion score and computes the
// overall 0-100 score and recommendation. Degraded criteria are excluded and
// the remaining weights renormalized; scoring every criterion as degraded is
// an analysis failure, not a zero score.
func (f *FusionEngine) Fuse(scores []model.CriterionScore) (overall int, recommendation string, err error) {
	totalWeight, weighted := 0.0, 0.0
	for i := range scores {
		c, ok := f.rubric.Criterion(scores[i].Criterion)
		if !ok {
			return 0, "", &model.ConfigurationError{Reason: "score for unknown criterion " + scores[i].Criterion}
		}
		scores[i].Fused = f.FuseCriterion(c, scores[i].VerbalScore, scores[i].NonverbalScore)
		if scores[i].Degraded {
			continue
		}
		totalWeight += c.Weight
		weighted += c.Weight * scores[i].Fused
	}
	if totalWeight == 0 {
		return 0, "", &model.AnalysisError{Reason: "no scoreable criteria"}
	}

	overall = int(math.Round(weighted / totalWeight * 10))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}
	return overall, f.rubric.Band(overall), nil
}
