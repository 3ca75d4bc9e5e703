package model

import "time"

// CriterionScore is the evaluation of one rubric criterion.
type CriterionScore struct {
	Criterion    string   `json:"criterion" bson:"criterion"`
	VerbalScore  float64  `json:"verbalScore" bson:"verbalScore"`       // 0-10
	NonverbalScore float64 `json:"nonverbalScore" bson:"nonverbalScore"` // 0-10
	Fused        float64  `json:"fused" bson:"fused"`                   // 0-10
	Explanation  string   `json:"explanation" bson:"explanation"`
	Observations []string `json:"observations,omitempty" bson:"observations,omitempty"`
	Degraded     bool     `json:"degraded" bson:"degraded"` // scoring collaborator exhausted retries
}

// AnalysisResult is the terminal artifact of one pipeline run.
type AnalysisResult struct {
	CandidateID      string           `json:"candidateId" bson:"candidateId"`
	CandidateName    string           `json:"candidateName" bson:"candidateName"`
	DetectedLanguage string           `json:"detectedLanguage" bson:"detectedLanguage"`
	DurationSeconds  float64          `json:"durationSeconds" bson:"durationSeconds"`
	Scores           []CriterionScore `json:"scores" bson:"scores"` // rubric order
	Overall          int              `json:"overall" bson:"overall"` // 0-100
	Recommendation   string           `json:"recommendation" bson:"recommendation"`
	Feedback         string           `json:"feedback" bson:"feedback"`
	Degraded         bool             `json:"degraded" bson:"degraded"`
	DegradedCriteria []string         `json:"degradedCriteria,omitempty" bson:"degradedCriteria,omitempty"`
	Windows          []WindowMetrics  `json:"windows,omitempty" bson:"windows,omitempty"`
	Trend            TrendSummary     `json:"trend" bson:"trend"`
	AnalyzedAt       time.Time        `json:"analyzedAt" bson:"analyzedAt"`
	EngineVersion    string           `json:"engineVersion" bson:"engineVersion"`
}

// Score returns the criterion score for a rubric key, if present.
func (r *AnalysisResult) Score(criterion string) (CriterionScore, bool) {
	for _, s := range r.Scores {
		if s.Criterion == criterion {
			return s, true
		}
	}
	return CriterionScore{}, false
}

// CriterionColumn is one sub-score/explanation column of the result record.
type CriterionColumn struct {
	Criterion   string  `json:"criterion" bson:"criterion"`
	Score       float64 `json:"score" bson:"score"`
	Explanation string  `json:"explanation" bson:"explanation"`
}

// ResultRecord is the row written to the external result store. Field order
// mirrors the sink columns; Columns preserves the fixed rubric order.
type ResultRecord struct {
	CandidateID      string            `json:"id" bson:"_id"`
	Name             string            `json:"name" bson:"name"`
	Email            string            `json:"email" bson:"email"`
	Phone            string            `json:"phone" bson:"phone"`
	DetectedLanguage string            `json:"detectedLanguage" bson:"detectedLanguage"`
	Columns          []CriterionColumn `json:"columns" bson:"columns"`
	OverallScore     int               `json:"overallScore" bson:"overallScore"` // 0-100
	Recommendation   string            `json:"recommendation" bson:"recommendation"`
	Degraded         bool              `json:"degraded" bson:"degraded"`
	ProcessedAt      time.Time         `json:"processedAt" bson:"processedAt"`
}

// NewResultRecord flattens an analysis result into the sink row shape.
func NewResultRecord(c *Candidate, r *AnalysisResult) *ResultRecord {
	cols := make([]CriterionColumn, 0, len(r.Scores))
	for _, s := range r.Scores {
		cols = append(cols, CriterionColumn{
			Criterion:   s.Criterion,
			Score:       s.Fused,
			Explanation: s.Explanation,
		})
	}
	return &ResultRecord{
		CandidateID:      c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		DetectedLanguage: r.DetectedLanguage,
		Columns:          cols,
		OverallScore:     r.Overall,
		Recommendation:   r.Recommendation,
		Degraded:         r.Degraded,
		ProcessedAt:      r.AnalyzedAt,
	}
}
