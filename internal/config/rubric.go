package config

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"interviewlens/internal/model"
)

// ScoreMode declares which sub-scores count toward a criterion's fused score.
type ScoreMode string

const (
	ModeBoth          ScoreMode = "both"
	ModeVerbalOnly    ScoreMode = "verbal"
	ModeNonverbalOnly ScoreMode = "nonverbal"
)

// Criterion is one rubric dimension, scored 0-10.
type Criterion struct {
	Key         string    `yaml:"key"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Indicators  []string  `yaml:"indicators"`
	Weight      float64   `yaml:"weight"`
	Mode        ScoreMode `yaml:"mode"`
}

// Band maps a minimum overall score (0-100) to a recommendation label.
type Band struct {
	Min   int    `yaml:"min"`
	Label string `yaml:"label"`
}

// Rubric is the fixed evaluation configuration: criteria with weights plus
// recommendation bands. Loaded once at startup and validated; violations are
// fatal, never per-record.
type Rubric struct {
	Criteria []Criterion `yaml:"criteria"`
	Bands    []Band      `yaml:"bands"`
}

// LoadRubric reads a rubric from a YAML file, or returns the built-in default
// when path is empty.
func LoadRubric(path string) (*Rubric, error) {
	if path == "" {
		r := DefaultRubric()
		return r, r.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("read rubric %s: %v", path, err)}
	}
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("parse rubric %s: %v", path, err)}
	}
	for i := range r.Criteria {
		if r.Criteria[i].Mode == "" {
			r.Criteria[i].Mode = ModeBoth
		}
	}
	return &r, r.Validate()
}

// Validate enforces the rubric invariants: weights sum to 1, keys unique,
// modes known, bands sorted and anchored at 0.
func (r *Rubric) Validate() error {
	if len(r.Criteria) == 0 {
		return &model.ConfigurationError{Reason: "rubric has no criteria"}
	}
	sum := 0.0
	seen := make(map[string]bool, len(r.Criteria))
	for _, c := range r.Criteria {
		if c.Key == "" {
			return &model.ConfigurationError{Reason: "criterion with empty key"}
		}
		if seen[c.Key] {
			return &model.ConfigurationError{Reason: "duplicate criterion " + c.Key}
		}
		seen[c.Key] = true
		if c.Weight < 0 {
			return &model.ConfigurationError{Reason: "negative weight for " + c.Key}
		}
		switch c.Mode {
		case ModeBoth, ModeVerbalOnly, ModeNonverbalOnly:
		default:
			return &model.ConfigurationError{Reason: fmt.Sprintf("unknown mode %q for %s", c.Mode, c.Key)}
		}
		sum += c.Weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return &model.ConfigurationError{Reason: fmt.Sprintf("criterion weights sum to %.4f, want 1.0", sum)}
	}
	if len(r.Bands) == 0 {
		return &model.ConfigurationError{Reason: "rubric has no recommendation bands"}
	}
	if !sort.SliceIsSorted(r.Bands, func(i, j int) bool { return r.Bands[i].Min > r.Bands[j].Min }) {
		return &model.ConfigurationError{Reason: "bands must be sorted by descending min"}
	}
	if r.Bands[len(r.Bands)-1].Min != 0 {
		return &model.ConfigurationError{Reason: "lowest band must start at 0"}
	}
	return nil
}

// Criterion returns the rubric entry for a key.
func (r *Rubric) Criterion(key string) (Criterion, bool) {
	for _, c := range r.Criteria {
		if c.Key == key {
			return c, true
		}
	}
	return Criterion{}, false
}

// Band maps an overall score (0-100) to its recommendation label.
func (r *Rubric) Band(score int) string {
	for _, b := range r.Bands {
		if score >= b.Min {
			return b.Label
		}
	}
	return r.Bands[len(r.Bands)-1].Label
}

// DefaultRubric is the built-in ten-criterion rubric with equal weights.
func DefaultRubric() *Rubric {
	return &Rubric{
		Criteria: []Criterion{
			{
				Key:         "communication",
				Name:        "Communication skills",
				Description: "Ability to communicate clearly and effectively",
				Indicators:  []string{"clarity of speech", "structured answers", "listening", "understanding of questions"},
				Weight:      0.1,
				Mode:        ModeBoth,
			},
			{
				Key:         "technical",
				Name:        "Technical knowledge",
				Description: "Depth of domain and applied technical knowledge",
				Indicators:  []string{"use of terminology", "practical examples", "depth of answers", "concrete achievements"},
				Weight:      0.1,
				Mode:        ModeVerbalOnly,
			},
			{
				Key:         "problem-solving",
				Name:        "Problem solving",
				Description: "Logical analysis and decomposition of problems",
				Indicators:  []string{"logical reasoning", "decomposition", "cause-effect links", "critical thinking"},
				Weight:      0.1,
				Mode:        ModeBoth,
			},
			{
				Key:         "motivation",
				Name:        "Motivation",
				Description: "Drive to learn and grow",
				Indicators:  []string{"interest in growth", "readiness for challenges", "career goals", "enthusiasm"},
				Weight:      0.1,
				Mode:        ModeBoth,
			},
			{
				Key:         "cultural-fit",
				Name:        "Cultural fit",
				Description: "Alignment with team values and collaboration style",
				Indicators:  []string{"teamwork examples", "we-language", "constructiveness", "openness"},
				Weight:      0.1,
				Mode:        ModeBoth,
			},
			{
				Key:         "leadership",
				Name:        "Leadership",
				Description: "Initiative and ability to guide others",
				Indicators:  []string{"ownership", "initiative", "influence", "decision making"},
				Weight:      0.1,
				Mode:        ModeBoth,
			},
			{
				Key:         "adaptability",
				Name:        "Adaptability",
				Description: "Flexibility when topics or difficulty change",
				Indicators:  []string{"openness to change", "speed of adjustment", "recovery after dips", "topic switching"},
				Weight:      0.1,
				Mode:        ModeBoth,
			},
			{
				Key:         "professionalism",
				Name:        "Professionalism",
				Description: "Composure and working maturity under pressure",
				Indicators:  []string{"composure", "emotional control", "steady tone", "handling difficult questions"},
				Weight:      0.1,
				Mode:        ModeBoth,
			},
			{
				Key:         "self-presentation",
				Name:        "Self-presentation",
				Description: "Presence, posture and non-verbal delivery",
				Indicators:  []string{"eye contact", "posture", "gestures", "overall presence"},
				Weight:      0.1,
				Mode:        ModeNonverbalOnly,
			},
			{
				Key:         "overall-impression",
				Name:        "Overall impression",
				Description: "Holistic assessment of the candidate",
				Indicators:  []string{"professionalism", "maturity", "growth potential", "consistency over the interview"},
				Weight:      0.1,
				Mode:        ModeBoth,
			},
		},
		Bands: []Band{
			{Min: 75, Label: "strong hire"},
			{Min: 60, Label: "hire"},
			{Min: 40, Label: "borderline"},
			{Min: 0, Label: "no hire"},
		},
	}
}
