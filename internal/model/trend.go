package model

// TrendDirection classifies the slope of a metric across the interview.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendFlat    TrendDirection = "flat"
)

// Interview phases assigned to segment ranges. The classifier may return any
// of these; the positional fallback uses a subset.
const (
	PhaseIntro          = "intro"
	PhaseExperience     = "experience"
	PhaseTechnical      = "technical"
	PhaseBehavioral     = "behavioral"
	PhaseProblemSolving = "problem-solving"
	PhaseMotivation     = "motivation"
	PhasePersonal       = "personal"
)

// PhaseSpan maps a contiguous segment range to an interview phase.
type PhaseSpan struct {
	Phase       string `json:"phase"`
	FromSegment int    `json:"fromSegment"` // inclusive
	ToSegment   int    `json:"toSegment"`   // inclusive
	Complexity  int    `json:"complexity"`  // 1-10
}

// MetricTrend is the directional summary of one metric over all windows.
type MetricTrend struct {
	Metric    string         `json:"metric"`
	Direction TrendDirection `json:"direction"`
	Slope     float64        `json:"slope"` // per-window units
	First     float64        `json:"first"`
	Last      float64        `json:"last"`
}

// InflectionEvent records a window-to-window jump above the threshold.
type InflectionEvent struct {
	SegmentIndex int     `json:"segmentIndex"`
	At           float64 `json:"at"` // segment start, seconds
	Metric       string  `json:"metric"`
	Delta        float64 `json:"delta"`
}

// AdaptationEvent records behavior across a phase boundary: the metric mean
// in a trailing window before the boundary against a leading window after it.
type AdaptationEvent struct {
	SegmentIndex int     `json:"segmentIndex"` // first segment of the new phase
	FromPhase    string  `json:"fromPhase"`
	ToPhase      string  `json:"toPhase"`
	Metric       string  `json:"metric"`
	Before       float64 `json:"before"`
	After        float64 `json:"after"`
	Delta        float64 `json:"delta"`
	Recovered    bool    `json:"recovered"` // metric returned to baseline shortly after a dip
}

// PhaseBehavior aggregates composites over all segments of one phase.
type PhaseBehavior struct {
	Segments      int     `json:"segments"`
	Confidence    float64 `json:"confidence"`
	Stress        float64 `json:"stress"`
	Engagement    float64 `json:"engagement"`
	Communication float64 `json:"communication"`
	AvgComplexity float64 `json:"avgComplexity"`
}

// TrendSummary is the event-based summary of metrics across all windows of
// one recording. Advisory context for scoring, never a score source itself.
type TrendSummary struct {
	Trends      map[string]MetricTrend   `json:"trends,omitempty"`
	Inflections []InflectionEvent        `json:"inflections,omitempty"`
	Adaptations []AdaptationEvent        `json:"adaptations,omitempty"`
	Phases      []PhaseSpan              `json:"phases,omitempty"`
	PhaseStats  map[string]PhaseBehavior `json:"phaseStats,omitempty"`
}
