package model

// Score is a bounded metric value with an explicit no-data marker. A window
// with no qualifying samples for the contributing signals yields Valid=false
// rather than a fabricated value.
type Score struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Valid builds a valid Score.
func ValidScore(v float64) Score { return Score{Value: v, Valid: true} }

// NoData is the marker for a metric that could not be computed.
var NoData = Score{}

// KindStats is the reduced value of one signal kind within one window.
type KindStats struct {
	Kind    SignalKind `json:"kind"`
	Value   float64    `json:"value,omitempty"` // trimmed mean for numeric kinds
	Label   string     `json:"label,omitempty"` // mode for categorical kinds
	Samples int        `json:"samples"`
}

// WindowMetrics is the per-segment reduced metric vector. Computed once per
// segment; immutable afterwards.
type WindowMetrics struct {
	SegmentIndex int     `json:"segmentIndex"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`

	// Behavioral composites, 0-10
	Confidence    Score `json:"confidence"`
	Stress        Score `json:"stress"`
	Engagement    Score `json:"engagement"`
	Communication Score `json:"communication"`

	DominantEmotion string  `json:"dominantEmotion,omitempty"`
	SpeechRate      Score   `json:"speechRate"` // words per minute
	EyeContact      Score   `json:"eyeContact"` // 0-100 %
	Transcript      string  `json:"transcript,omitempty"`
	WordCount       int     `json:"wordCount"`

	// Per-kind aggregates; kinds with no qualifying samples are absent.
	Stats map[SignalKind]KindStats `json:"stats,omitempty"`

	// Human-readable observations extracted from the window
	StressIndicators     []string `json:"stressIndicators,omitempty"`
	EngagementIndicators []string `json:"engagementIndicators,omitempty"`
	CommunicationFactors []string `json:"communicationFactors,omitempty"`
}

// HasSignal reports whether the window carries data for a signal kind.
func (w *WindowMetrics) HasSignal(kind SignalKind) bool {
	_, ok := w.Stats[kind]
	return ok
}

// HasBehavior reports whether the window carries any behavioral reading at
// all; windows where every composite is NoData and no emotion was observed
// contribute nothing to the scoring context.
func (w *WindowMetrics) HasBehavior() bool {
	return w.Confidence.Valid || w.Stress.Valid || w.Engagement.Valid ||
		w.Communication.Valid || w.DominantEmotion != ""
}
