package model

// SignalKind identifies one behavioral signal stream produced by an extractor.
type SignalKind string

const (
	SignalEmotion        SignalKind = "emotion"         // categorical, label carries the emotion
	SignalEyeContact     SignalKind = "eye_contact"     // 0-100 %
	SignalPosture        SignalKind = "posture"         // 0-10
	SignalGestureRate    SignalKind = "gesture_rate"    // gestures per minute
	SignalSpeechRate     SignalKind = "speech_rate"     // words per minute
	SignalEnergy         SignalKind = "energy"          // 0-1
	SignalPitchVariation SignalKind = "pitch_variation" // Hz
	SignalPauseRate      SignalKind = "pause_rate"      // pauses per minute
	SignalClarity        SignalKind = "clarity"         // 0-10
)

// SignalSample is a single timestamped observation from one extractor.
type SignalSample struct {
	Kind       SignalKind `json:"kind"`
	At         float64    `json:"at"` // seconds from recording start
	Value      float64    `json:"value,omitempty"`
	Label      string     `json:"label,omitempty"` // set for categorical kinds
	Confidence float64    `json:"confidence"`      // 0-1
}

// Segment is a half-open time interval [Start, End) of the recording.
// Immutable once produced by the segmenter.
type Segment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Contains reports whether a timestamp falls inside the segment.
func (s Segment) Contains(at float64) bool { return at >= s.Start && at < s.End }

// Utterance is one timed span of recognized speech.
type Utterance struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Transcript is the recognized speech for a whole recording.
type Transcript struct {
	Language   string      `json:"language,omitempty"`
	Utterances []Utterance `json:"utterances"`
}

// Text joins all utterances into one string.
func (t *Transcript) Text() string {
	if t == nil {
		return ""
	}
	out := ""
	for i, u := range t.Utterances {
		if i > 0 {
			out += " "
		}
		out += u.Text
	}
	return out
}

// Slice returns the concatenated text of utterances that start inside seg.
func (t *Transcript) Slice(seg Segment) string {
	if t == nil {
		return ""
	}
	out := ""
	for _, u := range t.Utterances {
		if !seg.Contains(u.Start) {
			continue
		}
		if out != "" {
			out += " "
		}
		out += u.Text
	}
	return out
}

// Duration returns the end of the last utterance, in seconds.
func (t *Transcript) Duration() float64 {
	if t == nil || len(t.Utterances) == 0 {
		return 0
	}
	return t.Utterances[len(t.Utterances)-1].End
}
