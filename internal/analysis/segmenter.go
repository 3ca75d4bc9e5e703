package analysis

import (
	"fmt"

	"interviewlens/internal/model"
)

// DefaultWindowSeconds is the segment length used when none is configured.
const DefaultWindowSeconds = 30

// Segmenter slices a recording's timeline into fixed-length windows.
// Deterministic: the same duration always yields the same boundaries.
type Segmenter struct {
	Window  float64 // seconds, > 0
	Overlap float64 // seconds, 0 <= Overlap < Window
}

// NewSegmenter builds a segmenter, applying the 30s default window.
func NewSegmenter(windowSec, overlapSec float64) *Segmenter {
	if windowSec <= 0 {
		windowSec = DefaultWindowSeconds
	}
	return &Segmenter{Window: windowSec, Overlap: overlapSec}
}

// Split produces the ordered segment sequence covering [0, duration).
// The last segment is truncated, never padded. With zero overlap the
// segments are contiguous and non-overlapping.
func (s *Segmenter) Split(duration float64) ([]model.Segment, error) {
	if duration <= 0 {
		return nil, &model.InvalidInputError{Reason: fmt.Sprintf("duration must be positive, got %.2f", duration)}
	}
	if s.Overlap < 0 || s.Overlap >= s.Window {
		return nil, &model.InvalidInputError{Reason: fmt.Sprintf("overlap %.2f must be in [0, window %.2f)", s.Overlap, s.Window)}
	}

	step := s.Window - s.Overlap
	var segments []model.Segment
	for start, i := 0.0, 0; start < duration; start, i = start+step, i+1 {
		end := start + s.Window
		if end > duration {
			end = duration
		}
		segments = append(segments, model.Segment{Index: i, Start: start, End: end})
	}
	return segments, nil
}
