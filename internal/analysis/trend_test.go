package analysis

import (
	"testing"

	"interviewlens/internal/model"
)

func windowsWithConfidence(values ...float64) []model.WindowMetrics {
	windows := make([]model.WindowMetrics, len(values))
	for i, v := range values {
		windows[i] = model.WindowMetrics{
			SegmentIndex: i,
			Start:        float64(i * 30),
			End:          float64((i + 1) * 30),
			Confidence:   model.ValidScore(v),
		}
	}
	return windows
}

func TestTrendDirectionRising(t *testing.T) {
	e := NewTrendEngine(DefaultTrendConfig())
	summary := e.Summarize(windowsWithConfidence(4, 5, 6, 7, 8), nil)
	trend, ok := summary.Trends["confidence"]
	if !ok {
		t.Fatal("no confidence trend")
	}
	if trend.Direction != model.TrendRising {
		t.Errorf("direction = %s, want rising", trend.Direction)
	}
	if trend.Slope <= 0 {
		t.Errorf("slope = %v, want positive", trend.Slope)
	}
}

func TestTrendDirectionFlatUnderThreshold(t *testing.T) {
	e := NewTrendEngine(DefaultTrendConfig())
	// jitter well under the slope threshold must not be flagged as a trend
	summary := e.Summarize(windowsWithConfidence(6, 6.1, 6, 6.05, 6.1, 6, 6.02, 6.08), nil)
	if dir := summary.Trends["confidence"].Direction; dir != model.TrendFlat {
		t.Errorf("direction = %s, want flat", dir)
	}
}

func TestTrendSkipsNoDataWindows(t *testing.T) {
	e := NewTrendEngine(DefaultTrendConfig())
	windows := windowsWithConfidence(4, 5, 6, 7)
	windows[2].Confidence = model.NoData
	summary := e.Summarize(windows, nil)
	if _, ok := summary.Trends["confidence"]; !ok {
		t.Fatal("trend should compute from the remaining valid windows")
	}
	// the 5 -> 7 jump across the gap is 2.0, at the inflection threshold
	found := false
	for _, ev := range summary.Inflections {
		if ev.Metric == "confidence" && ev.SegmentIndex == 3 {
			found = true
			if ev.Delta != 2 {
				t.Errorf("delta = %v, want 2", ev.Delta)
			}
		}
	}
	if !found {
		t.Error("inflection across no-data gap not recorded")
	}
}

func TestInflectionEvents(t *testing.T) {
	e := NewTrendEngine(DefaultTrendConfig())
	summary := e.Summarize(windowsWithConfidence(7, 7, 4.5, 7, 7), nil)
	var drops, rises int
	for _, ev := range summary.Inflections {
		if ev.Metric != "confidence" {
			continue
		}
		if ev.Delta < 0 {
			drops++
		} else {
			rises++
		}
	}
	if drops != 1 || rises != 1 {
		t.Errorf("got %d drops and %d rises, want 1 and 1", drops, rises)
	}
}

func TestAdaptationRecovery(t *testing.T) {
	e := NewTrendEngine(TrendConfig{BoundaryWindow: 1, RecoveryWindows: 2})
	// confidence dips when the technical phase starts, then recovers
	windows := windowsWithConfidence(8, 8, 4, 8, 8)
	phases := []model.PhaseSpan{
		{Phase: model.PhaseIntro, FromSegment: 0, ToSegment: 1, Complexity: 2},
		{Phase: model.PhaseTechnical, FromSegment: 2, ToSegment: 4, Complexity: 7},
	}
	summary := e.Summarize(windows, phases)

	var ev *model.AdaptationEvent
	for i := range summary.Adaptations {
		if summary.Adaptations[i].Metric == "confidence" {
			ev = &summary.Adaptations[i]
		}
	}
	if ev == nil {
		t.Fatal("no confidence adaptation event at phase boundary")
	}
	if ev.FromPhase != model.PhaseIntro || ev.ToPhase != model.PhaseTechnical {
		t.Errorf("phases = %s -> %s", ev.FromPhase, ev.ToPhase)
	}
	if ev.Delta >= 0 {
		t.Errorf("delta = %v, want a dip", ev.Delta)
	}
	if !ev.Recovered {
		t.Error("recovery within the horizon not detected")
	}
}

func TestAdaptationNoRecovery(t *testing.T) {
	e := NewTrendEngine(TrendConfig{BoundaryWindow: 1, RecoveryWindows: 2})
	windows := windowsWithConfidence(8, 8, 4, 4, 4)
	phases := []model.PhaseSpan{
		{Phase: model.PhaseIntro, FromSegment: 0, ToSegment: 1, Complexity: 2},
		{Phase: model.PhaseTechnical, FromSegment: 2, ToSegment: 4, Complexity: 7},
	}
	summary := e.Summarize(windows, phases)
	for _, ev := range summary.Adaptations {
		if ev.Metric == "confidence" && ev.Recovered {
			t.Error("recovery reported for a sustained dip")
		}
	}
}

func TestPhaseStats(t *testing.T) {
	e := NewTrendEngine(DefaultTrendConfig())
	windows := windowsWithConfidence(8, 8, 4, 4)
	phases := []model.PhaseSpan{
		{Phase: model.PhaseIntro, FromSegment: 0, ToSegment: 1, Complexity: 2},
		{Phase: model.PhaseTechnical, FromSegment: 2, ToSegment: 3, Complexity: 7},
	}
	summary := e.Summarize(windows, phases)
	intro := summary.PhaseStats[model.PhaseIntro]
	tech := summary.PhaseStats[model.PhaseTechnical]
	if intro.Confidence != 8 || tech.Confidence != 4 {
		t.Errorf("phase confidence = %v / %v, want 8 / 4", intro.Confidence, tech.Confidence)
	}
	if intro.Segments != 2 || tech.Segments != 2 {
		t.Errorf("phase segment counts = %d / %d", intro.Segments, tech.Segments)
	}
}

func TestPhaseStatsMergeRepeatedPhase(t *testing.T) {
	e := NewTrendEngine(DefaultTrendConfig())
	// the technical phase appears twice with different confidence levels;
	// the stats must average over all four of its segments, not the last span
	windows := windowsWithConfidence(8, 8, 6, 6, 2, 2)
	phases := []model.PhaseSpan{
		{Phase: model.PhaseTechnical, FromSegment: 0, ToSegment: 1, Complexity: 5},
		{Phase: model.PhaseBehavioral, FromSegment: 2, ToSegment: 3, Complexity: 4},
		{Phase: model.PhaseTechnical, FromSegment: 4, ToSegment: 5, Complexity: 9},
	}
	summary := e.Summarize(windows, phases)
	tech := summary.PhaseStats[model.PhaseTechnical]
	if tech.Segments != 4 {
		t.Errorf("technical segments = %d, want 4", tech.Segments)
	}
	if tech.Confidence != 5 {
		t.Errorf("technical confidence = %v, want the mean 5 across both spans", tech.Confidence)
	}
	if tech.AvgComplexity != 7 {
		t.Errorf("technical complexity = %v, want the span mean 7", tech.AvgComplexity)
	}
}

func TestFallbackPhasesCoverAllSegments(t *testing.T) {
	phases := FallbackPhases(10)
	if len(phases) == 0 {
		t.Fatal("no phases")
	}
	if phases[0].FromSegment != 0 {
		t.Errorf("first phase starts at %d", phases[0].FromSegment)
	}
	if phases[len(phases)-1].ToSegment != 9 {
		t.Errorf("last phase ends at %d", phases[len(phases)-1].ToSegment)
	}
	for i := 1; i < len(phases); i++ {
		if phases[i].FromSegment != phases[i-1].ToSegment+1 {
			t.Errorf("gap between phase %d and %d", i-1, i)
		}
	}
}
