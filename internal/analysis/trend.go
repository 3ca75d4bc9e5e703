package analysis

import (
	"interviewlens/internal/model"
)

// Composite metric names tracked by the trend engine.
var trendMetrics = [...]string{"confidence", "stress", "engagement", "communication"}

// TrendConfig tunes trend detection thresholds.
type TrendConfig struct {
	SlopeThreshold  float64 // minimum |slope| per window to call a trend, default 0.15
	InflectionDelta float64 // window-to-window jump worth recording, default 2.0
	BoundaryWindow  int     // windows averaged on each side of a phase boundary, default 2
	RecoveryWindows int     // windows after a dip in which recovery counts, default 2
}

// DefaultTrendConfig returns the thresholds used in production.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		SlopeThreshold:  0.15,
		InflectionDelta: 2.0,
		BoundaryWindow:  2,
		RecoveryWindows: 2,
	}
}

// TrendEngine computes directional trends, inflection points and adaptation
// events over the ordered window sequence of one recording. Windows must be
// in strictly increasing segment order.
type TrendEngine struct {
	cfg TrendConfig
}

// NewTrendEngine builds a trend engine, zero thresholds fall back to defaults.
func NewTrendEngine(cfg TrendConfig) *TrendEngine {
	def := DefaultTrendConfig()
	if cfg.SlopeThreshold <= 0 {
		cfg.SlopeThreshold = def.SlopeThreshold
	}
	if cfg.InflectionDelta <= 0 {
		cfg.InflectionDelta = def.InflectionDelta
	}
	if cfg.BoundaryWindow <= 0 {
		cfg.BoundaryWindow = def.BoundaryWindow
	}
	if cfg.RecoveryWindows <= 0 {
		cfg.RecoveryWindows = def.RecoveryWindows
	}
	return &TrendEngine{cfg: cfg}
}

// Summarize derives the TrendSummary for one recording. phases may be nil
// when no question-type timeline is available; adaptation events are then
// omitted.
func (e *TrendEngine) Summarize(windows []model.WindowMetrics, phases []model.PhaseSpan) model.TrendSummary {
	summary := model.TrendSummary{
		Trends:     make(map[string]model.MetricTrend, len(trendMetrics)),
		Phases:     phases,
		PhaseStats: make(map[string]model.PhaseBehavior),
	}

	for _, metric := range trendMetrics {
		series := metricSeries(windows, metric)
		if trend, ok := e.direction(metric, series); ok {
			summary.Trends[metric] = trend
		}
		summary.Inflections = append(summary.Inflections, e.inflections(windows, metric, series)...)
	}

	if len(phases) > 0 {
		summary.Adaptations = e.adaptations(windows, phases)
		summary.PhaseStats = e.phaseStats(windows, phases)
	}

	return summary
}

// metricValue reads one composite by name; ok is false for no-data windows.
func metricValue(w model.WindowMetrics, metric string) (float64, bool) {
	var s model.Score
	switch metric {
	case "confidence":
		s = w.Confidence
	case "stress":
		s = w.Stress
	case "engagement":
		s = w.Engagement
	case "communication":
		s = w.Communication
	}
	return s.Value, s.Valid
}

func metricSeries(windows []model.WindowMetrics, metric string) []model.Score {
	series := make([]model.Score, len(windows))
	for i, w := range windows {
		v, ok := metricValue(w, metric)
		series[i] = model.Score{Value: v, Valid: ok}
	}
	return series
}

// direction fits a least-squares line through the valid points and maps the
// slope sign onto rising/falling/flat with the noise threshold applied.
func (e *TrendEngine) direction(metric string, series []model.Score) (model.MetricTrend, bool) {
	var xs, ys []float64
	for i, s := range series {
		if s.Valid {
			xs = append(xs, float64(i))
			ys = append(ys, s.Value)
		}
	}
	if len(xs) < 2 {
		return model.MetricTrend{}, false
	}

	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return model.MetricTrend{}, false
	}
	slope := (n*sumXY - sumX*sumY) / denom

	dir := model.TrendFlat
	if slope >= e.cfg.SlopeThreshold {
		dir = model.TrendRising
	} else if slope <= -e.cfg.SlopeThreshold {
		dir = model.TrendFalling
	}
	return model.MetricTrend{
		Metric:    metric,
		Direction: dir,
		Slope:     slope,
		First:     ys[0],
		Last:      ys[len(ys)-1],
	}, true
}

func (e *TrendEngine) inflections(windows []model.WindowMetrics, metric string, series []model.Score) []model.InflectionEvent {
	var events []model.InflectionEvent
	prev := -1
	for i, s := range series {
		if !s.Valid {
			continue
		}
		if prev >= 0 {
			delta := s.Value - series[prev].Value
			if delta >= e.cfg.InflectionDelta || delta <= -e.cfg.InflectionDelta {
				events = append(events, model.InflectionEvent{
					SegmentIndex: windows[i].SegmentIndex,
					At:           windows[i].Start,
					Metric:       metric,
					Delta:        delta,
				})
			}
		}
		prev = i
	}
	return events
}

// adaptations compares trailing vs leading means around every phase boundary
// and checks whether a dip recovers to baseline within the recovery horizon.
func (e *TrendEngine) adaptations(windows []model.WindowMetrics, phases []model.PhaseSpan) []model.AdaptationEvent {
	var events []model.AdaptationEvent
	for pi := 1; pi < len(phases); pi++ {
		boundary := phases[pi].FromSegment
		idx := indexOfSegment(windows, boundary)
		if idx <= 0 {
			continue
		}
		for _, metric := range trendMetrics {
			before, okB := meanOver(windows, metric, idx-e.cfg.BoundaryWindow, idx)
			after, okA := meanOver(windows, metric, idx, idx+e.cfg.BoundaryWindow)
			if !okB || !okA {
				continue
			}
			ev := model.AdaptationEvent{
				SegmentIndex: boundary,
				FromPhase:    phases[pi-1].Phase,
				ToPhase:      phases[pi].Phase,
				Metric:       metric,
				Before:       before,
				After:        after,
				Delta:        round1(after - before),
			}
			if ev.Delta < -e.cfg.InflectionDelta/2 {
				ev.Recovered = e.recovered(windows, metric, idx+e.cfg.BoundaryWindow, before)
			} else {
				ev.Recovered = true
			}
			events = append(events, ev)
		}
	}
	return events
}

func (e *TrendEngine) recovered(windows []model.WindowMetrics, metric string, from int, baseline float64) bool {
	for i := from; i < from+e.cfg.RecoveryWindows && i < len(windows); i++ {
		if v, ok := metricValue(windows[i], metric); ok && v >= baseline-e.cfg.SlopeThreshold {
			return true
		}
	}
	return false
}

// phaseAccum collects per-phase running sums across spans; a phase that the
// collaborator split into several spans is averaged over all of its segments.
type phaseAccum struct {
	segments   int
	spans      int
	complexity float64
	sum        [len(trendMetrics)]float64
	n          [len(trendMetrics)]int
}

func (e *TrendEngine) phaseStats(windows []model.WindowMetrics, phases []model.PhaseSpan) map[string]model.PhaseBehavior {
	accums := make(map[string]*phaseAccum, len(phases))
	for _, p := range phases {
		from := indexOfSegment(windows, p.FromSegment)
		to := indexOfSegment(windows, p.ToSegment)
		if from < 0 || to < 0 {
			continue
		}
		a := accums[p.Phase]
		if a == nil {
			a = &phaseAccum{}
			accums[p.Phase] = a
		}
		a.segments += to - from + 1
		a.spans++
		a.complexity += float64(p.Complexity)
		for i := from; i <= to; i++ {
			for mi, metric := range trendMetrics {
				if v, ok := metricValue(windows[i], metric); ok {
					a.sum[mi] += v
					a.n[mi]++
				}
			}
		}
	}

	stats := make(map[string]model.PhaseBehavior, len(accums))
	for phase, a := range accums {
		b := model.PhaseBehavior{
			Segments:      a.segments,
			AvgComplexity: round1(a.complexity / float64(a.spans)),
		}
		var means [len(trendMetrics)]float64
		for mi := range trendMetrics {
			if a.n[mi] > 0 {
				means[mi] = round1(a.sum[mi] / float64(a.n[mi]))
			}
		}
		b.Confidence, b.Stress, b.Engagement, b.Communication = means[0], means[1], means[2], means[3]
		stats[phase] = b
	}
	return stats
}

// meanOver averages valid values over [from, to), clamped to the window range.
func meanOver(windows []model.WindowMetrics, metric string, from, to int) (float64, bool) {
	if from < 0 {
		from = 0
	}
	if to > len(windows) {
		to = len(windows)
	}
	sum, n := 0.0, 0
	for i := from; i < to; i++ {
		if v, ok := metricValue(windows[i], metric); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return round1(sum / float64(n)), true
}

func indexOfSegment(windows []model.WindowMetrics, segment int) int {
	for i, w := range windows {
		if w.SegmentIndex == segment {
			return i
		}
	}
	return -1
}
