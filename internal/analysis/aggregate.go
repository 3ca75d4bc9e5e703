package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"interviewlens/internal/model"
)

// Aggregator reduces the raw samples of one window into a WindowMetrics.
// Samples below the confidence floor are dropped before aggregation; numeric
// kinds use a trimmed mean to survive transient misdetections, categorical
// kinds use the mode.
type Aggregator struct {
	ConfidenceFloor float64 // 0-1, samples below are excluded
	TrimFraction    float64 // fraction trimmed from each end, default 0.1
}

// NewAggregator builds an aggregator with the given confidence floor.
func NewAggregator(confidenceFloor float64) *Aggregator {
	return &Aggregator{ConfidenceFloor: confidenceFloor, TrimFraction: 0.1}
}

// Aggregate computes the metric vector for one segment. A kind with zero
// qualifying samples is absent from Stats and never contributes a fabricated
// value to the composites.
func (a *Aggregator) Aggregate(seg model.Segment, samples []model.SignalSample, transcript string) model.WindowMetrics {
	w := model.WindowMetrics{
		SegmentIndex: seg.Index,
		Start:        seg.Start,
		End:          seg.End,
		Transcript:   transcript,
		WordCount:    len(strings.Fields(transcript)),
		Stats:        make(map[model.SignalKind]model.KindStats),
	}

	numeric := make(map[model.SignalKind][]float64)
	var emotions []string
	for _, s := range samples {
		if !seg.Contains(s.At) || s.Confidence < a.ConfidenceFloor {
			continue
		}
		if s.Kind == model.SignalEmotion {
			if s.Label != "" {
				emotions = append(emotions, s.Label)
			}
			continue
		}
		numeric[s.Kind] = append(numeric[s.Kind], s.Value)
	}

	for kind, values := range numeric {
		w.Stats[kind] = model.KindStats{
			Kind:    kind,
			Value:   trimmedMean(values, a.TrimFraction),
			Samples: len(values),
		}
	}
	if len(emotions) > 0 {
		w.DominantEmotion = mode(emotions)
		w.Stats[model.SignalEmotion] = model.KindStats{
			Kind:    model.SignalEmotion,
			Label:   w.DominantEmotion,
			Samples: len(emotions),
		}
	}

	w.SpeechRate = a.kindScore(w, model.SignalSpeechRate)
	w.EyeContact = a.kindScore(w, model.SignalEyeContact)

	w.Confidence = a.confidence(w, emotions)
	w.Stress = a.stress(w, emotions)
	w.Engagement = a.engagement(w)
	w.Communication = a.communication(w)

	w.StressIndicators = a.stressIndicators(w, emotions)
	w.EngagementIndicators = a.engagementIndicators(w, emotions)
	w.CommunicationFactors = a.communicationFactors(w)

	return w
}

func (a *Aggregator) kindScore(w model.WindowMetrics, kind model.SignalKind) model.Score {
	if st, ok := w.Stats[kind]; ok {
		return model.ValidScore(st.Value)
	}
	return model.NoData
}

type part struct {
	weight float64
	value  float64 // 0-1
}

// composite computes a weighted 0-10 score over the parts that have data,
// renormalizing the weights. No parts means no data.
func composite(parts []part) model.Score {
	totalW, sum := 0.0, 0.0
	for _, p := range parts {
		totalW += p.weight
		sum += p.weight * clamp01(p.value)
	}
	if totalW == 0 {
		return model.NoData
	}
	return model.ValidScore(round1(sum / totalW * 10))
}

func (a *Aggregator) confidence(w model.WindowMetrics, emotions []string) model.Score {
	var parts []part
	if st, ok := w.Stats[model.SignalClarity]; ok {
		parts = append(parts, part{0.20, st.Value / 10})
	}
	if st, ok := w.Stats[model.SignalEyeContact]; ok {
		parts = append(parts, part{0.25, st.Value / 100})
	}
	if st, ok := w.Stats[model.SignalPosture]; ok {
		parts = append(parts, part{0.20, st.Value / 10})
	}
	if st, ok := w.Stats[model.SignalGestureRate]; ok {
		// comfortable gesturing sits around 12/min
		parts = append(parts, part{0.15, clampRange(1-math.Abs(st.Value-12)/15, 0.3, 1)})
	}
	if len(emotions) > 0 {
		parts = append(parts, part{0.20, labelShare(emotions, "confident") + labelShare(emotions, "happy")})
	}
	return composite(parts)
}

func (a *Aggregator) stress(w model.WindowMetrics, emotions []string) model.Score {
	var parts []part
	if st, ok := w.Stats[model.SignalPauseRate]; ok {
		parts = append(parts, part{1, st.Value / 20})
	}
	if st, ok := w.Stats[model.SignalSpeechRate]; ok {
		parts = append(parts, part{1, math.Abs(st.Value-150) / 100})
	}
	if st, ok := w.Stats[model.SignalClarity]; ok {
		parts = append(parts, part{1, (7 - st.Value) / 7})
	}
	if st, ok := w.Stats[model.SignalEyeContact]; ok {
		parts = append(parts, part{1, (70 - st.Value) / 70})
	}
	if st, ok := w.Stats[model.SignalGestureRate]; ok {
		parts = append(parts, part{1, (st.Value - 15) / 10})
	}
	if len(emotions) > 0 {
		parts = append(parts, part{1, labelShare(emotions, "nervous")})
	}
	return composite(parts)
}

func (a *Aggregator) engagement(w model.WindowMetrics) model.Score {
	var parts []part
	if st, ok := w.Stats[model.SignalEnergy]; ok {
		parts = append(parts, part{1, st.Value})
	}
	if st, ok := w.Stats[model.SignalEyeContact]; ok {
		parts = append(parts, part{1, st.Value / 100})
	}
	if st, ok := w.Stats[model.SignalGestureRate]; ok {
		parts = append(parts, part{1, st.Value / 15})
	}
	if st, ok := w.Stats[model.SignalPitchVariation]; ok {
		parts = append(parts, part{1, st.Value / 60})
	}
	return composite(parts)
}

func (a *Aggregator) communication(w model.WindowMetrics) model.Score {
	var parts []part
	if st, ok := w.Stats[model.SignalClarity]; ok {
		parts = append(parts, part{1, st.Value / 10})
	}
	if st, ok := w.Stats[model.SignalSpeechRate]; ok {
		parts = append(parts, part{1, 1 - math.Abs(st.Value-150)/100})
	}
	if st, ok := w.Stats[model.SignalEyeContact]; ok {
		parts = append(parts, part{1, st.Value / 100})
	}
	if w.Transcript != "" {
		parts = append(parts, part{1, float64(w.WordCount) / 20})
	}
	return composite(parts)
}

func (a *Aggregator) stressIndicators(w model.WindowMetrics, emotions []string) []string {
	var out []string
	if st, ok := w.Stats[model.SignalPauseRate]; ok && st.Value > 12 {
		out = append(out, fmt.Sprintf("frequent pauses (%.0f/min)", st.Value))
	}
	if st, ok := w.Stats[model.SignalClarity]; ok && st.Value < 6 {
		out = append(out, fmt.Sprintf("reduced speech clarity (%.1f/10)", st.Value))
	}
	if st, ok := w.Stats[model.SignalEyeContact]; ok && st.Value < 50 {
		out = append(out, fmt.Sprintf("gaze avoidance (%.1f%%)", st.Value))
	}
	if labelShare(emotions, "nervous") > 0.15 {
		out = append(out, fmt.Sprintf("visible nervousness (%.0f%%)", labelShare(emotions, "nervous")*100))
	}
	return out
}

func (a *Aggregator) engagementIndicators(w model.WindowMetrics, emotions []string) []string {
	var out []string
	if st, ok := w.Stats[model.SignalEnergy]; ok {
		switch {
		case st.Value >= 0.7:
			out = append(out, fmt.Sprintf("high vocal energy (%.2f)", st.Value))
		case st.Value >= 0.4:
			out = append(out, fmt.Sprintf("moderate vocal energy (%.2f)", st.Value))
		default:
			out = append(out, fmt.Sprintf("low vocal energy (%.2f)", st.Value))
		}
	}
	if st, ok := w.Stats[model.SignalGestureRate]; ok {
		switch {
		case st.Value >= 15:
			out = append(out, fmt.Sprintf("active gesturing (%.0f/min)", st.Value))
		case st.Value >= 8:
			out = append(out, fmt.Sprintf("moderate gesturing (%.0f/min)", st.Value))
		default:
			out = append(out, fmt.Sprintf("restrained gesturing (%.0f/min)", st.Value))
		}
	}
	if positive := labelShare(emotions, "happy") + labelShare(emotions, "confident"); positive >= 0.5 {
		out = append(out, fmt.Sprintf("positive emotional state (%.0f%%)", positive*100))
	}
	return out
}

func (a *Aggregator) communicationFactors(w model.WindowMetrics) []string {
	var out []string
	if st, ok := w.Stats[model.SignalClarity]; ok {
		switch {
		case st.Value >= 8:
			out = append(out, fmt.Sprintf("excellent speech clarity (%.1f/10)", st.Value))
		case st.Value >= 6:
			out = append(out, fmt.Sprintf("good speech clarity (%.1f/10)", st.Value))
		default:
			out = append(out, fmt.Sprintf("unclear speech (%.1f/10)", st.Value))
		}
	}
	if st, ok := w.Stats[model.SignalEyeContact]; ok {
		switch {
		case st.Value >= 75:
			out = append(out, fmt.Sprintf("strong eye contact (%.1f%%)", st.Value))
		case st.Value >= 50:
			out = append(out, fmt.Sprintf("moderate eye contact (%.1f%%)", st.Value))
		default:
			out = append(out, fmt.Sprintf("weak eye contact (%.1f%%)", st.Value))
		}
	}
	if w.Transcript != "" {
		switch {
		case w.WordCount >= 20:
			out = append(out, fmt.Sprintf("detailed answers (%d words)", w.WordCount))
		case w.WordCount >= 10:
			out = append(out, fmt.Sprintf("moderate answers (%d words)", w.WordCount))
		default:
			out = append(out, fmt.Sprintf("brief answers (%d words)", w.WordCount))
		}
	}
	return out
}

// trimmedMean drops frac of the sorted values from each end before averaging.
func trimmedMean(values []float64, frac float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	trim := int(float64(len(sorted)) * frac)
	if len(sorted)-2*trim < 1 {
		trim = 0
	}
	sorted = sorted[trim : len(sorted)-trim]
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}

func mode(labels []string) string {
	counts := make(map[string]int, len(labels))
	best, bestN := "", 0
	for _, l := range labels {
		counts[l]++
		// ties resolve to the first label reaching the count, keeping the
		// result deterministic for a fixed sample order
		if counts[l] > bestN {
			best, bestN = l, counts[l]
		}
	}
	return best
}

func labelShare(labels []string, label string) float64 {
	if len(labels) == 0 {
		return 0
	}
	n := 0
	for _, l := range labels {
		if l == label {
			n++
		}
	}
	return float64(n) / float64(len(labels))
}

func clamp01(v float64) float64 { return clampRange(v, 0, 1) }

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
