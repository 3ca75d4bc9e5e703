package scoring

import (
	"fmt"
	"strings"

	"interviewlens/internal/model"
)

// BuildBehaviorSummary renders the per-window non-verbal picture as compact
// text for the scoring prompt.
func BuildBehaviorSummary(windows []model.WindowMetrics) string {
	if len(windows) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, w := range windows {
		if !w.HasBehavior() {
			continue
		}
		fmt.Fprintf(&sb, "[%.0f-%.0fs]", w.Start, w.End)
		if w.Confidence.Valid {
			fmt.Fprintf(&sb, " confidence=%.1f", w.Confidence.Value)
		}
		if w.Stress.Valid {
			fmt.Fprintf(&sb, " stress=%.1f", w.Stress.Value)
		}
		if w.Engagement.Valid {
			fmt.Fprintf(&sb, " engagement=%.1f", w.Engagement.Value)
		}
		if w.Communication.Valid {
			fmt.Fprintf(&sb, " communication=%.1f", w.Communication.Value)
		}
		if w.DominantEmotion != "" {
			fmt.Fprintf(&sb, " emotion=%s", w.DominantEmotion)
		}
		if w.EyeContact.Valid {
			fmt.Fprintf(&sb, " eye_contact=%.0f%%", w.EyeContact.Value)
		}
		if len(w.StressIndicators) > 0 {
			fmt.Fprintf(&sb, " notes: %s", strings.Join(w.StressIndicators, "; "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// BuildTrendSummary renders the temporal trend analysis as compact text.
func BuildTrendSummary(t *model.TrendSummary) string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	for metric, trend := range t.Trends {
		fmt.Fprintf(&sb, "%s: %s (%.1f -> %.1f)\n", metric, trend.Direction, trend.First, trend.Last)
	}
	for _, inf := range t.Inflections {
		fmt.Fprintf(&sb, "sharp %s change of %+.1f at segment %d\n", inf.Metric, inf.Delta, inf.SegmentIndex)
	}
	for _, a := range t.Adaptations {
		state := "did not recover"
		if a.Recovered {
			state = "recovered"
		}
		fmt.Fprintf(&sb, "%s dipped %+.1f at the %s -> %s transition and %s\n",
			a.Metric, a.Delta, a.FromPhase, a.ToPhase, state)
	}
	for _, p := range t.Phases {
		fmt.Fprintf(&sb, "phase %s covers segments %d-%d (complexity %d)\n",
			p.Phase, p.FromSegment, p.ToSegment, p.Complexity)
	}
	return sb.String()
}

// buildScorePrompt renders the single-criterion scoring prompt.
func buildScorePrompt(req ScoreRequest) (system, user string) {
	system = "You are an expert interview assessor. You score one criterion at a time " +
		"on a 0-10 scale, separately for what the candidate said (verbal) and how they " +
		"behaved (non-verbal). Return ONLY valid JSON."

	var sb strings.Builder
	fmt.Fprintf(&sb, `Score the criterion %q for this interview. Return ONLY valid JSON matching:
{
  "verbal_score": 0.0 to 10.0,
  "nonverbal_score": 0.0 to 10.0,
  "explanation": "2-3 sentences justifying both scores",
  "observations": ["specific observation 1", "specific observation 2"]
}

Criterion: %s
Description: %s
Indicators to look for: %s
`, req.Criterion.Key, req.Criterion.Name, req.Criterion.Description, strings.Join(req.Criterion.Indicators, ", "))

	if req.CandidateName != "" {
		fmt.Fprintf(&sb, "\nCandidate: %s\n", req.CandidateName)
	}
	if req.Language != "" {
		fmt.Fprintf(&sb, "Interview language: %s\n", req.Language)
	}
	if req.CVText != "" {
		fmt.Fprintf(&sb, "\nCV:\n%s\n", truncate(req.CVText, 4000))
	}
	if req.QuestionsText != "" {
		fmt.Fprintf(&sb, "\nInterview questions:\n%s\n", truncate(req.QuestionsText, 2000))
	}
	if req.BehaviorSummary != "" {
		fmt.Fprintf(&sb, "\nPer-window behavioral signals:\n%s", req.BehaviorSummary)
	}
	if req.TrendSummary != "" {
		fmt.Fprintf(&sb, "\nTemporal dynamics:\n%s", req.TrendSummary)
	}
	if req.Transcript != "" {
		fmt.Fprintf(&sb, "\nTranscript:\n%s\n", truncate(req.Transcript, 12000))
	}

	sb.WriteString("\nScore strictly against the indicators. If the evidence for a sub-score is weak, score conservatively rather than guessing high.")
	return system, sb.String()
}

// buildPhasePrompt renders the phase-classification prompt.
func buildPhasePrompt(req PhaseRequest) (system, user string) {
	system = "You label interview phases from transcript excerpts. Return ONLY valid JSON."

	var sb strings.Builder
	fmt.Fprintf(&sb, `Classify this interview's segments into phases. Return ONLY valid JSON matching:
{
  "phases": [
    {"phase": "intro|experience|technical|behavioral|problem-solving|motivation|personal",
     "from_segment": 0, "to_segment": 2, "complexity": 1 to 10}
  ]
}

The interview has %d segments. Phases must be contiguous, non-overlapping and cover all segments in order.

Segment excerpts:
`, req.SegmentCount)
	for i, ex := range req.Excerpts {
		fmt.Fprintf(&sb, "[%d] %s\n", i, truncate(ex, 300))
	}
	return system, sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
