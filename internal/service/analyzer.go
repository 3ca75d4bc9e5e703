package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"interviewlens/internal/analysis"
	"interviewlens/internal/config"
	"interviewlens/internal/extractor"
	"interviewlens/internal/model"
	"interviewlens/internal/scoring"
)

// EngineVersion is stamped on every result so stored evaluations can be
// traced back to the pipeline that produced them.
const EngineVersion = "1.4.0"

// SpeechAnalyzer yields the transcript and speech-derived samples in one call.
type SpeechAnalyzer interface {
	Analyze(ctx context.Context, mediaURL string) (*model.Transcript, []model.SignalSample, error)
}

// DocumentFetcher pulls candidate documents for scoring context.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Analyzer runs the full evaluation pipeline for one candidate: extract
// signals concurrently, window and aggregate them, read the temporal trends,
// score the rubric and fuse the verdict.
type Analyzer struct {
	face   extractor.Extractor
	voice  extractor.Extractor
	speech SpeechAnalyzer
	docs   DocumentFetcher
	collab scoring.Collaborator
	scorer *scoring.Scorer
	rubric *config.Rubric

	segmenter  *analysis.Segmenter
	aggregator *analysis.Aggregator
	trend      *analysis.TrendEngine
	fusion     *analysis.FusionEngine

	stageTimeout time.Duration
}

// AnalyzerDeps bundles the collaborators the pipeline needs.
type AnalyzerDeps struct {
	Face   extractor.Extractor
	Voice  extractor.Extractor
	Speech SpeechAnalyzer
	Docs   DocumentFetcher
	Collab scoring.Collaborator
	Rubric *config.Rubric
}

// NewAnalyzer wires the pipeline from configuration.
func NewAnalyzer(cfg *config.Config, deps AnalyzerDeps) *Analyzer {
	return &Analyzer{
		face:         deps.Face,
		voice:        deps.Voice,
		speech:       deps.Speech,
		docs:         deps.Docs,
		collab:       deps.Collab,
		scorer:       scoring.NewScorer(deps.Rubric, deps.Collab),
		rubric:       deps.Rubric,
		segmenter:    analysis.NewSegmenter(float64(cfg.SegmentSeconds), float64(cfg.SegmentOverlap)),
		aggregator:   analysis.NewAggregator(cfg.ConfidenceFloor),
		trend:        analysis.NewTrendEngine(analysis.DefaultTrendConfig()),
		fusion:       analysis.NewFusionEngine(deps.Rubric),
		stageTimeout: cfg.StageTimeout,
	}
}

// extraction is what one modality contributed.
type extraction struct {
	source     string
	samples    []model.SignalSample
	transcript *model.Transcript
	err        error
}

// Analyze runs the pipeline end to end. Individual modalities may fail and
// degrade the result; only losing every modality fails the run.
func (a *Analyzer) Analyze(ctx context.Context, candidate *model.Candidate) (*model.AnalysisResult, error) {
	if candidate == nil || !candidate.HasMedia() {
		return nil, &model.InvalidInputError{Reason: "candidate has no media to analyze"}
	}
	mediaURL := candidate.VideoURL
	log.Printf("[Analyzer] Starting analysis for candidate %s", candidate.ID)

	results := a.extractAll(ctx, mediaURL)

	var samples []model.SignalSample
	var transcript *model.Transcript
	var lostSources []string
	for _, ex := range results {
		if ex.err != nil {
			log.Printf("[Analyzer] Extraction source %s failed: %v", ex.source, ex.err)
			lostSources = append(lostSources, ex.source)
			continue
		}
		samples = append(samples, ex.samples...)
		if ex.transcript != nil {
			transcript = ex.transcript
		}
	}
	if len(lostSources) == len(results) {
		return nil, &model.AnalysisError{Reason: "all extraction sources failed"}
	}

	duration := transcript.Duration()
	for _, s := range samples {
		if s.At > duration {
			duration = s.At
		}
	}
	if duration <= 0 {
		return nil, &model.AnalysisError{Reason: "no usable signal in recording"}
	}

	segments, err := a.segmenter.Split(duration)
	if err != nil {
		return nil, err
	}

	windows := make([]model.WindowMetrics, 0, len(segments))
	for _, seg := range segments {
		windows = append(windows, a.aggregator.Aggregate(seg, samples, transcript.Slice(seg)))
	}

	language := ""
	if transcript != nil {
		language = transcript.Language
	}
	if language == "" {
		language = analysis.DetectLanguage(transcript.Text())
	}

	phases := a.classifyPhases(ctx, transcript, segments)
	trend := a.trend.Summarize(windows, phases)

	req := scoring.ScoreRequest{
		CandidateName:   candidate.Name,
		Language:        language,
		Transcript:      transcript.Text(),
		BehaviorSummary: scoring.BuildBehaviorSummary(windows),
		TrendSummary:    scoring.BuildTrendSummary(&trend),
	}
	req.CVText, req.QuestionsText = a.fetchDocuments(ctx, candidate)

	scores, err := a.scorer.ScoreAll(ctx, req)
	if err != nil {
		return nil, err
	}

	overall, recommendation, err := a.fusion.Fuse(scores)
	if err != nil {
		return nil, err
	}

	var degradedCriteria []string
	for _, s := range scores {
		if s.Degraded {
			degradedCriteria = append(degradedCriteria, s.Criterion)
		}
	}

	result := &model.AnalysisResult{
		CandidateID:      candidate.ID,
		CandidateName:    candidate.Name,
		DetectedLanguage: language,
		DurationSeconds:  duration,
		Scores:           scores,
		Overall:          overall,
		Recommendation:   recommendation,
		Degraded:         len(degradedCriteria) > 0 || len(lostSources) > 0,
		DegradedCriteria: degradedCriteria,
		Windows:          windows,
		Trend:            trend,
		AnalyzedAt:       time.Now(),
		EngineVersion:    EngineVersion,
	}
	result.Feedback = buildFeedback(result, lostSources)

	log.Printf("[Analyzer] Candidate %s scored %d (%s), degraded=%v",
		candidate.ID, overall, recommendation, result.Degraded)
	return result, nil
}

// extractAll runs the three modality extractions concurrently, each under
// its own stage timeout.
func (a *Analyzer) extractAll(ctx context.Context, mediaURL string) []extraction {
	results := make([]extraction, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		sctx, cancel := a.stageContext(ctx)
		defer cancel()
		samples, err := a.face.Extract(sctx, mediaURL)
		results[0] = extraction{source: a.face.Source(), samples: samples, err: err}
	}()
	go func() {
		defer wg.Done()
		sctx, cancel := a.stageContext(ctx)
		defer cancel()
		samples, err := a.voice.Extract(sctx, mediaURL)
		results[1] = extraction{source: a.voice.Source(), samples: samples, err: err}
	}()
	go func() {
		defer wg.Done()
		sctx, cancel := a.stageContext(ctx)
		defer cancel()
		transcript, samples, err := a.speech.Analyze(sctx, mediaURL)
		results[2] = extraction{source: "speech", samples: samples, transcript: transcript, err: err}
	}()

	wg.Wait()
	return results
}

func (a *Analyzer) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.stageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.stageTimeout)
}

// classifyPhases asks the collaborator to label interview phases and falls
// back to positional phases when it cannot.
func (a *Analyzer) classifyPhases(ctx context.Context, transcript *model.Transcript, segments []model.Segment) []model.PhaseSpan {
	if transcript != nil && len(transcript.Utterances) > 0 {
		excerpts := make([]string, len(segments))
		for i, seg := range segments {
			excerpts[i] = transcript.Slice(seg)
		}
		phases, err := a.collab.ClassifyPhases(ctx, scoring.PhaseRequest{
			SegmentCount: len(segments),
			Excerpts:     excerpts,
		})
		if err != nil {
			log.Printf("[Analyzer] Phase classification failed, using positional phases: %v", err)
		} else if len(phases) > 0 {
			return phases
		}
	}
	return analysis.FallbackPhases(len(segments))
}

// fetchDocuments pulls the CV and question sheet; both are optional context,
// so failures only log.
func (a *Analyzer) fetchDocuments(ctx context.Context, candidate *model.Candidate) (cv, questions string) {
	if a.docs == nil {
		return "", ""
	}
	var err error
	if cv, err = a.docs.Fetch(ctx, candidate.CVURL); err != nil {
		log.Printf("[Analyzer] CV fetch failed for %s: %v", candidate.ID, err)
		cv = ""
	}
	if questions, err = a.docs.Fetch(ctx, candidate.QuestionsURL); err != nil {
		log.Printf("[Analyzer] Questions fetch failed for %s: %v", candidate.ID, err)
		questions = ""
	}
	return cv, questions
}

// buildFeedback renders the short human summary stored with the result.
func buildFeedback(r *model.AnalysisResult, lostSources []string) string {
	var best, worst *model.CriterionScore
	for i := range r.Scores {
		s := &r.Scores[i]
		if s.Degraded {
			continue
		}
		if best == nil || s.Fused > best.Fused {
			best = s
		}
		if worst == nil || s.Fused < worst.Fused {
			worst = s
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall %d/100 (%s).", r.Overall, r.Recommendation)
	if best != nil {
		fmt.Fprintf(&sb, " Strongest: %s (%.1f).", best.Criterion, best.Fused)
	}
	if worst != nil && worst != best {
		fmt.Fprintf(&sb, " Weakest: %s (%.1f).", worst.Criterion, worst.Fused)
	}
	if len(lostSources) > 0 {
		fmt.Fprintf(&sb, " Partial evidence: %s unavailable.", strings.Join(lostSources, ", "))
	}
	if len(r.DegradedCriteria) > 0 {
		fmt.Fprintf(&sb, " Not scored: %s.", strings.Join(r.DegradedCriteria, ", "))
	}
	return sb.String()
}
