package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"interviewlens/internal/config"
	"interviewlens/internal/model"
)

// fakeCollaborator scripts per-criterion responses and counts calls.
type fakeCollaborator struct {
	responses map[string][]*ScoreResponse // per criterion, consumed in order
	errs      map[string][]error
	calls     map[string]int
	phases    []model.PhaseSpan
}

func newFakeCollaborator() *fakeCollaborator {
	return &fakeCollaborator{
		responses: map[string][]*ScoreResponse{},
		errs:      map[string][]error{},
		calls:     map[string]int{},
	}
}

func (f *fakeCollaborator) Score(_ context.Context, req ScoreRequest) (*ScoreResponse, error) {
	key := req.Criterion.Key
	n := f.calls[key]
	f.calls[key]++
	if errs := f.errs[key]; n < len(errs) && errs[n] != nil {
		return nil, errs[n]
	}
	if resps := f.responses[key]; len(resps) > 0 {
		if n >= len(resps) {
			n = len(resps) - 1
		}
		return resps[n], nil
	}
	return &ScoreResponse{Verbal: 6, Nonverbal: 6, Explanation: "ok"}, nil
}

func (f *fakeCollaborator) ClassifyPhases(_ context.Context, _ PhaseRequest) ([]model.PhaseSpan, error) {
	return f.phases, nil
}

func fastScorer(rubric *config.Rubric, collab Collaborator) *Scorer {
	s := NewScorer(rubric, collab)
	s.retryDelay = time.Millisecond
	return s
}

func TestScoreAllOneCallPerCriterion(t *testing.T) {
	rubric := config.DefaultRubric()
	fake := newFakeCollaborator()
	scores, err := fastScorer(rubric, fake).ScoreAll(context.Background(), ScoreRequest{Transcript: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != len(rubric.Criteria) {
		t.Fatalf("len(scores) = %d, want %d", len(scores), len(rubric.Criteria))
	}
	for _, c := range rubric.Criteria {
		if fake.calls[c.Key] != 1 {
			t.Errorf("criterion %s got %d calls, want 1", c.Key, fake.calls[c.Key])
		}
	}
	for i, s := range scores {
		if s.Criterion != rubric.Criteria[i].Key {
			t.Errorf("scores[%d] = %s, want rubric order %s", i, s.Criterion, rubric.Criteria[i].Key)
		}
		if s.Degraded {
			t.Errorf("criterion %s unexpectedly degraded", s.Criterion)
		}
	}
}

func TestScoreOneRetriesThenSucceeds(t *testing.T) {
	rubric := config.DefaultRubric()
	fake := newFakeCollaborator()
	fake.errs["communication"] = []error{errors.New("timeout"), errors.New("timeout")}
	fake.responses["communication"] = []*ScoreResponse{nil, nil, {Verbal: 7, Nonverbal: 8}}

	scores, err := fastScorer(rubric, fake).ScoreAll(context.Background(), ScoreRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.calls["communication"] != 3 {
		t.Errorf("calls = %d, want 3", fake.calls["communication"])
	}
	if scores[0].Degraded || scores[0].VerbalScore != 7 {
		t.Errorf("score = %+v, want verbal 7 not degraded", scores[0])
	}
}

func TestScoreOneDegradesAfterExhaustion(t *testing.T) {
	rubric := config.DefaultRubric()
	fake := newFakeCollaborator()
	boom := errors.New("boom")
	fake.errs["technical"] = []error{boom, boom, boom}

	scores, err := fastScorer(rubric, fake).ScoreAll(context.Background(), ScoreRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var tech *model.CriterionScore
	for i := range scores {
		if scores[i].Criterion == "technical" {
			tech = &scores[i]
		}
	}
	if tech == nil || !tech.Degraded {
		t.Fatalf("technical = %+v, want degraded", tech)
	}
	if fake.calls["technical"] != 3 {
		t.Errorf("calls = %d, want 3", fake.calls["technical"])
	}
	// the other criteria still scored
	if scores[0].Degraded {
		t.Errorf("communication unexpectedly degraded")
	}
}

func TestScoreOneRetriesOutOfRangeResponse(t *testing.T) {
	rubric := config.DefaultRubric()
	fake := newFakeCollaborator()
	fake.responses["communication"] = []*ScoreResponse{
		{Verbal: 73, Nonverbal: 5}, // way off scale, retry
		{Verbal: 7.3, Nonverbal: 5},
	}

	scores, err := fastScorer(rubric, fake).ScoreAll(context.Background(), ScoreRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.calls["communication"] != 2 {
		t.Errorf("calls = %d, want 2", fake.calls["communication"])
	}
	if scores[0].VerbalScore != 7.3 {
		t.Errorf("verbal = %v, want 7.3", scores[0].VerbalScore)
	}
}

func TestScoreOneClampsNearMiss(t *testing.T) {
	rubric := config.DefaultRubric()
	fake := newFakeCollaborator()
	fake.responses["communication"] = []*ScoreResponse{{Verbal: 10.3, Nonverbal: -0.2}}

	scores, err := fastScorer(rubric, fake).ScoreAll(context.Background(), ScoreRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.calls["communication"] != 1 {
		t.Errorf("calls = %d, want 1 (near miss must not retry)", fake.calls["communication"])
	}
	if scores[0].VerbalScore != 10 || scores[0].NonverbalScore != 0 {
		t.Errorf("scores = %v/%v, want 10/0", scores[0].VerbalScore, scores[0].NonverbalScore)
	}
}

func TestScoreAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fastScorer(config.DefaultRubric(), newFakeCollaborator()).ScoreAll(ctx, ScoreRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestMockScorerDeterministic(t *testing.T) {
	m := NewMockScorer()
	req := ScoreRequest{
		Criterion:  config.DefaultRubric().Criteria[0],
		Transcript: strings.Repeat("word ", 100),
	}
	a, _ := m.Score(context.Background(), req)
	b, _ := m.Score(context.Background(), req)
	if a.Verbal != b.Verbal || a.Nonverbal != b.Nonverbal {
		t.Errorf("mock not deterministic: %+v vs %+v", a, b)
	}
	if a.Verbal < 0 || a.Verbal > 10 || a.Nonverbal < 0 || a.Nonverbal > 10 {
		t.Errorf("mock scores out of range: %+v", a)
	}
}

func TestBuildBehaviorSummarySkipsEmptyWindows(t *testing.T) {
	windows := []model.WindowMetrics{
		{SegmentIndex: 0, Start: 0, End: 30, Confidence: model.ValidScore(7.5), DominantEmotion: "calm"},
		{SegmentIndex: 1, Start: 30, End: 60}, // no signal
	}
	out := BuildBehaviorSummary(windows)
	if !strings.Contains(out, "confidence=7.5") || !strings.Contains(out, "emotion=calm") {
		t.Errorf("summary missing fields: %q", out)
	}
	if strings.Contains(out, "30-60") {
		t.Errorf("summary should skip the empty window: %q", out)
	}
}
