package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"interviewlens/internal/model"
)

// fakeCandidateRepo is an in-memory worklist with atomic claims.
type fakeCandidateRepo struct {
	mu         sync.Mutex
	candidates map[string]*model.Candidate
	claims     int
	releases   int
	processed  []string
	failed     []string
}

func newFakeCandidateRepo(cands ...*model.Candidate) *fakeCandidateRepo {
	r := &fakeCandidateRepo{candidates: map[string]*model.Candidate{}}
	for _, c := range cands {
		r.candidates[c.ID] = c
	}
	return r
}

func (r *fakeCandidateRepo) claimableLocked(c *model.Candidate) bool {
	return c.Processed == 0 && !c.PermanentlyFailed && c.ClaimedAt == nil
}

func (r *fakeCandidateRepo) Insert(_ context.Context, c *model.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[c.ID] = c
	return nil
}

func (r *fakeCandidateRepo) GetByID(_ context.Context, id string) (*model.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.candidates[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCandidateRepo) FindUnprocessed(_ context.Context, limit int) ([]*model.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Candidate
	for _, c := range r.candidates {
		if r.claimableLocked(c) {
			cp := *c
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCandidateRepo) Claim(_ context.Context, id string) (*model.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[id]
	if !ok || !r.claimableLocked(c) {
		return nil, nil
	}
	now := time.Now()
	c.ClaimedAt = &now
	c.Attempts++
	r.claims++
	cp := *c
	return &cp, nil
}

func (r *fakeCandidateRepo) Release(_ context.Context, id, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.candidates[id]; ok {
		c.ClaimedAt = nil
		c.LastError = lastError
	}
	r.releases++
	return nil
}

func (r *fakeCandidateRepo) MarkProcessed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.candidates[id]; ok {
		c.Processed = 1
		c.ClaimedAt = nil
	}
	r.processed = append(r.processed, id)
	return nil
}

func (r *fakeCandidateRepo) MarkFailed(_ context.Context, id, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.candidates[id]; ok {
		c.PermanentlyFailed = true
		c.ClaimedAt = nil
		c.LastError = lastError
	}
	r.failed = append(r.failed, id)
	return nil
}

func (r *fakeCandidateRepo) snapshot(id string) model.Candidate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.candidates[id]
}

// fakePipeline scripts analysis outcomes and can block to hold workers busy.
type fakePipeline struct {
	mu      sync.Mutex
	started int
	err     error
	gate    chan struct{} // when set, Analyze blocks until closed
}

func (p *fakePipeline) Analyze(ctx context.Context, c *model.Candidate) (*model.AnalysisResult, error) {
	p.mu.Lock()
	p.started++
	gate := p.gate
	err := p.err
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &model.AnalysisResult{CandidateID: c.ID, Overall: 70, Recommendation: "hire"}, nil
}

func (p *fakePipeline) startedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// fakePersister marks the row processed in the repo, like the real writer.
type fakePersister struct {
	repo *fakeCandidateRepo
	err  error
}

func (w *fakePersister) Persist(ctx context.Context, c *model.Candidate, _ *model.AnalysisResult) error {
	if w.err != nil {
		return w.err
	}
	return w.repo.MarkProcessed(ctx, c.ID)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []model.ProcessingJob
}

func (n *fakeNotifier) JobEvent(j model.ProcessingJob) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, j)
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func testSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		ScanInterval:    20 * time.Millisecond,
		PipelineTimeout: 5 * time.Second,
		MaxConcurrent:   2,
		MaxRetries:      3,
	}
}

func candidate(id string) *model.Candidate {
	return &model.Candidate{ID: id, Name: "c-" + id, VideoURL: "http://media/" + id}
}

func TestSchedulerProcessesCandidate(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"))
	pipe := &fakePipeline{}
	notifier := &fakeNotifier{}
	s := NewScheduler(testSchedulerConfig(), repo, nil, pipe, &fakePersister{repo: repo}, notifier)

	s.Start()
	defer s.Stop()

	waitUntil(t, 2*time.Second, func() bool { return s.Stats().Processed == 1 })

	c := repo.snapshot("a")
	if c.Processed != 1 {
		t.Errorf("candidate processed = %d, want 1", c.Processed)
	}
	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0].State != model.JobCompleted {
		t.Errorf("jobs = %+v, want one completed job", jobs)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.events) < 2 {
		t.Errorf("got %d job events, want start and finish", len(notifier.events))
	}
	last := notifier.events[len(notifier.events)-1]
	if last.State != model.JobCompleted {
		t.Errorf("last event state = %s, want completed", last.State)
	}
}

func TestSchedulerClaimsCandidateOnce(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"))
	gate := make(chan struct{})
	pipe := &fakePipeline{gate: gate}
	s := NewScheduler(testSchedulerConfig(), repo, nil, pipe, &fakePersister{repo: repo}, nil)

	s.Start()
	defer s.Stop()

	waitUntil(t, 2*time.Second, func() bool { return pipe.startedCount() == 1 })

	// force more scans while the pipeline holds the claim
	for i := 0; i < 5; i++ {
		s.TriggerScan()
		time.Sleep(10 * time.Millisecond)
	}
	if n := pipe.startedCount(); n != 1 {
		t.Fatalf("pipeline started %d times, want 1", n)
	}

	close(gate)
	waitUntil(t, 2*time.Second, func() bool { return s.Stats().Processed == 1 })

	repo.mu.Lock()
	claims := repo.claims
	repo.mu.Unlock()
	if claims != 1 {
		t.Errorf("claims = %d, want 1", claims)
	}
}

func TestSchedulerRespectsConcurrencyBound(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"), candidate("b"), candidate("c"), candidate("d"), candidate("e"))
	gate := make(chan struct{})
	pipe := &fakePipeline{gate: gate}
	s := NewScheduler(testSchedulerConfig(), repo, nil, pipe, &fakePersister{repo: repo}, nil)

	s.Start()
	defer s.Stop()

	waitUntil(t, 2*time.Second, func() bool { return pipe.startedCount() == 2 })
	time.Sleep(50 * time.Millisecond) // extra scans must not start more
	if n := pipe.startedCount(); n != 2 {
		t.Fatalf("pipelines in flight = %d, want 2", n)
	}

	close(gate)
	waitUntil(t, 5*time.Second, func() bool { return s.Stats().Processed == 5 })
}

func TestSchedulerRetriesThenRetires(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"))
	pipe := &fakePipeline{err: errors.New("extraction down")}
	cfg := testSchedulerConfig()
	cfg.MaxRetries = 2
	s := NewScheduler(cfg, repo, nil, pipe, &fakePersister{repo: repo}, nil)

	s.Start()
	defer s.Stop()

	waitUntil(t, 5*time.Second, func() bool {
		c := repo.snapshot("a")
		return c.PermanentlyFailed
	})

	c := repo.snapshot("a")
	if c.Processed != 0 {
		t.Errorf("failed candidate marked processed")
	}
	if c.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", c.Attempts)
	}
	if c.LastError == "" {
		t.Errorf("lastError empty, want the failure cause")
	}
	if s.Stats().Failed < 2 {
		t.Errorf("stats.Failed = %d, want >= 2", s.Stats().Failed)
	}
}

func TestSchedulerPersistFailureReleasesClaim(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"))
	pipe := &fakePipeline{}
	cfg := testSchedulerConfig()
	cfg.MaxRetries = 5
	s := NewScheduler(cfg, repo, nil, pipe, &fakePersister{repo: repo, err: errors.New("store down")}, nil)

	s.Start()
	defer s.Stop()

	waitUntil(t, 2*time.Second, func() bool { return s.Stats().Failed >= 1 })
	waitUntil(t, 2*time.Second, func() bool {
		c := repo.snapshot("a")
		return c.ClaimedAt == nil
	})

	c := repo.snapshot("a")
	if c.Processed != 0 {
		t.Errorf("candidate marked processed despite persist failure")
	}
}

func TestSchedulerStopCancelsPipeline(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"))
	pipe := &fakePipeline{gate: make(chan struct{})} // blocks until cancelled
	s := NewScheduler(testSchedulerConfig(), repo, nil, pipe, &fakePersister{repo: repo}, nil)

	s.Start()
	waitUntil(t, 2*time.Second, func() bool { return pipe.startedCount() == 1 })
	s.Stop()

	c := repo.snapshot("a")
	if c.Processed != 0 {
		t.Errorf("cancelled pipeline marked candidate processed")
	}
	if c.ClaimedAt != nil {
		t.Errorf("cancelled pipeline left the claim held")
	}
	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0].State != model.JobFailed {
		t.Errorf("jobs = %+v, want one failed job", jobs)
	}
}

func TestDrainProcessesBacklog(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"), candidate("b"), candidate("c"))
	pipe := &fakePipeline{}
	s := NewScheduler(testSchedulerConfig(), repo, nil, pipe, &fakePersister{repo: repo}, nil)

	// backlog bigger than MaxConcurrent, so a single scan cannot finish it
	if err := s.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if got := s.Stats().Processed; got != 3 {
		t.Errorf("processed = %d, want 3", got)
	}
	for _, id := range []string{"a", "b", "c"} {
		if repo.snapshot(id).Processed != 1 {
			t.Errorf("candidate %s left unprocessed", id)
		}
	}
}

func TestDrainWaitsForSlowPipelines(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"))
	gate := make(chan struct{})
	pipe := &fakePipeline{gate: gate}
	s := NewScheduler(testSchedulerConfig(), repo, nil, pipe, &fakePersister{repo: repo}, nil)

	done := make(chan error, 1)
	go func() { done <- s.Drain(context.Background()) }()

	waitUntil(t, 2*time.Second, func() bool { return pipe.startedCount() == 1 })
	select {
	case <-done:
		t.Fatal("drain returned while a pipeline was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(gate)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Drain: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("drain did not return after the pipeline finished")
	}
	if repo.snapshot("a").Processed != 1 {
		t.Error("candidate left unprocessed after drain")
	}
}

func TestDrainReturnsOnCancel(t *testing.T) {
	repo := newFakeCandidateRepo(candidate("a"))
	pipe := &fakePipeline{gate: make(chan struct{})}
	s := NewScheduler(testSchedulerConfig(), repo, nil, pipe, &fakePersister{repo: repo}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Drain(ctx) }()

	waitUntil(t, 2*time.Second, func() bool { return pipe.startedCount() == 1 })
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Drain = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("drain ignored cancellation")
	}
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	repo := newFakeCandidateRepo()
	s := NewScheduler(testSchedulerConfig(), repo, nil, &fakePipeline{}, &fakePersister{repo: repo}, nil)
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
	if s.Stats().Running {
		t.Error("stats still report running after Stop")
	}
}
