package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"interviewlens/internal/cache"
	"interviewlens/internal/model"
	"interviewlens/internal/repository"
)

// Pipeline evaluates one claimed candidate.
type Pipeline interface {
	Analyze(ctx context.Context, candidate *model.Candidate) (*model.AnalysisResult, error)
}

// ResultPersister lands a finished evaluation and marks the row processed.
type ResultPersister interface {
	Persist(ctx context.Context, candidate *model.Candidate, result *model.AnalysisResult) error
}

// Notifier observes job state transitions.
type Notifier interface {
	JobEvent(job model.ProcessingJob)
}

// SchedulerStats is a point-in-time snapshot of scheduler counters.
type SchedulerStats struct {
	Scans      int        `json:"scans"`
	Processed  int        `json:"processed"`
	Failed     int        `json:"failed"`
	InFlight   int        `json:"inFlight"`
	Running    bool       `json:"running"`
	LastScanAt *time.Time `json:"lastScanAt,omitempty"`
}

// SchedulerConfig are the scheduler knobs.
type SchedulerConfig struct {
	ScanInterval    time.Duration
	PipelineTimeout time.Duration
	MaxConcurrent   int
	MaxRetries      int
}

// Scheduler polls the worklist and drives candidates through the pipeline.
// Claims are atomic in the database, with a cache guard as a second check,
// so two scans (or two instances) never process the same row twice. At most
// MaxConcurrent pipelines run at a time.
type Scheduler struct {
	cfg        SchedulerConfig
	candidates repository.CandidateRepo
	guard      cache.ClaimGuard
	pipeline   Pipeline
	writer     ResultPersister
	notifier   Notifier

	mu      sync.Mutex
	jobs    map[string]*model.ProcessingJob // keyed by candidate id
	stats   SchedulerStats
	running bool
	cancel  context.CancelFunc

	trigger chan struct{}
	sem     chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a stopped scheduler. guard and notifier may be nil.
func NewScheduler(cfg SchedulerConfig, candidates repository.CandidateRepo, guard cache.ClaimGuard, pipeline Pipeline, writer ResultPersister, notifier Notifier) *Scheduler {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	return &Scheduler{
		cfg:        cfg,
		candidates: candidates,
		guard:      guard,
		pipeline:   pipeline,
		writer:     writer,
		notifier:   notifier,
		jobs:       make(map[string]*model.ProcessingJob),
		trigger:    make(chan struct{}, 1),
		sem:        make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Start launches the polling loop. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	s.stats.Running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)
	log.Printf("[Scheduler] Started, scanning every %v with %d workers", s.cfg.ScanInterval, s.cfg.MaxConcurrent)
}

// Stop cancels in-flight pipelines and waits for them to wind down. A
// cancelled pipeline never marks its candidate processed; the released claim
// makes the row eligible for the next scan.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.stats.Running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	log.Printf("[Scheduler] Stopped")
}

// TriggerScan requests an immediate scan. Coalesces repeated requests.
func (s *Scheduler) TriggerScan() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// drainPoll is how often Drain rescans while pipelines are in flight.
const drainPoll = 500 * time.Millisecond

// Drain scans back to back until a scan launches nothing and every in-flight
// pipeline has settled, including rows released for retry along the way.
// Meant for one-shot runs; returns the context error if cancelled first.
func (s *Scheduler) Drain(ctx context.Context) error {
	for {
		launched := s.scan(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if launched == 0 && s.Stats().InFlight == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPoll):
		}
	}
}

// Stats returns a snapshot of the counters.
func (s *Scheduler) Stats() SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.InFlight = len(s.sem)
	return stats
}

// Jobs returns a snapshot of all known jobs.
func (s *Scheduler) Jobs() []model.ProcessingJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ProcessingJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	return out
}

// ProcessNow claims one candidate and runs the pipeline synchronously,
// bypassing the scan cadence but not the claim protocol or the concurrency
// bound. Returns the finished job, or an InvalidInputError when the row is
// not claimable.
func (s *Scheduler) ProcessNow(ctx context.Context, candidateID string) (*model.ProcessingJob, error) {
	if s.hasActiveJob(candidateID) {
		return nil, &model.InvalidInputError{Reason: "candidate is already being processed"}
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	claimed, err := s.claim(ctx, candidateID)
	if err != nil {
		<-s.sem
		return nil, err
	}
	if claimed == nil {
		<-s.sem
		return nil, &model.InvalidInputError{Reason: "candidate is not claimable"}
	}

	job := s.startJob(claimed)
	s.wg.Add(1)
	s.run(ctx, claimed, job)

	s.mu.Lock()
	snapshot := *s.jobs[candidateID]
	s.mu.Unlock()
	return &snapshot, nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	s.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		case <-s.trigger:
			s.scan(ctx)
		}
	}
}

// scan claims as many eligible candidates as free workers allow and launches
// a pipeline for each. Returns the number of pipelines launched.
func (s *Scheduler) scan(ctx context.Context) int {
	now := time.Now()
	s.mu.Lock()
	s.stats.Scans++
	s.stats.LastScanAt = &now
	s.mu.Unlock()

	batch, err := s.candidates.FindUnprocessed(ctx, 2*s.cfg.MaxConcurrent)
	if err != nil {
		log.Printf("[Scheduler] Scan failed: %v", err)
		return 0
	}
	if len(batch) == 0 {
		return 0
	}
	log.Printf("[Scheduler] Scan found %d eligible candidates", len(batch))

	launched := 0
	for _, c := range batch {
		if ctx.Err() != nil {
			return launched
		}
		if s.hasActiveJob(c.ID) {
			continue
		}

		// respect the concurrency bound without blocking the scan
		select {
		case s.sem <- struct{}{}:
		default:
			return launched
		}

		claimed, err := s.claim(ctx, c.ID)
		if err != nil {
			log.Printf("[Scheduler] Claim failed for %s: %v", c.ID, err)
			<-s.sem
			continue
		}
		if claimed == nil {
			// someone else took it between scan and claim
			<-s.sem
			continue
		}

		job := s.startJob(claimed)
		s.wg.Add(1)
		go s.run(ctx, claimed, job)
		launched++
	}
	return launched
}

// claim takes the database claim and then the cache guard. Either refusing
// means another holder owns the row.
func (s *Scheduler) claim(ctx context.Context, id string) (*model.Candidate, error) {
	claimed, err := s.candidates.Claim(ctx, id)
	if err != nil || claimed == nil {
		return nil, err
	}
	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx, id)
		if err != nil {
			log.Printf("[Scheduler] Claim guard unavailable for %s: %v", id, err)
		} else if !ok {
			if rerr := s.candidates.Release(ctx, id, "claim guard held elsewhere"); rerr != nil {
				log.Printf("[Scheduler] Release after guard refusal failed for %s: %v", id, rerr)
			}
			return nil, nil
		}
	}
	return claimed, nil
}

func (s *Scheduler) hasActiveJob(candidateID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[candidateID]
	return ok && !j.State.Terminal()
}

func (s *Scheduler) startJob(c *model.Candidate) *model.ProcessingJob {
	job := &model.ProcessingJob{
		ID:          uuid.New().String(),
		CandidateID: c.ID,
		State:       model.JobInProgress,
		Attempt:     c.Attempts,
		StartedAt:   time.Now(),
	}
	s.mu.Lock()
	s.jobs[c.ID] = job
	s.mu.Unlock()
	s.notify(job)
	return job
}

// run drives one claimed candidate through the pipeline under the pipeline
// timeout and settles the claim afterwards.
func (s *Scheduler) run(ctx context.Context, c *model.Candidate, job *model.ProcessingJob) {
	defer s.wg.Done()
	defer func() { <-s.sem }()

	runCtx := ctx
	var cancel context.CancelFunc
	if s.cfg.PipelineTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.PipelineTimeout)
		defer cancel()
	}

	result, err := s.pipeline.Analyze(runCtx, c)
	if err == nil {
		err = s.writer.Persist(runCtx, c, result)
	}

	if err != nil {
		s.settleFailure(c, job, err)
		return
	}

	s.finishJob(job, model.JobCompleted, "")
	s.mu.Lock()
	s.stats.Processed++
	s.mu.Unlock()
	s.releaseGuard(c.ID)
	log.Printf("[Scheduler] Candidate %s completed (overall %d)", c.ID, result.Overall)
}

// settleFailure releases the claim so the row can be retried, or retires it
// permanently once the retry budget is spent. Detached from the job context:
// cleanup must proceed even when the pipeline was cancelled.
func (s *Scheduler) settleFailure(c *model.Candidate, job *model.ProcessingJob, cause error) {
	log.Printf("[Scheduler] Candidate %s failed (attempt %d): %v", c.ID, c.Attempts, cause)

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.cfg.MaxRetries > 0 && c.Attempts >= s.cfg.MaxRetries {
		if err := s.candidates.MarkFailed(cleanupCtx, c.ID, cause.Error()); err != nil {
			log.Printf("[Scheduler] MarkFailed for %s: %v", c.ID, err)
		} else {
			log.Printf("[Scheduler] Candidate %s permanently failed after %d attempts", c.ID, c.Attempts)
		}
	} else {
		if err := s.candidates.Release(cleanupCtx, c.ID, cause.Error()); err != nil {
			log.Printf("[Scheduler] Release for %s: %v", c.ID, err)
		}
	}
	s.releaseGuard(c.ID)

	s.finishJob(job, model.JobFailed, cause.Error())
	s.mu.Lock()
	s.stats.Failed++
	s.mu.Unlock()
}

func (s *Scheduler) releaseGuard(candidateID string) {
	if s.guard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.guard.Release(ctx, candidateID); err != nil {
		log.Printf("[Scheduler] Guard release for %s: %v", candidateID, err)
	}
}

func (s *Scheduler) finishJob(job *model.ProcessingJob, state model.JobState, lastError string) {
	now := time.Now()
	s.mu.Lock()
	job.State = state
	job.LastError = lastError
	job.FinishedAt = &now
	snapshot := *job
	s.mu.Unlock()
	s.notify(&snapshot)
}

func (s *Scheduler) notify(job *model.ProcessingJob) {
	if s.notifier != nil {
		s.notifier.JobEvent(*job)
	}
}
