package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"interviewlens/internal/cache"
	"interviewlens/internal/model"
	"interviewlens/internal/repository"
)

// ResultWriter lands a finished evaluation: upsert the result record, then
// flip the worklist row to processed. The upsert is keyed by candidate id,
// so a retried pipeline overwrites its own earlier partial write and the
// store never shows a duplicate row.
type ResultWriter struct {
	candidates  repository.CandidateRepo
	results     repository.ResultRepo
	resultCache cache.ResultCache
}

// NewResultWriter creates a new result writer. resultCache may be nil.
func NewResultWriter(candidates repository.CandidateRepo, results repository.ResultRepo, resultCache cache.ResultCache) *ResultWriter {
	return &ResultWriter{
		candidates:  candidates,
		results:     results,
		resultCache: resultCache,
	}
}

// Persist writes the record and marks the candidate processed. Any failure
// leaves the row unprocessed so a later scan retries the candidate.
func (w *ResultWriter) Persist(ctx context.Context, candidate *model.Candidate, result *model.AnalysisResult) error {
	record := model.NewResultRecord(candidate, result)

	if err := w.results.Save(ctx, record); err != nil {
		return err
	}
	if err := w.candidates.MarkProcessed(ctx, candidate.ID); err != nil {
		return err
	}

	if w.resultCache != nil {
		if err := w.resultCache.Set(ctx, record); err != nil {
			log.Printf("[Writer] Result cache set failed for %s: %v", candidate.ID, err)
		}
	}
	return nil
}
