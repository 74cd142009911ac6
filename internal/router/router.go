// Package router orchestrates extraction and analysis per file and
// aggregates per-batch statistics.
//
// Per-file state machine:
//
//	START → EXTRACTING → {EXTRACTED | EXTRACT_FAILED}
//	EXTRACTED → ANALYZING → {CLASSIFIED | ANALYZE_FAILED}
//
// Any failed state is terminal with status FAILED. CLASSIFIED maps to
// SUCCESS, or to PARTIAL with fallback_used when extraction reported
// recoverable errors alongside usable content.
package router

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"docrouter/internal/analyzer"
	"docrouter/internal/config"
	"docrouter/internal/extractor"
	"docrouter/internal/models"

	"github.com/rs/zerolog/log"
)

// Router routes files through extraction and analysis.
type Router struct {
	workers     int
	fileTimeout time.Duration
}

// New builds a Router from config.
func New(cfg *config.Config) *Router {
	return &Router{
		workers:     cfg.Router.Workers,
		fileTimeout: cfg.Router.FileTimeout,
	}
}

// Route processes one file to a terminal ProcessingResult. It never
// returns an error: every failure mode is folded into the result.
func (r *Router) Route(ctx context.Context, path string) models.ProcessingResult {
	fileID := filepath.Clean(path)
	log.Debug().Str("file", fileID).Msg("routing file")

	bundle, err := r.extractWithTimeout(ctx, path)
	if err != nil {
		log.Warn().Str("file", fileID).Err(err).Msg("extraction failed")
		return models.ProcessingResult{
			FileID:      fileID,
			Bundle:      bundle,
			Status:      models.StatusFailed,
			ErrorDetail: err.Error(),
		}
	}

	// Total extraction failure: nothing usable came back. The bundle's own
	// format errors explain why (unsupported extension included).
	if !bundle.HasContent() {
		detail := "extraction produced no content"
		if len(bundle.FormatErrors) > 0 {
			detail = joinFormatErrors(bundle.FormatErrors)
		}
		log.Warn().Str("file", fileID).Str("detail", detail).Msg("no usable content")
		return models.ProcessingResult{
			FileID:      fileID,
			Bundle:      bundle,
			Status:      models.StatusFailed,
			ErrorDetail: detail,
		}
	}

	classification, err := analyzer.Analyze(bundle)
	if err != nil {
		log.Error().Str("file", fileID).Err(err).Msg("analysis failed")
		return models.ProcessingResult{
			FileID:      fileID,
			Bundle:      bundle,
			Status:      models.StatusFailed,
			ErrorDetail: fmt.Sprintf("analysis failed: %v", err),
		}
	}

	result := models.ProcessingResult{
		FileID:         fileID,
		Bundle:         bundle,
		Classification: classification,
		Status:         models.StatusSuccess,
	}

	// Fallback policy: recoverable extraction errors with usable content
	// degrade the file instead of failing it.
	if len(bundle.FormatErrors) > 0 {
		result.Status = models.StatusPartial
		result.FallbackUsed = true
		result.ErrorDetail = joinFormatErrors(bundle.FormatErrors)
	}

	log.Debug().
		Str("file", fileID).
		Str("status", string(result.Status)).
		Str("content_type", string(classification.ContentType)).
		Float64("quality", classification.QualityScore).
		Msg("file classified")

	return result
}

// extractWithTimeout runs extraction under the per-file timeout. Expiry is
// treated as a total extraction failure.
func (r *Router) extractWithTimeout(ctx context.Context, path string) (*models.RawContentBundle, error) {
	tctx, cancel := context.WithTimeout(ctx, r.fileTimeout)
	defer cancel()

	type outcome struct {
		bundle *models.RawContentBundle
		err    error
	}
	ch := make(chan outcome, 1)
	go func() {
		b, err := extractor.Extract(path)
		ch <- outcome{b, err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			return nil, fmt.Errorf("extraction failed: %w", out.err)
		}
		return out.bundle, nil
	case <-tctx.Done():
		return nil, fmt.Errorf("extraction aborted: %w", tctx.Err())
	}
}

// RouteBatch processes files in insertion order with a bounded worker
// pool. One file's failure never aborts the batch. After cancellation is
// observed no new files are dispatched, but in-flight files complete and
// their results are returned.
func (r *Router) RouteBatch(ctx context.Context, paths []string) ([]models.ProcessingResult, *BatchStats) {
	stats := NewBatchStats()
	slots := make([]*models.ProcessingResult, len(paths))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	// In-flight files must run to completion even after cancellation, so
	// workers get a context detached from the batch cancel signal.
	fileCtx := context.WithoutCancel(ctx)

dispatch:
	for i, path := range paths {
		if ctx.Err() != nil {
			log.Info().Int("dispatched", i).Int("submitted", len(paths)).Msg("batch canceled, draining in-flight files")
			break
		}
		select {
		case <-ctx.Done():
			log.Info().Int("dispatched", i).Int("submitted", len(paths)).Msg("batch canceled, draining in-flight files")
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			res := r.Route(fileCtx, path)
			slots[i] = &res
			stats.Observe(res)
		}(i, path)
	}
	wg.Wait()

	results := make([]models.ProcessingResult, 0, len(paths))
	for _, res := range slots {
		if res != nil {
			results = append(results, *res)
		}
	}
	return results, stats
}

func joinFormatErrors(errs []models.FormatError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}
