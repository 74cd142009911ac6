package router

import (
	"sync"

	"docrouter/internal/models"
)

// BatchStats aggregates counters for one batch run. It is created at batch
// start, mutated only through Observe, and read through Snapshot once the
// batch completes. Observe serializes all mutation, which is the only
// synchronization the batch workers need.
type BatchStats struct {
	mu            sync.Mutex
	total         int
	success       int
	partial       int
	failed        int
	fallbackCount int
	byContentType map[models.ContentType]int
}

// StatsSnapshot is the read-only reporting view of a finished batch.
type StatsSnapshot struct {
	Total         int                        `json:"total"`
	Success       int                        `json:"success"`
	Partial       int                        `json:"partial"`
	Failed        int                        `json:"failed"`
	FallbackCount int                        `json:"fallback_count"`
	ByContentType map[models.ContentType]int `json:"by_content_type"`
	SuccessRate   float64                    `json:"success_rate"`
}

// NewBatchStats returns an empty stats aggregate for one batch.
func NewBatchStats() *BatchStats {
	return &BatchStats{byContentType: make(map[models.ContentType]int)}
}

// Observe records one terminal ProcessingResult. Called exactly once per
// routed file, after that file's routing completes.
func (s *BatchStats) Observe(res models.ProcessingResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	switch res.Status {
	case models.StatusSuccess:
		s.success++
	case models.StatusPartial:
		s.partial++
	case models.StatusFailed:
		s.failed++
	}
	if res.FallbackUsed {
		s.fallbackCount++
	}
	if res.Classification != nil {
		s.byContentType[res.Classification.ContentType]++
	}
}

// Snapshot returns an immutable copy of the counters.
func (s *BatchStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	byType := make(map[models.ContentType]int, len(s.byContentType))
	for k, v := range s.byContentType {
		byType[k] = v
	}
	snap := StatsSnapshot{
		Total:         s.total,
		Success:       s.success,
		Partial:       s.partial,
		Failed:        s.failed,
		FallbackCount: s.fallbackCount,
		ByContentType: byType,
	}
	if s.total > 0 {
		snap.SuccessRate = float64(s.success+s.partial) / float64(s.total) * 100
	}
	return snap
}
