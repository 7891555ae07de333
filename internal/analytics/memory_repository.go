package analytics

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps analytics rows and metrics rollups in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	rows     map[string]UserAnalytics
	snapshot map[string]InclusionMetrics
}

// NewMemoryRepository builds an in-memory analytics store. The returned value
// implements both Repository and MetricsRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]UserAnalytics), snapshot: make(map[string]InclusionMetrics)}
}

func (r *MemoryRepository) Get(_ context.Context, userID string) (UserAnalytics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.rows[userID]
	if !ok {
		return UserAnalytics{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, a UserAnalytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[a.UserID] = a
	return nil
}

func (r *MemoryRepository) UpsertMetrics(_ context.Context, m InclusionMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot[m.Date.Format(dateLayout)] = m
	return nil
}

func (r *MemoryRepository) ListMetrics(_ context.Context, limit int) ([]InclusionMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]InclusionMetrics, 0, len(r.snapshot))
	for _, m := range r.snapshot {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
