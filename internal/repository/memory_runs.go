package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryRunsRepository 在未启用数据库时支撑运行记录的保存与查询。
// NOTE: 数据只在进程生命周期内存在。
type MemoryRunsRepository struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

func NewMemoryRunsRepository() *MemoryRunsRepository {
	return &MemoryRunsRepository{runs: map[string]*RunRecord{}}
}

func (r *MemoryRunsRepository) SaveRun(_ context.Context, rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[rec.RunID] = rec
	return nil
}

func (r *MemoryRunsRepository) GetRun(_ context.Context, runID string) (*RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.runs[runID]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRunsRepository) ListRuns(_ context.Context, limit int) ([]RunSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]RunSummary, 0, len(r.runs))
	for _, rec := range r.runs {
		all = append(all, rec.RunSummary)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if limit <= 0 {
		limit = 50
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
