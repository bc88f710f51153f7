package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"automl-platform-service/internal/core/domain"
	ports "automl-platform-service/internal/core/ports/output"
)

// MemArtifactRepo is an in-memory ArtifactRepository for tests that drive
// multi-step flows (sweeps, lifecycle) against real record state.
type MemArtifactRepo struct {
	mu      sync.Mutex
	records map[domain.Kind]map[string]*domain.Artifact

	// FailInsert and FailDelete, when set, force the next matching call to
	// fail.
	FailInsert error
	FailDelete error
}

func NewMemArtifactRepo() *MemArtifactRepo {
	records := map[domain.Kind]map[string]*domain.Artifact{}
	for _, kind := range domain.Kinds {
		records[kind] = map[string]*domain.Artifact{}
	}
	return &MemArtifactRepo{records: records}
}

func (r *MemArtifactRepo) Insert(_ context.Context, a *domain.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailInsert != nil {
		return r.FailInsert
	}
	cp := *a
	r.records[a.Kind][a.ID] = &cp
	return nil
}

func (r *MemArtifactRepo) Get(_ context.Context, kind domain.Kind, id string) (*domain.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[kind][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemArtifactRepo) Find(_ context.Context, kind domain.Kind, filter ports.ArtifactFilter) ([]*domain.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Artifact
	for _, a := range r.records[kind] {
		if filter.OwnerID != "" && a.OwnerID != filter.OwnerID {
			continue
		}
		if !filter.CreatedBefore.IsZero() && !a.CreatedAt.Before(filter.CreatedBefore) {
			continue
		}
		if !filter.IncludeDeleted && a.Tombstoned() {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemArtifactRepo) Update(_ context.Context, a *domain.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[a.Kind][a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.records[a.Kind][a.ID] = &cp
	return nil
}

func (r *MemArtifactRepo) Delete(_ context.Context, kind domain.Kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailDelete != nil {
		return r.FailDelete
	}
	if _, ok := r.records[kind][id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.records[kind], id)
	return nil
}

func (r *MemArtifactRepo) Count(_ context.Context, kind domain.Kind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records[kind])), nil
}

// Len reports how many records of a kind exist.
func (r *MemArtifactRepo) Len(kind domain.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records[kind])
}

// AllowingLeaser is a SweepLeaser that always grants the lease.
type AllowingLeaser struct{}

func (AllowingLeaser) Acquire(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (AllowingLeaser) Release(context.Context, string) error                       { return nil }
