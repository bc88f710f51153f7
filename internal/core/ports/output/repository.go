package ports

import (
	"context"
	"time"

	"automl-platform-service/internal/core/domain"
)

// ArtifactFilter selects artifact records. Equality on OwnerID, range on
// CreatedAt; tombstoned records are excluded unless IncludeDeleted is set.
type ArtifactFilter struct {
	OwnerID        string
	CreatedBefore  time.Time
	IncludeDeleted bool
	Limit          int
}

// ArtifactRepository is typed record CRUD over the per-kind metadata
// collections. Get returns tombstoned records too; callers decide whether a
// tombstone counts. Delete of a missing record returns domain.ErrNotFound.
type ArtifactRepository interface {
	Insert(ctx context.Context, a *domain.Artifact) error
	Get(ctx context.Context, kind domain.Kind, id string) (*domain.Artifact, error)
	Find(ctx context.Context, kind domain.Kind, filter ArtifactFilter) ([]*domain.Artifact, error)
	Update(ctx context.Context, a *domain.Artifact) error
	Delete(ctx context.Context, kind domain.Kind, id string) error
	Count(ctx context.Context, kind domain.Kind) (int64, error)
}

type UserRepository interface {
	Insert(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, userID string) error
}

type PredictionRepository interface {
	Insert(ctx context.Context, p *domain.Prediction) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*domain.Prediction, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int, error)
}

type CleanupLogRepository interface {
	Insert(ctx context.Context, s *domain.SweepSummary) error
	List(ctx context.Context, limit int) ([]*domain.SweepSummary, error)
}

// SweepLeaser provides per-scope mutual exclusion for cleanup sweeps via an
// expiring lease record in the metadata store, so exclusion holds across
// service instances.
type SweepLeaser interface {
	Acquire(ctx context.Context, scope string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, scope string) error
}
