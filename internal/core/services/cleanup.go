package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/core/ports/output"
)

// CleanupService detects and repairs divergence between the metadata store
// and the object store, and enforces retention. Sweeps are idempotent and
// never abort on individual item failures. At most one sweep runs per
// scope, enforced by a leased record in the metadata store so the guarantee
// holds across service instances.
type CleanupService struct {
	repo        ports.ArtifactRepository
	store       ports.ObjectStore
	users       ports.UserRepository
	predictions ports.PredictionRepository
	logs        ports.CleanupLogRepository
	leaser      ports.SweepLeaser

	grace    time.Duration
	leaseTTL time.Duration
	ring     *sweepRing
}

func NewCleanupService(
	repo ports.ArtifactRepository,
	store ports.ObjectStore,
	users ports.UserRepository,
	predictions ports.PredictionRepository,
	logs ports.CleanupLogRepository,
	leaser ports.SweepLeaser,
	grace, leaseTTL time.Duration,
	ringSize int,
) *CleanupService {
	if grace <= 0 {
		grace = time.Hour
	}
	if leaseTTL <= 0 {
		leaseTTL = 10 * time.Minute
	}
	return &CleanupService{
		repo:        repo,
		store:       store,
		users:       users,
		predictions: predictions,
		logs:        logs,
		leaser:      leaser,
		grace:       grace,
		leaseTTL:    leaseTTL,
		ring:        newSweepRing(ringSize),
	}
}

func scopeLabel(ownerID string) string {
	if ownerID == "" {
		return "all"
	}
	return ownerID
}

func (s *CleanupService) begin(ctx context.Context, op domain.SweepOperation, ownerID string) (*domain.SweepSummary, error) {
	lease := fmt.Sprintf("%s:%s", op, scopeLabel(ownerID))
	acquired, err := s.leaser.Acquire(ctx, lease, s.leaseTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, domain.ErrSweepInProgress
	}
	return &domain.SweepSummary{
		Operation:      op,
		Scope:          ownerID,
		RecordsDeleted: map[string]int{},
		StartedAt:      time.Now().UTC(),
	}, nil
}

func (s *CleanupService) finish(ctx context.Context, summary *domain.SweepSummary) {
	summary.FinishedAt = time.Now().UTC()
	lease := fmt.Sprintf("%s:%s", summary.Operation, scopeLabel(summary.Scope))
	if err := s.leaser.Release(ctx, lease); err != nil {
		log.WithField("lease", lease).WithError(err).Warn("failed to release sweep lease; it will expire")
	}
	s.ring.append(summary)
	if summary.DryRun {
		return
	}
	if err := s.logs.Insert(ctx, summary); err != nil {
		log.WithError(err).Warn("failed to persist cleanup log entry")
	}
	log.WithFields(log.Fields{
		"operation":       summary.Operation,
		"scope":           scopeLabel(summary.Scope),
		"blobs_deleted":   summary.BlobsDeleted,
		"records_deleted": summary.TotalRecordsDeleted(),
		"flagged":         len(summary.Flagged),
		"errors":          len(summary.Errors),
	}).Info("sweep finished")
}

// SweepOrphanBlobs deletes blobs that no record references. Blobs younger
// than the grace period are skipped so an in-flight registration (blob
// written, record not yet) is never raced.
func (s *CleanupService) SweepOrphanBlobs(ctx context.Context, ownerID string) (*domain.SweepSummary, error) {
	summary, err := s.begin(ctx, domain.SweepOrphanBlobs, ownerID)
	if err != nil {
		return nil, err
	}
	defer s.finish(ctx, summary)

	cutoff := time.Now().UTC().Add(-s.grace)
	for _, kind := range domain.Kinds {
		prefix := string(kind) + "/"
		if ownerID != "" {
			prefix += ownerID + "/"
		}
		keys, err := s.store.List(ctx, prefix)
		if err != nil {
			summary.AddError(fmt.Errorf("list %s: %w", prefix, err))
			continue
		}
		for _, key := range keys {
			id := domain.IDFromBlobKey(kind, key)
			rec, err := s.repo.Get(ctx, kind, id)
			switch {
			case err == nil && !rec.Tombstoned():
				continue
			case err != nil && !errors.Is(err, domain.ErrNotFound):
				summary.AddError(fmt.Errorf("lookup %s: %w", id, err))
				continue
			}
			if created, ok := domain.IDCreatedAt(id); ok && created.After(cutoff) {
				continue
			}
			if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrNotFound) {
				summary.AddError(fmt.Errorf("delete blob %s: %w", key, err))
				continue
			}
			summary.BlobsDeleted++
		}
	}
	return summary, nil
}

// SweepOrphanRecords purges tombstones and records whose blob is missing.
// Recent blob-less records inside the grace period are flagged rather than
// deleted.
func (s *CleanupService) SweepOrphanRecords(ctx context.Context, ownerID string) (*domain.SweepSummary, error) {
	summary, err := s.begin(ctx, domain.SweepOrphanRecords, ownerID)
	if err != nil {
		return nil, err
	}
	defer s.finish(ctx, summary)

	cutoff := time.Now().UTC().Add(-s.grace)
	for _, kind := range domain.Kinds {
		records, err := s.repo.Find(ctx, kind, ports.ArtifactFilter{OwnerID: ownerID, IncludeDeleted: true})
		if err != nil {
			summary.AddError(fmt.Errorf("find %s: %w", kind.Collection(), err))
			continue
		}
		for _, rec := range records {
			if rec.Tombstoned() {
				if err := s.repo.Delete(ctx, kind, rec.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
					summary.AddError(fmt.Errorf("purge tombstone %s: %w", rec.ID, err))
					continue
				}
				summary.RecordsDeleted[kind.Collection()]++
				continue
			}
			_, err := s.store.Stat(ctx, rec.ContentKey)
			if err == nil {
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				summary.AddError(fmt.Errorf("stat %s: %w", rec.ContentKey, err))
				continue
			}
			if rec.CreatedAt.After(cutoff) {
				summary.Flagged = append(summary.Flagged, rec.ID)
				continue
			}
			if err := s.repo.Delete(ctx, kind, rec.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				summary.AddError(fmt.Errorf("delete record %s: %w", rec.ID, err))
				continue
			}
			summary.RecordsDeleted[kind.Collection()]++
		}
	}
	return summary, nil
}

// CleanupOld deletes every artifact (blob and record) created before
// now-hours, scoped to one user or all. With dryRun the summary reports
// what would go without deleting anything.
func (s *CleanupService) CleanupOld(ctx context.Context, hours int, ownerID string, dryRun bool) (*domain.SweepSummary, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("%w: retention hours must be positive", domain.ErrValidation)
	}
	summary, err := s.begin(ctx, domain.SweepAgeCleanup, ownerID)
	if err != nil {
		return nil, err
	}
	summary.DryRun = dryRun
	defer s.finish(ctx, summary)

	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	for _, kind := range domain.Kinds {
		records, err := s.repo.Find(ctx, kind, ports.ArtifactFilter{
			OwnerID:        ownerID,
			CreatedBefore:  cutoff,
			IncludeDeleted: true,
		})
		if err != nil {
			summary.AddError(fmt.Errorf("find %s: %w", kind.Collection(), err))
			continue
		}
		for _, rec := range records {
			if dryRun {
				summary.RecordsDeleted[kind.Collection()]++
				continue
			}
			s.destroy(ctx, kind, rec, summary)
		}
	}
	return summary, nil
}

// WipeUser deletes every artifact owned by a user, their prediction history
// and the user record itself. The explicit confirmation flag guards against
// accidental mass deletion.
func (s *CleanupService) WipeUser(ctx context.Context, userID string, confirm bool) (*domain.SweepSummary, error) {
	if userID == "" {
		return nil, domain.ErrInvalidOwnerID
	}
	if !confirm {
		return nil, domain.ErrConfirmRequired
	}
	summary, err := s.begin(ctx, domain.SweepUserWipe, userID)
	if err != nil {
		return nil, err
	}
	defer s.finish(ctx, summary)

	for _, kind := range domain.Kinds {
		records, err := s.repo.Find(ctx, kind, ports.ArtifactFilter{OwnerID: userID, IncludeDeleted: true})
		if err != nil {
			summary.AddError(fmt.Errorf("find %s: %w", kind.Collection(), err))
			continue
		}
		for _, rec := range records {
			s.destroy(ctx, kind, rec, summary)
		}
	}

	if n, err := s.predictions.DeleteByOwner(ctx, userID); err != nil {
		summary.AddError(fmt.Errorf("delete predictions: %w", err))
	} else if n > 0 {
		summary.RecordsDeleted["predictions"] = n
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			summary.AddError(fmt.Errorf("delete user: %w", err))
		}
	} else {
		summary.RecordsDeleted["users"]++
	}

	return summary, nil
}

// destroy removes one artifact, blob first. A failed record delete leaves
// the record in place and is reported; the next sweep retries it.
func (s *CleanupService) destroy(ctx context.Context, kind domain.Kind, rec *domain.Artifact, summary *domain.SweepSummary) {
	if err := s.store.Delete(ctx, rec.ContentKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
		summary.AddError(fmt.Errorf("delete blob %s: %w", rec.ContentKey, err))
		return
	} else if err == nil {
		summary.BlobsDeleted++
	}
	if err := s.repo.Delete(ctx, kind, rec.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		summary.AddError(fmt.Errorf("delete record %s: %w", rec.ID, err))
		return
	}
	summary.RecordsDeleted[kind.Collection()]++
}

// Stats reports current storage usage for the cleanup status endpoint.
func (s *CleanupService) Stats(ctx context.Context) (*domain.StorageStats, error) {
	stats := &domain.StorageStats{
		BlobCounts:    map[string]int{},
		BlobSizeBytes: map[string]int64{},
		RecordCounts:  map[string]int64{},
	}
	for _, kind := range domain.Kinds {
		keys, err := s.store.List(ctx, string(kind)+"/")
		if err != nil {
			return nil, err
		}
		var size int64
		for _, key := range keys {
			n, err := s.store.Stat(ctx, key)
			if err != nil {
				continue
			}
			size += n
		}
		stats.BlobCounts[string(kind)] = len(keys)
		stats.BlobSizeBytes[string(kind)] = size
		stats.TotalBlobs += len(keys)
		stats.TotalSizeBytes += size

		count, err := s.repo.Count(ctx, kind)
		if err != nil {
			return nil, err
		}
		stats.RecordCounts[kind.Collection()] = count
	}
	return stats, nil
}

// RecentRuns returns the in-memory ring of recent sweep summaries.
func (s *CleanupService) RecentRuns() []*domain.SweepSummary {
	return s.ring.snapshot()
}

// Logs returns persisted cleanup log entries, newest first.
func (s *CleanupService) Logs(ctx context.Context, limit int) ([]*domain.SweepSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.logs.List(ctx, limit)
}

// RunStartupSweep reproduces the original startup behavior: retention
// cleanup followed by an orphaned-record sweep.
func (s *CleanupService) RunStartupSweep(ctx context.Context, retentionHours int) {
	if _, err := s.CleanupOld(ctx, retentionHours, "", false); err != nil && !errors.Is(err, domain.ErrSweepInProgress) {
		log.WithError(err).Warn("startup retention cleanup failed")
	}
	if _, err := s.SweepOrphanRecords(ctx, ""); err != nil && !errors.Is(err, domain.ErrSweepInProgress) {
		log.WithError(err).Warn("startup orphan-record sweep failed")
	}
}

// RunScheduler runs retention and reconciliation sweeps on a fixed interval
// until the context is canceled. It never blocks request handlers.
func (s *CleanupService) RunScheduler(ctx context.Context, interval time.Duration, retentionHours int) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, run := range []func() (*domain.SweepSummary, error){
				func() (*domain.SweepSummary, error) { return s.CleanupOld(ctx, retentionHours, "", false) },
				func() (*domain.SweepSummary, error) { return s.SweepOrphanRecords(ctx, "") },
				func() (*domain.SweepSummary, error) { return s.SweepOrphanBlobs(ctx, "") },
			} {
				if _, err := run(); err != nil {
					if errors.Is(err, domain.ErrSweepInProgress) {
						log.Debug("scheduled sweep skipped; scope already leased")
						continue
					}
					log.WithError(err).Warn("scheduled sweep failed")
				}
			}
		}
	}
}

// sweepRing is a bounded ring of recent sweep summaries for observability.
type sweepRing struct {
	mu      sync.Mutex
	entries []*domain.SweepSummary
	size    int
}

func newSweepRing(size int) *sweepRing {
	if size <= 0 {
		size = 50
	}
	return &sweepRing{size: size}
}

func (r *sweepRing) append(s *domain.SweepSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, s)
	if len(r.entries) > r.size {
		r.entries = r.entries[len(r.entries)-r.size:]
	}
}

func (r *sweepRing) snapshot() []*domain.SweepSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.SweepSummary, len(r.entries))
	copy(out, r.entries)
	return out
}
