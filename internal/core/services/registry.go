package services

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/core/ports/output"
)

// RegisterSpec describes one artifact to bind: raw bytes plus metadata.
// Exactly one payload field matching Kind may be set.
type RegisterSpec struct {
	Kind        domain.Kind
	OwnerID     string
	Content     []byte
	DisplayName string

	Dataset *domain.DatasetPayload
	Report  *domain.ReportPayload
	Model   *domain.ModelPayload
	Plot    *domain.PlotPayload
}

// RegistryService binds newly produced blobs to metadata records. The blob
// is written before the record, so a crash leaves at most an orphaned blob
// for the reconciliation sweep; it never returns success with only one side
// persisted.
type RegistryService struct {
	repo  ports.ArtifactRepository
	store ports.ObjectStore
}

func NewRegistryService(repo ports.ArtifactRepository, store ports.ObjectStore) *RegistryService {
	return &RegistryService{repo: repo, store: store}
}

func (s *RegistryService) Register(ctx context.Context, spec RegisterSpec) (*domain.Artifact, error) {
	if !spec.Kind.Valid() {
		return nil, domain.ErrInvalidKind
	}
	if spec.OwnerID == "" {
		return nil, domain.ErrInvalidOwnerID
	}
	if len(spec.Content) == 0 {
		return nil, domain.ErrEmptyContent
	}
	if err := s.checkReferences(ctx, spec); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := domain.NewArtifactID(spec.Kind, spec.OwnerID, now)

	displayName := spec.DisplayName
	if displayName == "" {
		displayName = id
	}

	artifact := &domain.Artifact{
		ID:          id,
		Kind:        spec.Kind,
		OwnerID:     spec.OwnerID,
		DisplayName: displayName,
		SizeBytes:   int64(len(spec.Content)),
		ContentKey:  domain.BlobKey(spec.Kind, spec.OwnerID, id),
		CreatedAt:   now,
		Dataset:     spec.Dataset,
		Report:      spec.Report,
		Model:       spec.Model,
		Plot:        spec.Plot,
	}

	if err := s.store.Put(ctx, artifact.ContentKey, spec.Content); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, artifact); err != nil {
		// The record did not land; compensate by removing the blob so the
		// caller never observes a half-registered artifact.
		if delErr := s.store.Delete(ctx, artifact.ContentKey); delErr != nil && !errors.Is(delErr, domain.ErrNotFound) {
			log.WithFields(log.Fields{
				"artifact_id": artifact.ID,
				"content_key": artifact.ContentKey,
			}).WithError(delErr).Error("orphaned blob left behind after failed registration; sweep will recover it")
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"artifact_id": artifact.ID,
		"kind":        artifact.Kind,
		"owner_id":    artifact.OwnerID,
		"size_bytes":  artifact.SizeBytes,
	}).Info("artifact registered")

	return artifact, nil
}

// checkReferences enforces referential linking at construction time: a
// plot's model and a report's dataset must exist (tombstones count) and be
// owned by the same user.
func (s *RegistryService) checkReferences(ctx context.Context, spec RegisterSpec) error {
	check := func(kind domain.Kind, id string) error {
		ref, err := s.repo.Get(ctx, kind, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrBrokenReference
			}
			return err
		}
		if ref.OwnerID != spec.OwnerID {
			log.WithFields(log.Fields{
				"owner_id": spec.OwnerID,
				"ref_id":   id,
			}).Warn("cross-owner artifact reference rejected")
			return domain.ErrBrokenReference
		}
		return nil
	}

	switch spec.Kind {
	case domain.KindReport:
		if spec.Report != nil && spec.Report.DatasetID != "" {
			return check(domain.KindDataset, spec.Report.DatasetID)
		}
	case domain.KindPlot:
		if spec.Plot == nil || spec.Plot.ModelID == "" {
			return domain.ErrBrokenReference
		}
		return check(domain.KindModel, spec.Plot.ModelID)
	case domain.KindModel:
		if spec.Model != nil && spec.Model.DatasetID != "" {
			return check(domain.KindDataset, spec.Model.DatasetID)
		}
	}
	return nil
}
