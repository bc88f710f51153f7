package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/testutil"
)

func TestRegistryService_Register(t *testing.T) {
	repo := testutil.NewMemArtifactRepo()
	store := testutil.NewMemStore()
	svc := NewRegistryService(repo, store)

	artifact, err := svc.Register(context.Background(), RegisterSpec{
		Kind:        domain.KindDataset,
		OwnerID:     "alice",
		Content:     []byte("a,b\n1,2\n"),
		DisplayName: "iris.csv",
		Dataset:     &domain.DatasetPayload{OriginalFilename: "iris.csv", Rows: 1, Columns: 2},
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.KindDataset, artifact.Kind)
	assert.Equal(t, "alice", artifact.OwnerID)
	assert.Equal(t, int64(8), artifact.SizeBytes)

	// Both sides landed.
	assert.True(t, store.Has(artifact.ContentKey))
	stored, err := repo.Get(context.Background(), domain.KindDataset, artifact.ID)
	assert.NoError(t, err)
	assert.Equal(t, artifact.ContentKey, stored.ContentKey)
}

func TestRegistryService_Register_CompensatesOnInsertFailure(t *testing.T) {
	repo := testutil.NewMemArtifactRepo()
	store := testutil.NewMemStore()
	svc := NewRegistryService(repo, store)

	repo.FailInsert = errors.New("write conflict")

	_, err := svc.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindDataset,
		OwnerID: "alice",
		Content: []byte("a,b\n1,2\n"),
	})
	assert.Error(t, err)
	// The compensating delete removed the blob, so neither side persists.
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, repo.Len(domain.KindDataset))
}

func TestRegistryService_Register_RejectsBadInput(t *testing.T) {
	svc := NewRegistryService(testutil.NewMemArtifactRepo(), testutil.NewMemStore())

	_, err := svc.Register(context.Background(), RegisterSpec{Kind: "bogus", OwnerID: "a", Content: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = svc.Register(context.Background(), RegisterSpec{Kind: domain.KindDataset, Content: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidOwnerID)

	_, err = svc.Register(context.Background(), RegisterSpec{Kind: domain.KindDataset, OwnerID: "a"})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestRegistryService_Register_PlotRequiresModel(t *testing.T) {
	svc := NewRegistryService(testutil.NewMemArtifactRepo(), testutil.NewMemStore())

	_, err := svc.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindPlot,
		OwnerID: "alice",
		Content: []byte("png"),
		Plot:    &domain.PlotPayload{Category: "confusion_matrix"},
	})
	assert.ErrorIs(t, err, domain.ErrBrokenReference)

	_, err = svc.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindPlot,
		OwnerID: "alice",
		Content: []byte("png"),
		Plot:    &domain.PlotPayload{ModelID: "mdl_alice_20260101T000000_deadbeef", Category: "confusion_matrix"},
	})
	assert.ErrorIs(t, err, domain.ErrBrokenReference)
}

func TestRegistryService_Register_RejectsCrossOwnerReference(t *testing.T) {
	repo := testutil.NewMemArtifactRepo()
	store := testutil.NewMemStore()
	svc := NewRegistryService(repo, store)

	dataset, err := svc.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindDataset,
		OwnerID: "alice",
		Content: []byte("a,b\n1,2\n"),
	})
	assert.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindReport,
		OwnerID: "bob",
		Content: []byte("<html></html>"),
		Report:  &domain.ReportPayload{DatasetID: dataset.ID},
	})
	assert.ErrorIs(t, err, domain.ErrBrokenReference)
}

func TestRegistryService_Register_TombstoneCountsAsReference(t *testing.T) {
	repo := testutil.NewMemArtifactRepo()
	store := testutil.NewMemStore()
	svc := NewRegistryService(repo, store)

	dataset, err := svc.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindDataset,
		OwnerID: "alice",
		Content: []byte("a,b\n1,2\n"),
	})
	assert.NoError(t, err)

	now := time.Now().UTC()
	dataset.DeletedAt = &now
	assert.NoError(t, repo.Update(context.Background(), dataset))

	// A tombstoned dataset still satisfies the reference check; the record
	// existed when the report was produced.
	_, err = svc.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindReport,
		OwnerID: "alice",
		Content: []byte("<html></html>"),
		Report:  &domain.ReportPayload{DatasetID: dataset.ID},
	})
	assert.NoError(t, err)
}
