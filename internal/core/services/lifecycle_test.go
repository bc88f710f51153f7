package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"automl-platform-service/internal/core/domain"
	ports "automl-platform-service/internal/core/ports/output"
	"automl-platform-service/internal/testutil"
)

func trainingCSV() []byte {
	var b strings.Builder
	b.WriteString("feature,label\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "%d,%s\n", i, []string{"yes", "no"}[i%2])
	}
	return []byte(b.String())
}

func newLifecycleFixture(training *testutil.MockTrainingEngine, profiling *testutil.MockProfilingEngine, predictions *testutil.MockPredictionRepo) (*LifecycleService, *testutil.MemArtifactRepo, *testutil.MemStore) {
	repo := testutil.NewMemArtifactRepo()
	store := testutil.NewMemStore()
	registry := NewRegistryService(repo, store)
	svc := NewLifecycleService(registry, repo, store, training, profiling, predictions, ValidationLimits{})
	return svc, repo, store
}

func TestLifecycleService_TrainModel(t *testing.T) {
	training := new(testutil.MockTrainingEngine)
	svc, repo, store := newLifecycleFixture(training, nil, nil)

	training.On("Train", mock.Anything, mock.Anything, "label", domain.TaskClassification, []string(nil)).
		Return(&ports.TrainResult{
			ModelBytes: []byte("model-bytes"),
			Algorithm:  "random_forest",
			BestScore:  0.93,
			Metrics:    map[string]float64{"accuracy": 0.93},
			Plots: []ports.TrainedPlot{
				{Category: "confusion_matrix", Image: []byte("png1")},
				{Category: "feature_importance", Image: []byte("png2")},
			},
		}, nil)

	outcome, err := svc.TrainModel(context.Background(), TrainRequest{
		OwnerID:          "alice",
		OriginalFilename: "iris.csv",
		TargetColumn:     "label",
		Content:          trainingCSV(),
	})
	assert.NoError(t, err)
	assert.NotNil(t, outcome.Dataset)
	assert.NotNil(t, outcome.Model)
	assert.Len(t, outcome.Plots, 2)
	assert.Equal(t, "random_forest", outcome.Model.Model.Algorithm)
	assert.Equal(t, outcome.Dataset.ID, outcome.Model.Model.DatasetID)

	// Plot ids were attached to the persisted model record.
	stored, err := repo.Get(context.Background(), domain.KindModel, outcome.Model.ID)
	assert.NoError(t, err)
	assert.Len(t, stored.Model.PlotIDs, 2)

	// One blob per artifact: dataset, model, two plots.
	assert.Equal(t, 4, store.Len())
}

func TestLifecycleService_TrainModel_PartialPlotFailure(t *testing.T) {
	training := new(testutil.MockTrainingEngine)
	svc, repo, _ := newLifecycleFixture(training, nil, nil)

	// The second plot has no content, so its registration fails while the
	// first survives.
	training.On("Train", mock.Anything, mock.Anything, "label", domain.TaskClassification, []string(nil)).
		Return(&ports.TrainResult{
			ModelBytes: []byte("model-bytes"),
			Algorithm:  "xgboost",
			Plots: []ports.TrainedPlot{
				{Category: "confusion_matrix", Image: []byte("png1")},
				{Category: "roc_curve", Image: nil},
			},
		}, nil)

	outcome, err := svc.TrainModel(context.Background(), TrainRequest{
		OwnerID:      "alice",
		TargetColumn: "label",
		Content:      trainingCSV(),
	})
	assert.NoError(t, err)
	assert.NotNil(t, outcome.Model)
	assert.Len(t, outcome.Plots, 1)
	assert.NotEmpty(t, outcome.Warnings)
	assert.Contains(t, strings.Join(outcome.Warnings, " "), "roc_curve")

	stored, err := repo.Get(context.Background(), domain.KindModel, outcome.Model.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{outcome.Plots[0].ID}, stored.Model.PlotIDs)
}

func TestLifecycleService_TrainModel_InvalidDataset(t *testing.T) {
	training := new(testutil.MockTrainingEngine)
	svc, repo, store := newLifecycleFixture(training, nil, nil)

	outcome, err := svc.TrainModel(context.Background(), TrainRequest{
		OwnerID:      "alice",
		TargetColumn: "missing_column",
		Content:      trainingCSV(),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotNil(t, outcome.Validation)
	assert.False(t, outcome.Validation.Valid)

	// Nothing was registered and the engine was never called.
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, repo.Len(domain.KindDataset))
	training.AssertNotCalled(t, "Train", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLifecycleService_GenerateReport(t *testing.T) {
	profiling := new(testutil.MockProfilingEngine)
	svc, _, store := newLifecycleFixture(nil, profiling, nil)

	profiling.On("Profile", mock.Anything, mock.Anything, "EDA Report - iris.csv").
		Return([]byte("<html>report</html>"), nil)

	outcome, err := svc.GenerateReport(context.Background(), ProfileRequest{
		OwnerID:          "alice",
		OriginalFilename: "iris.csv",
		Content:          trainingCSV(),
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.KindReport, outcome.Report.Kind)
	assert.Equal(t, outcome.Dataset.ID, outcome.Report.Report.DatasetID)
	assert.Equal(t, 20, outcome.Report.Report.Rows)
	assert.True(t, store.Has(outcome.Report.ContentKey))
}

func TestLifecycleService_Get_OwnershipHidesArtifact(t *testing.T) {
	svc, repo, store := newLifecycleFixture(nil, nil, nil)
	registry := NewRegistryService(repo, store)

	artifact, err := registry.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindDataset,
		OwnerID: "alice",
		Content: []byte("a,b\n1,2\n"),
	})
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), domain.KindDataset, artifact.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Get(context.Background(), domain.KindDataset, artifact.ID, "alice")
	assert.NoError(t, err)
	assert.Equal(t, artifact.ID, got.ID)
}

func TestLifecycleService_Open_MissingBlobNotServed(t *testing.T) {
	svc, repo, store := newLifecycleFixture(nil, nil, nil)
	registry := NewRegistryService(repo, store)

	artifact, err := registry.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindDataset,
		OwnerID: "alice",
		Content: []byte("a,b\n1,2\n"),
	})
	assert.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), artifact.ContentKey))

	_, _, err = svc.Open(context.Background(), domain.KindDataset, artifact.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLifecycleService_Delete_ModelTakesPlots(t *testing.T) {
	training := new(testutil.MockTrainingEngine)
	svc, repo, store := newLifecycleFixture(training, nil, nil)

	training.On("Train", mock.Anything, mock.Anything, "label", domain.TaskClassification, []string(nil)).
		Return(&ports.TrainResult{
			ModelBytes: []byte("model-bytes"),
			Algorithm:  "lightgbm",
			Plots:      []ports.TrainedPlot{{Category: "confusion_matrix", Image: []byte("png")}},
		}, nil)

	outcome, err := svc.TrainModel(context.Background(), TrainRequest{
		OwnerID:      "alice",
		TargetColumn: "label",
		Content:      trainingCSV(),
	})
	assert.NoError(t, err)

	warnings, err := svc.Delete(context.Background(), domain.KindModel, outcome.Model.ID, "alice")
	assert.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 0, repo.Len(domain.KindModel))
	assert.Equal(t, 0, repo.Len(domain.KindPlot))
	assert.False(t, store.Has(outcome.Model.ContentKey))

	// Deleting again reports not found.
	_, err = svc.Delete(context.Background(), domain.KindModel, outcome.Model.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLifecycleService_Delete_TombstonesOnRecordFailure(t *testing.T) {
	svc, repo, store := newLifecycleFixture(nil, nil, nil)
	registry := NewRegistryService(repo, store)

	artifact, err := registry.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindDataset,
		OwnerID: "alice",
		Content: []byte("a,b\n1,2\n"),
	})
	assert.NoError(t, err)

	repo.FailDelete = errors.New("metadata store down")

	warnings, err := svc.Delete(context.Background(), domain.KindDataset, artifact.ID, "alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "tombstoned")

	// The blob is gone and the record carries the tombstone for the sweep.
	assert.False(t, store.Has(artifact.ContentKey))
	stored, err := repo.Get(context.Background(), domain.KindDataset, artifact.ID)
	assert.NoError(t, err)
	assert.True(t, stored.Tombstoned())

	// Tombstoned records are invisible to reads.
	_, err = svc.Get(context.Background(), domain.KindDataset, artifact.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLifecycleService_Predict(t *testing.T) {
	training := new(testutil.MockTrainingEngine)
	predictions := new(testutil.MockPredictionRepo)
	svc, repo, store := newLifecycleFixture(training, nil, predictions)
	registry := NewRegistryService(repo, store)

	model, err := registry.Register(context.Background(), RegisterSpec{
		Kind:    domain.KindModel,
		OwnerID: "alice",
		Content: []byte("model-bytes"),
		Model:   &domain.ModelPayload{Algorithm: "catboost", TaskType: domain.TaskClassification},
	})
	assert.NoError(t, err)

	input := map[string]interface{}{"feature": 1.5}
	training.On("Predict", mock.Anything, []byte("model-bytes"), input).
		Return(&ports.PredictResult{Outputs: []interface{}{"yes"}}, nil)
	predictions.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Prediction")).Return(nil)

	prediction, err := svc.Predict(context.Background(), model.ID, "alice", input)
	assert.NoError(t, err)
	assert.Equal(t, model.ID, prediction.ModelID)
	assert.Equal(t, []interface{}{"yes"}, prediction.Outputs)
	predictions.AssertExpectations(t)

	// Someone else's model is invisible.
	_, err = svc.Predict(context.Background(), model.ID, "bob", input)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLifecycleService_CompareModels(t *testing.T) {
	svc, repo, store := newLifecycleFixture(nil, nil, nil)
	registry := NewRegistryService(repo, store)

	for _, algo := range []string{"rf", "xgb"} {
		_, err := registry.Register(context.Background(), RegisterSpec{
			Kind:    domain.KindModel,
			OwnerID: "alice",
			Content: []byte("bytes-" + algo),
			Model:   &domain.ModelPayload{Algorithm: algo, BestScore: 0.9},
		})
		assert.NoError(t, err)
	}

	comparisons, err := svc.CompareModels(context.Background(), "alice", 10)
	assert.NoError(t, err)
	assert.Len(t, comparisons, 2)

	comparisons, err = svc.CompareModels(context.Background(), "bob", 10)
	assert.NoError(t, err)
	assert.Empty(t, comparisons)
}
