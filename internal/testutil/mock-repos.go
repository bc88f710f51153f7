// Package testutil holds shared test doubles: testify mocks for the output
// ports and an in-memory object store.
package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"automl-platform-service/internal/core/domain"
	ports "automl-platform-service/internal/core/ports/output"
)

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) Insert(ctx context.Context, a *domain.Artifact) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArtifactRepo) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Artifact, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) Find(ctx context.Context, kind domain.Kind, filter ports.ArtifactFilter) ([]*domain.Artifact, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) Update(ctx context.Context, a *domain.Artifact) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArtifactRepo) Delete(ctx context.Context, kind domain.Kind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func (m *MockArtifactRepo) Count(ctx context.Context, kind domain.Kind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepo is a mock of UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Insert(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPredictionRepo is a mock of PredictionRepository.
type MockPredictionRepo struct {
	mock.Mock
}

func (m *MockPredictionRepo) Insert(ctx context.Context, p *domain.Prediction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPredictionRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*domain.Prediction, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Prediction), args.Error(1)
}

func (m *MockPredictionRepo) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

// MockCleanupLogRepo is a mock of CleanupLogRepository.
type MockCleanupLogRepo struct {
	mock.Mock
}

func (m *MockCleanupLogRepo) Insert(ctx context.Context, s *domain.SweepSummary) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockCleanupLogRepo) List(ctx context.Context, limit int) ([]*domain.SweepSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SweepSummary), args.Error(1)
}

// MockSweepLeaser is a mock of SweepLeaser.
type MockSweepLeaser struct {
	mock.Mock
}

func (m *MockSweepLeaser) Acquire(ctx context.Context, scope string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, scope, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSweepLeaser) Release(ctx context.Context, scope string) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}

// MockTrainingEngine is a mock of TrainingEngine.
type MockTrainingEngine struct {
	mock.Mock
}

func (m *MockTrainingEngine) Train(ctx context.Context, dataset []byte, targetColumn string, taskType domain.TaskType, algorithmHints []string) (*ports.TrainResult, error) {
	args := m.Called(ctx, dataset, targetColumn, taskType, algorithmHints)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TrainResult), args.Error(1)
}

func (m *MockTrainingEngine) Predict(ctx context.Context, model []byte, input map[string]interface{}) (*ports.PredictResult, error) {
	args := m.Called(ctx, model, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.PredictResult), args.Error(1)
}

// MockProfilingEngine is a mock of ProfilingEngine.
type MockProfilingEngine struct {
	mock.Mock
}

func (m *MockProfilingEngine) Profile(ctx context.Context, dataset []byte, title string) ([]byte, error) {
	args := m.Called(ctx, dataset, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
