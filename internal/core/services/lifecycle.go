package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/core/ports/output"
)

// LifecycleService sequences produce → register → link for training and
// profiling, and validate ownership → delete blob → delete record for
// removal. It owns no state beyond its collaborators.
type LifecycleService struct {
	registry    *RegistryService
	repo        ports.ArtifactRepository
	store       ports.ObjectStore
	training    ports.TrainingEngine
	profiling   ports.ProfilingEngine
	predictions ports.PredictionRepository
	limits      ValidationLimits
}

func NewLifecycleService(
	registry *RegistryService,
	repo ports.ArtifactRepository,
	store ports.ObjectStore,
	training ports.TrainingEngine,
	profiling ports.ProfilingEngine,
	predictions ports.PredictionRepository,
	limits ValidationLimits,
) *LifecycleService {
	return &LifecycleService{
		registry:    registry,
		repo:        repo,
		store:       store,
		training:    training,
		profiling:   profiling,
		predictions: predictions,
		limits:      limits,
	}
}

type TrainRequest struct {
	OwnerID          string
	DatasetName      string
	OriginalFilename string
	TargetColumn     string
	AlgorithmHints   []string
	Content          []byte
}

// TrainOutcome keeps partial progress: the model and every plot that did
// register survive even when later plot registrations fail; those failures
// are reported as warnings.
type TrainOutcome struct {
	Dataset    *domain.Artifact
	Model      *domain.Artifact
	Plots      []*domain.Artifact
	Validation *domain.ValidationResult
	Warnings   []string
}

func (s *LifecycleService) TrainModel(ctx context.Context, req TrainRequest) (*TrainOutcome, error) {
	validation, err := ValidateDataset(req.Content, req.TargetColumn, s.limits)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return &TrainOutcome{Validation: validation},
			fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(validation.Errors, "; "))
	}

	datasetName := req.DatasetName
	if datasetName == "" {
		datasetName = req.OriginalFilename
	}

	dataset, err := s.registry.Register(ctx, RegisterSpec{
		Kind:        domain.KindDataset,
		OwnerID:     req.OwnerID,
		Content:     req.Content,
		DisplayName: datasetName,
		Dataset: &domain.DatasetPayload{
			OriginalFilename: req.OriginalFilename,
			Rows:             validation.Rows,
			Columns:          validation.Columns,
		},
	})
	if err != nil {
		return nil, err
	}

	started := time.Now()
	trained, err := s.training.Train(ctx, req.Content, req.TargetColumn, validation.TaskType, req.AlgorithmHints)
	if err != nil {
		return nil, err
	}

	model, err := s.registry.Register(ctx, RegisterSpec{
		Kind:        domain.KindModel,
		OwnerID:     req.OwnerID,
		Content:     trained.ModelBytes,
		DisplayName: fmt.Sprintf("%s (%s)", datasetName, trained.Algorithm),
		Model: &domain.ModelPayload{
			DatasetID:       dataset.ID,
			DatasetName:     datasetName,
			TargetColumn:    req.TargetColumn,
			TaskType:        validation.TaskType,
			Algorithm:       trained.Algorithm,
			BestScore:       trained.BestScore,
			Metrics:         trained.Metrics,
			PlotIDs:         []string{},
			TrainingSeconds: time.Since(started).Seconds(),
		},
	})
	if err != nil {
		return nil, err
	}

	outcome := &TrainOutcome{
		Dataset:    dataset,
		Model:      model,
		Validation: validation,
		Warnings:   append([]string{}, validation.Warnings...),
	}

	// Individual plots are not all-or-nothing: keep what registered and
	// report the rest.
	for _, p := range trained.Plots {
		plot, err := s.registry.Register(ctx, RegisterSpec{
			Kind:        domain.KindPlot,
			OwnerID:     req.OwnerID,
			Content:     p.Image,
			DisplayName: fmt.Sprintf("%s %s", model.DisplayName, p.Category),
			Plot: &domain.PlotPayload{
				ModelID:  model.ID,
				Category: p.Category,
			},
		})
		if err != nil {
			log.WithFields(log.Fields{
				"model_id": model.ID,
				"category": p.Category,
			}).WithError(err).Warn("plot registration failed")
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("plot %q failed to register: %v", p.Category, err))
			continue
		}
		outcome.Plots = append(outcome.Plots, plot)
		model.Model.PlotIDs = append(model.Model.PlotIDs, plot.ID)
	}

	if len(outcome.Plots) > 0 {
		if err := s.repo.Update(ctx, model); err != nil {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("failed to attach plot ids to model record: %v", err))
		}
	}

	return outcome, nil
}

type ProfileRequest struct {
	OwnerID          string
	DatasetName      string
	OriginalFilename string
	Content          []byte
}

type ProfileOutcome struct {
	Dataset *domain.Artifact
	Report  *domain.Artifact
}

func (s *LifecycleService) GenerateReport(ctx context.Context, req ProfileRequest) (*ProfileOutcome, error) {
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", domain.ErrValidation)
	}

	datasetName := req.DatasetName
	if datasetName == "" {
		datasetName = req.OriginalFilename
	}

	// Row/column counts come from a target-free validation pass; an
	// unparseable file is rejected before any engine call.
	validation, err := ValidateDataset(req.Content, "", ValidationLimits{MinRows: 1, MaxRows: s.limits.MaxRows, MaxColumns: s.limits.MaxColumns})
	if err != nil {
		return nil, err
	}

	dataset, err := s.registry.Register(ctx, RegisterSpec{
		Kind:        domain.KindDataset,
		OwnerID:     req.OwnerID,
		Content:     req.Content,
		DisplayName: datasetName,
		Dataset: &domain.DatasetPayload{
			OriginalFilename: req.OriginalFilename,
			Rows:             validation.Rows,
			Columns:          validation.Columns,
		},
	})
	if err != nil {
		return nil, err
	}

	reportBytes, err := s.profiling.Profile(ctx, req.Content, fmt.Sprintf("EDA Report - %s", datasetName))
	if err != nil {
		return nil, err
	}

	report, err := s.registry.Register(ctx, RegisterSpec{
		Kind:        domain.KindReport,
		OwnerID:     req.OwnerID,
		Content:     reportBytes,
		DisplayName: fmt.Sprintf("EDA Report - %s", datasetName),
		Report: &domain.ReportPayload{
			DatasetID:   dataset.ID,
			DatasetName: datasetName,
			Rows:        validation.Rows,
			Columns:     validation.Columns,
		},
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutcome{Dataset: dataset, Report: report}, nil
}

// Get returns an artifact owned by requester. Tombstoned records and
// artifacts owned by someone else are reported as not found.
func (s *LifecycleService) Get(ctx context.Context, kind domain.Kind, id, requesterID string) (*domain.Artifact, error) {
	a, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if a.Tombstoned() {
		return nil, domain.ErrNotFound
	}
	if a.OwnerID != requesterID {
		log.WithFields(log.Fields{
			"artifact_id":  id,
			"requester_id": requesterID,
		}).Warn("ownership violation on read")
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (s *LifecycleService) List(ctx context.Context, kind domain.Kind, ownerID string, limit int) ([]*domain.Artifact, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidOwnerID
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.Find(ctx, kind, ports.ArtifactFilter{OwnerID: ownerID, Limit: limit})
}

// Open streams the backing blob for download, after the same ownership
// check as Get. A record whose blob is missing is never served (I1); it is
// flagged for the reconciliation sweep instead.
func (s *LifecycleService) Open(ctx context.Context, kind domain.Kind, id, requesterID string) (*domain.Artifact, []byte, error) {
	a, err := s.Get(ctx, kind, id, requesterID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.store.Get(ctx, a.ContentKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.WithField("artifact_id", id).Warn("record has no backing blob; refusing to serve")
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	return a, data, nil
}

// Delete removes blob first, then record, so a crash leaves at most an
// orphaned record. If the record delete fails the artifact is tombstoned
// and the reconciliation sweep finishes the job; the returned warnings
// report that state instead of hiding it.
func (s *LifecycleService) Delete(ctx context.Context, kind domain.Kind, id, requesterID string) ([]string, error) {
	a, err := s.Get(ctx, kind, id, requesterID)
	if err != nil {
		return nil, err
	}

	var warnings []string

	// A model's plots go with it.
	if kind == domain.KindModel && a.Model != nil {
		for _, plotID := range a.Model.PlotIDs {
			if w, err := s.Delete(ctx, domain.KindPlot, plotID, requesterID); err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					warnings = append(warnings, fmt.Sprintf("plot %s: %v", plotID, err))
				}
			} else {
				warnings = append(warnings, w...)
			}
		}
	}

	if err := s.store.Delete(ctx, a.ContentKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return warnings, err
	}

	if err := s.repo.Delete(ctx, kind, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		now := time.Now().UTC()
		a.DeletedAt = &now
		if tombErr := s.repo.Update(ctx, a); tombErr != nil {
			return warnings, err
		}
		warnings = append(warnings, fmt.Sprintf("artifact %s tombstoned; record purge deferred to reconciliation", id))
		log.WithField("artifact_id", id).WithError(err).Warn("record delete failed; artifact tombstoned")
		return warnings, nil
	}

	log.WithFields(log.Fields{"artifact_id": id, "kind": kind}).Info("artifact deleted")
	return warnings, nil
}

// Predict runs inference through the training engine against a stored
// model and records the call.
func (s *LifecycleService) Predict(ctx context.Context, modelID, requesterID string, input map[string]interface{}) (*domain.Prediction, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: input data is empty", domain.ErrValidation)
	}

	model, modelBytes, err := s.Open(ctx, domain.KindModel, modelID, requesterID)
	if err != nil {
		return nil, err
	}

	result, err := s.training.Predict(ctx, modelBytes, input)
	if err != nil {
		return nil, err
	}

	prediction := &domain.Prediction{
		ID:            uuid.NewString(),
		OwnerID:       requesterID,
		ModelID:       model.ID,
		Input:         input,
		Outputs:       result.Outputs,
		Probabilities: result.Probabilities,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.predictions.Insert(ctx, prediction); err != nil {
		// The prediction itself succeeded; losing the audit record is not
		// worth failing the call over.
		log.WithField("model_id", modelID).WithError(err).Warn("failed to record prediction")
	}

	return prediction, nil
}

// PredictionHistory lists the caller's recorded predictions, newest first.
func (s *LifecycleService) PredictionHistory(ctx context.Context, ownerID string, limit int) ([]*domain.Prediction, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidOwnerID
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.predictions.ListByOwner(ctx, ownerID, limit)
}

// ModelComparison summarizes one trained model for side-by-side views.
type ModelComparison struct {
	ModelID     string             `json:"model_id"`
	DisplayName string             `json:"display_name"`
	DatasetName string             `json:"dataset_name"`
	TaskType    domain.TaskType    `json:"task_type"`
	Algorithm   string             `json:"algorithm"`
	BestScore   float64            `json:"best_score"`
	Metrics     map[string]float64 `json:"metrics"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (s *LifecycleService) CompareModels(ctx context.Context, ownerID string, limit int) ([]ModelComparison, error) {
	models, err := s.List(ctx, domain.KindModel, ownerID, limit)
	if err != nil {
		return nil, err
	}
	comparisons := make([]ModelComparison, 0, len(models))
	for _, m := range models {
		if m.Model == nil {
			continue
		}
		comparisons = append(comparisons, ModelComparison{
			ModelID:     m.ID,
			DisplayName: m.DisplayName,
			DatasetName: m.Model.DatasetName,
			TaskType:    m.Model.TaskType,
			Algorithm:   m.Model.Algorithm,
			BestScore:   m.Model.BestScore,
			Metrics:     m.Model.Metrics,
			CreatedAt:   m.CreatedAt,
		})
	}
	return comparisons, nil
}
