package dto

import (
	"time"

	"automl-platform-service/internal/core/domain"
)

type ArtifactResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	DisplayName string    `json:"display_name"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`

	Dataset *DatasetInfo `json:"dataset,omitempty"`
	Report  *ReportInfo  `json:"report,omitempty"`
	Model   *ModelInfo   `json:"model,omitempty"`
	Plot    *PlotInfo    `json:"plot,omitempty"`
}

type DatasetInfo struct {
	OriginalFilename string `json:"original_filename"`
	Rows             int    `json:"rows"`
	Columns          int    `json:"columns"`
}

type ReportInfo struct {
	DatasetID   string `json:"dataset_id"`
	DatasetName string `json:"dataset_name"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
}

type ModelInfo struct {
	DatasetID       string             `json:"dataset_id,omitempty"`
	DatasetName     string             `json:"dataset_name"`
	TargetColumn    string             `json:"target_column"`
	TaskType        string             `json:"task_type"`
	Algorithm       string             `json:"algorithm"`
	BestScore       float64            `json:"best_score"`
	Metrics         map[string]float64 `json:"metrics"`
	PlotIDs         []string           `json:"plot_ids"`
	TrainingSeconds float64            `json:"training_seconds"`
}

type PlotInfo struct {
	ModelID  string `json:"model_id"`
	Category string `json:"category"`
}

func ToArtifactResponse(a *domain.Artifact) ArtifactResponse {
	resp := ArtifactResponse{
		ID:          a.ID,
		Kind:        string(a.Kind),
		DisplayName: a.DisplayName,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
	if a.Dataset != nil {
		resp.Dataset = &DatasetInfo{
			OriginalFilename: a.Dataset.OriginalFilename,
			Rows:             a.Dataset.Rows,
			Columns:          a.Dataset.Columns,
		}
	}
	if a.Report != nil {
		resp.Report = &ReportInfo{
			DatasetID:   a.Report.DatasetID,
			DatasetName: a.Report.DatasetName,
			Rows:        a.Report.Rows,
			Columns:     a.Report.Columns,
		}
	}
	if a.Model != nil {
		resp.Model = &ModelInfo{
			DatasetID:       a.Model.DatasetID,
			DatasetName:     a.Model.DatasetName,
			TargetColumn:    a.Model.TargetColumn,
			TaskType:        string(a.Model.TaskType),
			Algorithm:       a.Model.Algorithm,
			BestScore:       a.Model.BestScore,
			Metrics:         a.Model.Metrics,
			PlotIDs:         a.Model.PlotIDs,
			TrainingSeconds: a.Model.TrainingSeconds,
		}
	}
	if a.Plot != nil {
		resp.Plot = &PlotInfo{
			ModelID:  a.Plot.ModelID,
			Category: a.Plot.Category,
		}
	}
	return resp
}

type ListArtifactsResponse struct {
	Items []ArtifactResponse `json:"items"`
	Total int                `json:"total"`
}

func ToListArtifactsResponse(artifacts []*domain.Artifact) ListArtifactsResponse {
	items := make([]ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, ToArtifactResponse(a))
	}
	return ListArtifactsResponse{Items: items, Total: len(items)}
}

type TrainResponse struct {
	Dataset  ArtifactResponse   `json:"dataset"`
	Model    ArtifactResponse   `json:"model"`
	Plots    []ArtifactResponse `json:"plots"`
	Warnings []string           `json:"warnings,omitempty"`
}

type ProfileResponse struct {
	Dataset ArtifactResponse `json:"dataset"`
	Report  ArtifactResponse `json:"report"`
}

type PredictRequest struct {
	Input map[string]interface{} `json:"input" binding:"required"`
}

type PredictResponse struct {
	PredictionID  string        `json:"prediction_id"`
	ModelID       string        `json:"model_id"`
	Outputs       []interface{} `json:"outputs"`
	Probabilities [][]float64   `json:"probabilities,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

func ToPredictResponse(p *domain.Prediction) PredictResponse {
	return PredictResponse{
		PredictionID:  p.ID,
		ModelID:       p.ModelID,
		Outputs:       p.Outputs,
		Probabilities: p.Probabilities,
		CreatedAt:     p.CreatedAt,
	}
}

type DeleteResponse struct {
	ID       string   `json:"id"`
	Deleted  bool     `json:"deleted"`
	Warnings []string `json:"warnings,omitempty"`
}
