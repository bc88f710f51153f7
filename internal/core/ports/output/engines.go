package ports

import (
	"context"

	"automl-platform-service/internal/core/domain"
)

// TrainedPlot is one diagnostic image produced by the training engine.
type TrainedPlot struct {
	Category string
	Image    []byte
}

type TrainResult struct {
	ModelBytes []byte
	Algorithm  string
	BestScore  float64
	Metrics    map[string]float64
	Plots      []TrainedPlot
}

type PredictResult struct {
	Outputs       []interface{}
	Probabilities [][]float64
}

// TrainingEngine is the external model training collaborator. Calls run to
// completion or failure once launched; there is no cooperative cancellation
// beyond the request timeout.
type TrainingEngine interface {
	Train(ctx context.Context, dataset []byte, targetColumn string, taskType domain.TaskType, algorithmHints []string) (*TrainResult, error)
	Predict(ctx context.Context, model []byte, input map[string]interface{}) (*PredictResult, error)
}

// ProfilingEngine is the external EDA report generator.
type ProfilingEngine interface {
	Profile(ctx context.Context, dataset []byte, title string) ([]byte, error)
}
