// Package engine holds HTTP clients for the external training and
// profiling engines. Payloads are JSON; binary fields (datasets, model
// blobs, plot images) travel base64-encoded, which encoding/json does
// transparently for []byte.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"automl-platform-service/internal/core/domain"
	ports "automl-platform-service/internal/core/ports/output"
)

type TrainingClient struct {
	baseURL string
	client  *http.Client
}

func NewTrainingClient(baseURL string, client *http.Client) *TrainingClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &TrainingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type trainRequest struct {
	Dataset        []byte   `json:"dataset"`
	TargetColumn   string   `json:"target_column"`
	TaskType       string   `json:"task_type"`
	AlgorithmHints []string `json:"algorithm_hints,omitempty"`
}

type trainPlot struct {
	Category string `json:"category"`
	Image    []byte `json:"image"`
}

type trainResponse struct {
	Model     []byte             `json:"model"`
	Algorithm string             `json:"algorithm"`
	BestScore float64            `json:"best_score"`
	Metrics   map[string]float64 `json:"metrics"`
	Plots     []trainPlot        `json:"plots"`
}

func (c *TrainingClient) Train(ctx context.Context, dataset []byte, targetColumn string, taskType domain.TaskType, algorithmHints []string) (*ports.TrainResult, error) {
	var resp trainResponse
	err := postJSON(ctx, c.client, c.baseURL+"/train", &trainRequest{
		Dataset:        dataset,
		TargetColumn:   targetColumn,
		TaskType:       string(taskType),
		AlgorithmHints: algorithmHints,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Model) == 0 {
		return nil, fmt.Errorf("%w: training engine returned an empty model", domain.ErrEngine)
	}

	result := &ports.TrainResult{
		ModelBytes: resp.Model,
		Algorithm:  resp.Algorithm,
		BestScore:  resp.BestScore,
		Metrics:    resp.Metrics,
	}
	for _, p := range resp.Plots {
		result.Plots = append(result.Plots, ports.TrainedPlot{Category: p.Category, Image: p.Image})
	}
	return result, nil
}

type predictRequest struct {
	Model []byte                 `json:"model"`
	Input map[string]interface{} `json:"input"`
}

type predictResponse struct {
	Outputs       []interface{} `json:"outputs"`
	Probabilities [][]float64   `json:"probabilities,omitempty"`
}

func (c *TrainingClient) Predict(ctx context.Context, model []byte, input map[string]interface{}) (*ports.PredictResult, error) {
	var resp predictResponse
	err := postJSON(ctx, c.client, c.baseURL+"/predict", &predictRequest{
		Model: model,
		Input: input,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &ports.PredictResult{
		Outputs:       resp.Outputs,
		Probabilities: resp.Probabilities,
	}, nil
}

// postJSON sends a JSON request and decodes a JSON response, mapping
// transport and non-2xx failures to ErrEngine.
func postJSON(ctx context.Context, client *http.Client, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", domain.ErrEngine, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEngine, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEngine, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s returned %d: %s", domain.ErrEngine, url, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrEngine, err)
	}
	return nil
}
