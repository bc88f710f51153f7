package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"automl-platform-service/internal/core/domain"
)

func TestTrainingClient_Train(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/train", r.URL.Path)

		var req trainRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "label", req.TargetColumn)
		assert.Equal(t, "classification", req.TaskType)

		json.NewEncoder(w).Encode(trainResponse{
			Model:     []byte("model-bytes"),
			Algorithm: "random_forest",
			BestScore: 0.91,
			Metrics:   map[string]float64{"f1": 0.9},
			Plots:     []trainPlot{{Category: "confusion_matrix", Image: []byte("png")}},
		})
	}))
	defer srv.Close()

	client := NewTrainingClient(srv.URL, srv.Client())
	result, err := client.Train(context.Background(), []byte("a,b\n1,2\n"), "label", domain.TaskClassification, nil)
	assert.NoError(t, err)
	assert.Equal(t, []byte("model-bytes"), result.ModelBytes)
	assert.Equal(t, "random_forest", result.Algorithm)
	assert.Len(t, result.Plots, 1)
	assert.Equal(t, "confusion_matrix", result.Plots[0].Category)
}

func TestTrainingClient_Train_EngineFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "training crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewTrainingClient(srv.URL, srv.Client())
	_, err := client.Train(context.Background(), []byte("x"), "label", domain.TaskClassification, nil)
	assert.ErrorIs(t, err, domain.ErrEngine)
	assert.Contains(t, err.Error(), "training crashed")
}

func TestTrainingClient_Train_EmptyModelRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(trainResponse{Algorithm: "rf"})
	}))
	defer srv.Close()

	client := NewTrainingClient(srv.URL, srv.Client())
	_, err := client.Train(context.Background(), []byte("x"), "label", domain.TaskClassification, nil)
	assert.ErrorIs(t, err, domain.ErrEngine)
}

func TestTrainingClient_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		json.NewEncoder(w).Encode(predictResponse{
			Outputs:       []interface{}{"yes"},
			Probabilities: [][]float64{{0.2, 0.8}},
		})
	}))
	defer srv.Close()

	client := NewTrainingClient(srv.URL, srv.Client())
	result, err := client.Predict(context.Background(), []byte("model"), map[string]interface{}{"f": 1})
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"yes"}, result.Outputs)
	assert.Equal(t, [][]float64{{0.2, 0.8}}, result.Probabilities)
}

func TestProfilingClient_Profile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile", r.URL.Path)

		var req profileRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "EDA Report - iris.csv", req.Title)

		json.NewEncoder(w).Encode(profileResponse{Report: []byte("<html></html>")})
	}))
	defer srv.Close()

	client := NewProfilingClient(srv.URL, srv.Client())
	report, err := client.Profile(context.Background(), []byte("a,b\n1,2\n"), "EDA Report - iris.csv")
	assert.NoError(t, err)
	assert.Equal(t, []byte("<html></html>"), report)
}
