package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"automl-platform-service/internal/core/domain"
)

type ProfilingClient struct {
	baseURL string
	client  *http.Client
}

func NewProfilingClient(baseURL string, client *http.Client) *ProfilingClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProfilingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type profileRequest struct {
	Dataset []byte `json:"dataset"`
	Title   string `json:"title"`
}

type profileResponse struct {
	Report []byte `json:"report"`
}

func (c *ProfilingClient) Profile(ctx context.Context, dataset []byte, title string) ([]byte, error) {
	var resp profileResponse
	err := postJSON(ctx, c.client, c.baseURL+"/profile", &profileRequest{
		Dataset: dataset,
		Title:   title,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Report) == 0 {
		return nil, fmt.Errorf("%w: profiling engine returned an empty report", domain.ErrEngine)
	}
	return resp.Report, nil
}
