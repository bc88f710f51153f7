package dto

import (
	"time"

	"automl-platform-service/internal/core/domain"
)

type SweepSummaryResponse struct {
	Operation      string         `json:"operation"`
	Scope          string         `json:"scope,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	BlobsDeleted   int            `json:"blobs_deleted"`
	RecordsDeleted map[string]int `json:"records_deleted"`
	Flagged        []string       `json:"flagged,omitempty"`
	Errors         []string       `json:"errors,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
}

func ToSweepSummaryResponse(s *domain.SweepSummary) SweepSummaryResponse {
	return SweepSummaryResponse{
		Operation:      string(s.Operation),
		Scope:          s.Scope,
		DryRun:         s.DryRun,
		BlobsDeleted:   s.BlobsDeleted,
		RecordsDeleted: s.RecordsDeleted,
		Flagged:        s.Flagged,
		Errors:         s.Errors,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
	}
}

type CleanupStatusResponse struct {
	Stats      *domain.StorageStats   `json:"stats"`
	RecentRuns []SweepSummaryResponse `json:"recent_runs"`
}

type CleanupLogsResponse struct {
	Items []SweepSummaryResponse `json:"items"`
	Total int                    `json:"total"`
}
