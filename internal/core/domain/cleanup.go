package domain

import "time"

type SweepOperation string

const (
	SweepOrphanBlobs   SweepOperation = "orphan_blobs"
	SweepOrphanRecords SweepOperation = "orphan_records"
	SweepAgeCleanup    SweepOperation = "age_cleanup"
	SweepUserWipe      SweepOperation = "user_wipe"
)

// SweepSummary is the result of one reconciliation or cleanup pass.
// Sweeps never abort on individual item failures; they collect them here.
type SweepSummary struct {
	Operation      SweepOperation `json:"operation"`
	Scope          string         `json:"scope,omitempty"` // owner id, empty for all users
	DryRun         bool           `json:"dry_run,omitempty"`
	BlobsDeleted   int            `json:"blobs_deleted"`
	RecordsDeleted map[string]int `json:"records_deleted"`
	Flagged        []string       `json:"flagged,omitempty"`
	Errors         []string       `json:"errors,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
}

func (s *SweepSummary) TotalRecordsDeleted() int {
	total := 0
	for _, n := range s.RecordsDeleted {
		total += n
	}
	return total
}

func (s *SweepSummary) AddError(err error) {
	s.Errors = append(s.Errors, err.Error())
}

// StorageStats reports current object store and metadata store usage,
// served by the cleanup status endpoint.
type StorageStats struct {
	BlobCounts     map[string]int   `json:"blob_counts"`
	BlobSizeBytes  map[string]int64 `json:"blob_size_bytes"`
	TotalBlobs     int              `json:"total_blobs"`
	TotalSizeBytes int64            `json:"total_size_bytes"`
	RecordCounts   map[string]int64 `json:"record_counts"`
}
