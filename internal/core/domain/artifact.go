// Package domain holds the artifact model shared by every layer. Artifacts
// are immutable after registration: content never changes, only linkage
// metadata and the deletion tombstone do.
package domain

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the four artifact types. Its string value is the blob
// keyspace prefix.
type Kind string

const (
	KindDataset Kind = "dataset"
	KindReport  Kind = "report"
	KindModel   Kind = "model"
	KindPlot    Kind = "plot"
)

// Kinds lists every kind in sweep order.
var Kinds = []Kind{KindDataset, KindReport, KindModel, KindPlot}

func (k Kind) Valid() bool {
	switch k {
	case KindDataset, KindReport, KindModel, KindPlot:
		return true
	}
	return false
}

// Tag is the short prefix embedded in artifact IDs.
func (k Kind) Tag() string {
	switch k {
	case KindDataset:
		return "ds"
	case KindReport:
		return "eda"
	case KindModel:
		return "mdl"
	case KindPlot:
		return "plt"
	}
	return "unk"
}

// Ext is the canonical file extension for the kind's content.
func (k Kind) Ext() string {
	switch k {
	case KindDataset:
		return ".csv"
	case KindReport:
		return ".html"
	case KindModel:
		return ".pkl"
	case KindPlot:
		return ".png"
	}
	return ".bin"
}

// Collection is the metadata store collection name for the kind.
func (k Kind) Collection() string {
	switch k {
	case KindDataset:
		return "datasets"
	case KindReport:
		return "reports"
	case KindModel:
		return "models"
	case KindPlot:
		return "plots"
	}
	return "artifacts"
}

// TaskType classifies what a model was trained to do.
type TaskType string

const (
	TaskClassification TaskType = "classification"
	TaskRegression     TaskType = "regression"
)

type DatasetPayload struct {
	OriginalFilename string `json:"original_filename"`
	Rows             int    `json:"rows"`
	Columns          int    `json:"columns"`
}

type ReportPayload struct {
	DatasetID   string `json:"dataset_id"`
	DatasetName string `json:"dataset_name"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
}

type ModelPayload struct {
	DatasetID       string             `json:"dataset_id,omitempty"`
	DatasetName     string             `json:"dataset_name"`
	TargetColumn    string             `json:"target_column"`
	TaskType        TaskType           `json:"task_type"`
	Algorithm       string             `json:"algorithm"`
	BestScore       float64            `json:"best_score"`
	Metrics         map[string]float64 `json:"metrics"`
	PlotIDs         []string           `json:"plot_ids"`
	TrainingSeconds float64            `json:"training_seconds"`
}

type PlotPayload struct {
	ModelID  string `json:"model_id"`
	Category string `json:"category"`
}

// Artifact is one registered blob plus its metadata record. Exactly one
// payload pointer matching Kind is set.
type Artifact struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	OwnerID     string     `json:"owner_id"`
	DisplayName string     `json:"display_name"`
	SizeBytes   int64      `json:"size_bytes"`
	ContentKey  string     `json:"content_key"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`

	Dataset *DatasetPayload `json:"dataset,omitempty"`
	Report  *ReportPayload  `json:"report,omitempty"`
	Model   *ModelPayload   `json:"model,omitempty"`
	Plot    *PlotPayload    `json:"plot,omitempty"`
}

// Tombstoned reports whether the record is marked deleted but not yet
// purged by the reconciliation sweep.
func (a *Artifact) Tombstoned() bool {
	return a.DeletedAt != nil
}

const idTimeLayout = "20060102T150405"

// NewArtifactID builds an ID of the form <tag>_<owner>_<timestamp>_<rand>.
// The embedded timestamp lets sweeps age a blob from its key alone, without
// a metadata lookup.
func NewArtifactID(kind Kind, ownerID string, t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s_%s", kind.Tag(), ownerID, t.UTC().Format(idTimeLayout), suffix)
}

// IDCreatedAt recovers the creation timestamp embedded in an artifact ID.
// The owner segment may itself contain underscores, so the timestamp is
// taken from the fixed tail positions.
func IDCreatedAt(id string) (time.Time, bool) {
	parts := strings.Split(id, "_")
	if len(parts) < 4 {
		return time.Time{}, false
	}
	t, err := time.Parse(idTimeLayout, parts[len(parts)-2])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// BlobKey is the object store key for an artifact: <kind>/<owner>/<id><ext>.
func BlobKey(kind Kind, ownerID, id string) string {
	return fmt.Sprintf("%s/%s/%s%s", kind, ownerID, id, kind.Ext())
}

// IDFromBlobKey recovers the artifact ID from an object store key.
func IDFromBlobKey(kind Kind, key string) string {
	return strings.TrimSuffix(path.Base(key), kind.Ext())
}
