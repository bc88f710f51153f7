package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"automl-platform-service/internal/core/domain"
)

// ValidationLimits bound accepted datasets. Zero values fall back to the
// defaults below.
type ValidationLimits struct {
	MaxRows    int
	MaxColumns int
	MinRows    int
}

const (
	defaultMaxRows    = 5000
	defaultMaxColumns = 50
	defaultMinRows    = 10

	// Numeric targets with at most this many distinct values, or with a
	// distinct ratio under 10%, are treated as classification.
	classificationMaxDistinct = 20
)

func (l ValidationLimits) withDefaults() ValidationLimits {
	if l.MaxRows <= 0 {
		l.MaxRows = defaultMaxRows
	}
	if l.MaxColumns <= 0 {
		l.MaxColumns = defaultMaxColumns
	}
	if l.MinRows <= 0 {
		l.MinRows = defaultMinRows
	}
	return l
}

// ValidateDataset checks an uploaded CSV against a requested target column:
// the column must exist, the row count must clear the minimum, and the
// target's cardinality determines the inferred task type. Data-quality
// findings are reported inside the result; only unparseable input returns
// an error.
func ValidateDataset(data []byte, targetColumn string, limits ValidationLimits) (*domain.ValidationResult, error) {
	limits = limits.withDefaults()

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable CSV: %v", domain.ErrValidation, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: CSV file is empty", domain.ErrValidation)
	}

	header := records[0]
	rows := records[1:]
	result := &domain.ValidationResult{
		Valid:    true,
		Rows:     len(rows),
		Columns:  len(header),
		Warnings: []string{},
		Errors:   []string{},
	}

	if len(header) < 2 {
		result.AddError("dataset must have at least 2 columns")
	}
	if len(header) > limits.MaxColumns {
		result.AddError(fmt.Sprintf("dataset has %d columns, maximum is %d", len(header), limits.MaxColumns))
	}
	if len(rows) < limits.MinRows {
		result.AddError(fmt.Sprintf("dataset has %d rows, minimum is %d", len(rows), limits.MinRows))
	}
	if len(rows) > limits.MaxRows {
		result.AddError(fmt.Sprintf("dataset has %d rows, maximum is %d", len(rows), limits.MaxRows))
	}

	// A target-free pass only checks structure (used by report generation).
	if targetColumn == "" {
		return result, nil
	}

	targetIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == targetColumn {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		result.AddError(fmt.Sprintf("target column %q not found in dataset", targetColumn))
		return result, nil
	}

	values := make([]string, 0, len(rows))
	missing := 0
	for _, row := range rows {
		if targetIdx >= len(row) {
			missing++
			continue
		}
		v := strings.TrimSpace(row[targetIdx])
		if v == "" {
			missing++
			continue
		}
		values = append(values, v)
	}

	if len(rows) > 0 && missing == len(rows) {
		result.AddWarning(fmt.Sprintf("target column %q has no non-missing values; rows with missing targets are dropped before training", targetColumn))
		return result, nil
	}
	if missing > 0 {
		result.AddWarning(fmt.Sprintf("target column %q has %d missing values that will be dropped", targetColumn, missing))
	}

	result.TaskType = inferTaskType(values)
	distinct := distinctCount(values)
	if distinct == 1 {
		result.AddWarning(fmt.Sprintf("target column %q is constant", targetColumn))
	}
	if result.TaskType == domain.TaskClassification && distinct > classificationMaxDistinct {
		result.AddWarning(fmt.Sprintf("target column %q has %d classes; training may be slow", targetColumn, distinct))
	}

	return result, nil
}

func inferTaskType(values []string) domain.TaskType {
	numeric := true
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
			break
		}
	}
	if !numeric {
		return domain.TaskClassification
	}

	distinct := distinctCount(values)
	if distinct <= classificationMaxDistinct || (len(values) > 0 && float64(distinct)/float64(len(values)) < 0.1) {
		return domain.TaskClassification
	}
	return domain.TaskRegression
}

func distinctCount(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
