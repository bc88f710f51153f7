package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"automl-platform-service/internal/core/domain"
)

func csvWith(target string, values []string) []byte {
	var b strings.Builder
	b.WriteString("feature," + target + "\n")
	for i, v := range values {
		fmt.Fprintf(&b, "%d,%s\n", i, v)
	}
	return []byte(b.String())
}

func TestValidateDataset_ClassificationFromText(t *testing.T) {
	values := make([]string, 20)
	for i := range values {
		values[i] = []string{"cat", "dog"}[i%2]
	}

	result, err := ValidateDataset(csvWith("label", values), "label", ValidationLimits{})
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, domain.TaskClassification, result.TaskType)
	assert.Equal(t, 20, result.Rows)
	assert.Equal(t, 2, result.Columns)
}

func TestValidateDataset_ClassificationFromLowCardinalityNumbers(t *testing.T) {
	values := make([]string, 30)
	for i := range values {
		values[i] = fmt.Sprintf("%d", i%3)
	}

	result, err := ValidateDataset(csvWith("label", values), "label", ValidationLimits{})
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, domain.TaskClassification, result.TaskType)
}

func TestValidateDataset_RegressionFromContinuousTarget(t *testing.T) {
	values := make([]string, 300)
	for i := range values {
		values[i] = fmt.Sprintf("%d.%d", i, i%7)
	}

	result, err := ValidateDataset(csvWith("price", values), "price", ValidationLimits{})
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, domain.TaskRegression, result.TaskType)
}

func TestValidateDataset_MissingTargetColumn(t *testing.T) {
	values := make([]string, 20)
	for i := range values {
		values[i] = "x"
	}

	result, err := ValidateDataset(csvWith("label", values), "nonexistent", ValidationLimits{})
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `"nonexistent"`)
}

func TestValidateDataset_AllMissingTargetIsWarningOnly(t *testing.T) {
	values := make([]string, 20)
	for i := range values {
		values[i] = ""
	}

	result, err := ValidateDataset(csvWith("label", values), "label", ValidationLimits{})
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "no non-missing values")
}

func TestValidateDataset_TooFewRows(t *testing.T) {
	result, err := ValidateDataset(csvWith("label", []string{"a", "b", "c"}), "label", ValidationLimits{})
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "minimum")
}

func TestValidateDataset_TargetFreeStructuralPass(t *testing.T) {
	values := make([]string, 5)
	for i := range values {
		values[i] = "x"
	}

	result, err := ValidateDataset(csvWith("label", values), "", ValidationLimits{MinRows: 1})
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 5, result.Rows)
	assert.Empty(t, result.TaskType)
}

func TestValidateDataset_UnparseableCSV(t *testing.T) {
	_, err := ValidateDataset([]byte("a,\"unterminated\n1,2\n"), "a", ValidationLimits{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateDataset_SingleColumnRejected(t *testing.T) {
	var b strings.Builder
	b.WriteString("only\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}

	result, err := ValidateDataset([]byte(b.String()), "only", ValidationLimits{})
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "at least 2 columns")
}

func TestValidateDataset_ConstantTargetWarns(t *testing.T) {
	values := make([]string, 20)
	for i := range values {
		values[i] = "same"
	}

	result, err := ValidateDataset(csvWith("label", values), "label", ValidationLimits{})
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Contains(t, strings.Join(result.Warnings, " "), "constant")
}
