package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError_Retries(t *testing.T) {
	cause := stderrors.New("boom")

	tests := []struct {
		name    string
		err     *StandardError
		code    string
		retries int
	}{
		{"generation failure is never retried", NewGenerationFailedError("b-1", cause), "GENERATION_FAILED", 0},
		{"store failure retried", NewMatrixStoreFailedError("get", "b-1", cause), "MATRIX_STORE_FAILED", 3},
		{"composition retried once", NewCompositionFailedError(cause), "COMPOSITION_FAILED", 1},
		{"schema invalid not retried", NewSchemaInvalidError("compose-template", []string{"a", "b"}), "SCHEMA_INVALID", 0},
		{"not found not retried", NewMatrixNotFoundError("b-1"), "MATRIX_NOT_FOUND", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.code, bpmn.Code)
			assert.Equal(t, tt.retries, bpmn.Retries)
			assert.Equal(t, tt.code, bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_MetadataBecomesVariables(t *testing.T) {
	bpmn := ConvertToBPMNError(NewGenerationFailedError("brand-9", stderrors.New("bad shape")))

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "brand-9", vars["brandId"])
	assert.Equal(t, "GENERATION_FAILED", vars["errorCode"])
	assert.Equal(t, false, vars["retryable"])
}

func TestStandardError_Unwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := fmt.Errorf("wrapped: %w", NewMatrixStoreFailedError("put", "b-1", sentinel))

	assert.True(t, stderrors.Is(err, sentinel))
	stdErr, ok := AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeMatrixStoreFailed, stdErr.Code)
}

func TestNormalize_PlainError(t *testing.T) {
	stdErr := Normalize(stderrors.New("raw"))
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), stdErr.Code)
	assert.Equal(t, "raw", stdErr.Details)
	assert.False(t, stdErr.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "GENERATION", GetErrorCategory(ErrCodeGenerationTimeout))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeMatrixNotFound))
	assert.Equal(t, "COMPOSITION", GetErrorCategory(ErrCodeSectionQueryFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeSchemaInvalid))
	assert.Equal(t, "OTHER", GetErrorCategory("EXTERNAL_SERVICE_ERROR"))
	assert.True(t, IsRetryableErrorCode(ErrCodeMatrixStoreFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeGenerationFailed))
}
