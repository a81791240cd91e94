// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeMatrixStoreFailed ErrorCode = "MATRIX_STORE_FAILED"
	ErrCodeMatrixNotFound    ErrorCode = "MATRIX_NOT_FOUND"

	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeSchemaInvalid      ErrorCode = "SCHEMA_INVALID"
	ErrCodeCompositionFailed  ErrorCode = "COMPOSITION_FAILED"
	ErrCodeSectionQueryFailed ErrorCode = "SECTION_QUERY_FAILED"
	ErrCodePolicyLoadFailed   ErrorCode = "POLICY_LOAD_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is keeps working on sentinels.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewGenerationFailedError is raised when the text-generation backend is
// unreachable or returns a matrix of the wrong shape. Never retried.
func NewGenerationFailedError(brandID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Content matrix generation failed",
		Details:   fmt.Sprintf("brandId: %s, error: %s", brandID, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"brandId": brandID},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewGenerationTimeoutError reports that the caller-imposed deadline expired
// while waiting on the backend.
func NewGenerationTimeoutError(brandID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Content matrix generation timed out",
		Details:   fmt.Sprintf("brandId: %s, error: %s", brandID, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"brandId": brandID},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMatrixStoreFailedError creates a retryable persistence error.
func NewMatrixStoreFailedError(operation, brandID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatrixStoreFailed,
		Message:   "Content matrix store error",
		Details:   fmt.Sprintf("operation: %s, brandId: %s, error: %s", operation, brandID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMatrixNotFoundError is returned when a resolve job references a brand
// without a stored matrix.
func NewMatrixNotFoundError(brandID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatrixNotFound,
		Message:   "No content matrix stored for brand",
		Details:   fmt.Sprintf("brandId: %s", brandID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid job input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaInvalidError reports job variables that do not match the activity
// input schema.
func NewSchemaInvalidError(taskType string, violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaInvalid,
		Message:   "Job variables failed schema validation",
		Details:   fmt.Sprintf("taskType: %s, violations: %s", taskType, strings.Join(violations, "; ")),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompositionFailedError wraps the rare fatal composition error
// (a cancelled context).
func NewCompositionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompositionFailed,
		Message:   "Template composition failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSectionQueryFailedError creates a retryable section query error.
func NewSectionQueryFailedError(category string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSectionQueryFailed,
		Message:   "Section candidate query failed",
		Details:   fmt.Sprintf("category: %s, error: %s", category, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewPolicyLoadFailedError is raised at startup when a policy file is unusable.
func NewPolicyLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePolicyLoadFailed,
		Message:   "Composition policy could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended Camunda retry count for a code.
// Generation codes get no retries.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeMatrixStoreFailed,
		ErrCodeSectionQueryFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3

	case ErrCodeCompositionFailed,
		"TIMEOUT_ERROR":
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// AsStandardError unwraps err to a *StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "GENERATION"):
		return "GENERATION"
	case strings.HasPrefix(codeStr, "MATRIX"):
		return "STORAGE"
	case strings.Contains(codeStr, "SECTION") || strings.Contains(codeStr, "COMPOSITION") || strings.Contains(codeStr, "POLICY"):
		return "COMPOSITION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "SCHEMA"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
