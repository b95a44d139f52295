package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NewAppError(ErrorTypeValidation, "VALIDATION_ERROR", "bad input")
	assert.Equal(t, "VALIDATION_ERROR: bad input", err.Error())

	err = err.WithDetails("field x is empty")
	assert.Equal(t, "VALIDATION_ERROR: bad input - field x is empty", err.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewStoreUnavailableError("record_decision", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "connection refused", err.Details)
}

func TestDefaultHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeRateLimit, http.StatusTooManyRequests},
		{ErrorTypeInternal, http.StatusInternalServerError},
		{ErrorTypeDatabase, http.StatusInternalServerError},
		{ErrorTypeCache, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			err := NewAppError(tt.errorType, "CODE", "message")
			assert.Equal(t, tt.want, err.HTTPStatus)
		})
	}
}

func TestConstructors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		err := NewValidationError("limit", "limit must be positive")
		assert.Equal(t, ErrorTypeValidation, err.Type)
		assert.Equal(t, "VALIDATION_ERROR", err.Code)
		assert.Equal(t, "limit", err.Metadata["field"])
	})

	t.Run("invalid decision", func(t *testing.T) {
		err := NewInvalidDecisionError("cannot swipe on yourself")
		assert.Equal(t, ErrorTypeValidation, err.Type)
		assert.Equal(t, "INVALID_DECISION", err.Code)
		assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	})

	t.Run("not found", func(t *testing.T) {
		err := NewNotFoundError("match")
		assert.Equal(t, ErrorTypeNotFound, err.Type)
		assert.Equal(t, "match not found", err.Message)
		assert.Equal(t, "match", err.Metadata["resource"])
	})

	t.Run("conflict", func(t *testing.T) {
		err := NewConflictError("match is not accepted")
		assert.Equal(t, ErrorTypeConflict, err.Type)
		assert.Equal(t, http.StatusConflict, err.HTTPStatus)
	})

	t.Run("store unavailable", func(t *testing.T) {
		cause := fmt.Errorf("timeout")
		err := NewStoreUnavailableError("create_match", cause)
		assert.Equal(t, ErrorTypeDatabase, err.Type)
		assert.Equal(t, "STORE_UNAVAILABLE", err.Code)
		assert.Equal(t, "create_match", err.Metadata["operation"])
		assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	})

	t.Run("cache", func(t *testing.T) {
		err := NewCacheError("get_pool", fmt.Errorf("dial tcp"))
		assert.Equal(t, ErrorTypeCache, err.Type)
		assert.Equal(t, "get_pool", err.Metadata["operation"])
	})
}

func TestBuilders(t *testing.T) {
	err := NewConflictError("duplicate").
		WithCorrelationID("corr-123").
		WithMetadata("match_id", "m1").
		WithHTTPStatus(http.StatusForbidden)

	assert.Equal(t, "corr-123", err.CorrelationID)
	assert.Equal(t, "m1", err.Metadata["match_id"])
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus)
}

func TestIsErrorType(t *testing.T) {
	appErr := NewNotFoundError("match")

	assert.True(t, IsErrorType(appErr, ErrorTypeNotFound))
	assert.False(t, IsErrorType(appErr, ErrorTypeValidation))
	assert.False(t, IsErrorType(fmt.Errorf("plain"), ErrorTypeNotFound))

	errType, ok := GetErrorType(appErr)
	assert.True(t, ok)
	assert.Equal(t, ErrorTypeNotFound, errType)

	_, ok = GetErrorType(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestToJSON(t *testing.T) {
	raw, err := NewInvalidDecisionError("unknown swipe action").
		WithCorrelationID("corr-1").
		ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "validation", decoded["type"])
	assert.Equal(t, "INVALID_DECISION", decoded["code"])
	assert.Equal(t, "corr-1", decoded["correlation_id"])
	// Cause and HTTPStatus never leak into the wire shape.
	assert.NotContains(t, decoded, "Cause")
	assert.NotContains(t, decoded, "HTTPStatus")
}
