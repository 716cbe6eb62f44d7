package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"configuration", NewConfigurationError("no keys"), "CONFIGURATION_ERROR", 0},
		{"unknown kind", NewUnknownTaskKindError("poem"), "UNKNOWN_TASK_KIND", 0},
		{"query required", NewQueryRequiredError(), "INVALID_REQUEST", 0},
		{"rejected", NewBackendRejectedError(fmt.Errorf("status 401")), "LLM_DISPATCH_FAILED", 0},
		{"knowledge source", NewKnowledgeSourceError("redis", fmt.Errorf("dial tcp")), "KNOWLEDGE_SOURCE_FAILED", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
			assert.Equal(t, tt.wantCode, vars["errorCode"])
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeConfiguration))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeUnknownTaskKind))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeQueryRequired))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParsing))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeBackendUnavailable))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeKnowledgeSourceFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestStandardError_Wrapping(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := fmt.Errorf("dispatch: %w", NewBackendUnavailableError(cause))

	stdErr := Normalize(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeBackendUnavailable, stdErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.False(t, stdErr.IsValidation())
	assert.Equal(t, "StandardError[LLM_BACKEND_UNAVAILABLE]: LLM backend unreachable", stdErr.Error())
}

func TestNormalize_UnknownError(t *testing.T) {
	stdErr := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "boom", stdErr.Details)
	assert.False(t, IsRetryableErrorCode(stdErr.Code))
}
