// Package errors provides standardized error handling for BPMN workflow integration
// and the HTTP boundary.
package errors

import (
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
	ErrCodeConfiguration    ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeUnknownTaskKind  ErrorCode = "UNKNOWN_TASK_KIND"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeQueryRequired    ErrorCode = "QUERY_REQUIRED"
	ErrCodeMessageRequired  ErrorCode = "MESSAGE_REQUIRED"
	ErrCodeInputParsing     ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeBackendUnavailable ErrorCode = "LLM_BACKEND_UNAVAILABLE"
	ErrCodeBackendRejected    ErrorCode = "LLM_BACKEND_REJECTED"
	ErrCodeBackendMalformed   ErrorCode = "LLM_BACKEND_MALFORMED"
	ErrCodeDispatchFailed     ErrorCode = "LLM_DISPATCH_FAILED"

	ErrCodeKnowledgeSourceFailed ErrorCode = "KNOWLEDGE_SOURCE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// IsValidation reports whether the error was caused by the caller's request
// rather than by a backend or the process.
func (e *StandardError) IsValidation() bool {
	return GetErrorCategory(e.Code) == "VALIDATION"
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

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewConfigurationError reports that no backend credentials are configured.
func NewConfigurationError(details string) *StandardError {
	return newError(ErrCodeConfiguration,
		"No AI API key configured. Set OLLAMA_API_KEY or OPENAI_API_KEY",
		details, false, nil)
}

func NewUnknownTaskKindError(kind string) *StandardError {
	se := newError(ErrCodeUnknownTaskKind, "Unknown agent type", kind, false, nil)
	se.Metadata = map[string]interface{}{"agentType": kind}
	return se
}

func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid request", details, false, nil)
}

func NewQueryRequiredError() *StandardError {
	return newError(ErrCodeQueryRequired, "Query is required", "", false, nil)
}

func NewMessageRequiredError() *StandardError {
	return newError(ErrCodeMessageRequired, "Message is required", "", false, nil)
}

func NewInputParsingError(err error) *StandardError {
	return newError(ErrCodeInputParsing, "Failed to parse job variables", detailsOf(err), false, err)
}

func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false, nil)
}

// NewBackendUnavailableError covers transport failures on the last attempt.
func NewBackendUnavailableError(err error) *StandardError {
	return newError(ErrCodeBackendUnavailable, "LLM backend unreachable", detailsOf(err), false, err)
}

// NewBackendRejectedError covers non-success statuses from the hosted backend.
func NewBackendRejectedError(err error) *StandardError {
	return newError(ErrCodeBackendRejected, "LLM backend rejected the request", detailsOf(err), false, err)
}

func NewBackendMalformedError(err error) *StandardError {
	return newError(ErrCodeBackendMalformed, "LLM backend returned an unexpected body", detailsOf(err), false, err)
}

func NewDispatchFailedError(err error) *StandardError {
	return newError(ErrCodeDispatchFailed, "Agent task failed", detailsOf(err), false, err)
}

func NewKnowledgeSourceError(source string, err error) *StandardError {
	se := newError(ErrCodeKnowledgeSourceFailed, "Knowledge source unavailable", detailsOf(err), true, err)
	se.Metadata = map[string]interface{}{"source": source}
	return se
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", detailsOf(err), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeConfiguration:         "CONFIGURATION_ERROR",
	ErrCodeUnknownTaskKind:       "UNKNOWN_TASK_KIND",
	ErrCodeInvalidRequest:        "INVALID_REQUEST",
	ErrCodeQueryRequired:         "INVALID_REQUEST",
	ErrCodeMessageRequired:       "INVALID_REQUEST",
	ErrCodeInputParsing:          "INVALID_REQUEST",
	ErrCodeValidationFailed:      "INVALID_REQUEST",
	ErrCodeBackendUnavailable:    "LLM_DISPATCH_FAILED",
	ErrCodeBackendRejected:       "LLM_DISPATCH_FAILED",
	ErrCodeBackendMalformed:      "LLM_DISPATCH_FAILED",
	ErrCodeDispatchFailed:        "LLM_DISPATCH_FAILED",
	ErrCodeKnowledgeSourceFailed: "KNOWLEDGE_SOURCE_FAILED",
}

// GetRetryCount returns the job retry budget for a code. Dispatch errors get
// none: the gateway already spent its single fallback hop.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeKnowledgeSourceFailed:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case code == ErrCodeConfiguration:
		return "CONFIGURATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") ||
		strings.Contains(codeStr, "UNKNOWN") || strings.Contains(codeStr, "REQUIRED") ||
		strings.Contains(codeStr, "PARSING"):
		return "VALIDATION"
	case strings.HasPrefix(codeStr, "LLM_"):
		return "AI"
	case strings.Contains(codeStr, "KNOWLEDGE"):
		return "SEARCH"
	default:
		return "OTHER"
	}
}
