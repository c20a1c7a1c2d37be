package errors

import "fmt"

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeConfig     = "CONFIG_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeDecode     = "DECODE_ERROR"
	CodeStore      = "STORE_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeRateLimit  = "RATE_LIMIT_ERROR"
)

// Decode fault kinds, mirroring the distinct ways a catalog payload can fail
// to parse.
const (
	DecodeKindMissingKey   = "missing_key"
	DecodeKindTypeMismatch = "type_mismatch"
	DecodeKindMissingValue = "missing_value"
	DecodeKindCorrupted    = "corrupted"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

type ConfigError struct {
	*AppError
	Key string
}

func NewConfigError(message, key string) *ConfigError {
	return &ConfigError{
		AppError: &AppError{
			Message: message,
			Code:    CodeConfig,
			Context: map[string]any{
				"key": key,
			},
		},
		Key: key,
	}
}

type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// DecodeError carries the sub-kind of a JSON decode failure so callers can
// report each kind distinctly.
type DecodeError struct {
	*AppError
	Kind string
	Path string
}

func NewDecodeError(message, kind, path string, cause error) *DecodeError {
	return &DecodeError{
		AppError: &AppError{
			Message: message,
			Code:    CodeDecode,
			Context: map[string]any{
				"kind": kind,
				"path": path,
			},
			Cause: cause,
		},
		Kind: kind,
		Path: path,
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type StoreError struct {
	*AppError
	Operation string
	Key       string
}

func NewStoreError(message, operation, key string, cause error) *StoreError {
	return &StoreError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeStore,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// RateLimitError maps a server-signaled 429 plus its remaining-seconds hint.
type RateLimitError struct {
	*APIError
	RemainingSeconds int
}

func NewRateLimitError(message string, remainingSeconds int) *RateLimitError {
	return &RateLimitError{
		APIError: &APIError{
			AppError: NewAppError(message, CodeRateLimit, 429, map[string]any{
				"remaining_seconds": remainingSeconds,
			}),
		},
		RemainingSeconds: remainingSeconds,
	}
}
