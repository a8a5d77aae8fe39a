// Package errors provides standardized error handling for the site services and HTTP API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	ErrCodeWebhookTimeout       ErrorCode = "WEBHOOK_TIMEOUT"
	ErrCodeWebhookRequestFailed ErrorCode = "WEBHOOK_REQUEST_FAILED"
	ErrCodeWebhookStatus        ErrorCode = "WEBHOOK_STATUS_ERROR"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRatingLocked     ErrorCode = "RATING_LOCKED"
	ErrCodeInvalidState     ErrorCode = "INVALID_STATE"
	ErrCodeNotFound         ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeFeatureDisabled  ErrorCode = "FEATURE_DISABLED"

	ErrCodeImageGenerationFailed ErrorCode = "IMAGE_GENERATION_FAILED"
	ErrCodeExportFailed          ErrorCode = "EXPORT_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodePersistenceFailed      ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError reports a missing or invalid server setting.
func NewConfigurationError(details string) *StandardError {
	return newError(ErrCodeConfiguration, "Server configuration error", details, false)
}

// NewWebhookTimeoutError creates a retryable webhook timeout error.
func NewWebhookTimeoutError(timeout time.Duration) *StandardError {
	return newError(ErrCodeWebhookTimeout, "Webhook request timed out",
		fmt.Sprintf("timeout: %s", timeout), true)
}

// NewWebhookRequestFailedError creates a retryable transport error.
func NewWebhookRequestFailedError(err error) *StandardError {
	return newError(ErrCodeWebhookRequestFailed, "Webhook request failed", err.Error(), true)
}

// NewWebhookStatusError records a non-2xx webhook response.
func NewWebhookStatusError(status int, body string) *StandardError {
	e := newError(ErrCodeWebhookStatus, "Webhook returned an error status",
		fmt.Sprintf("status: %d, body: %s", status, body), status >= 500)
	e.Metadata = map[string]interface{}{"status": status}
	return e
}

// NewValidationError creates a non-retryable validation error.
func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Validation failed", details, false)
}

// NewRatingLockedError is returned when a second rating is attempted.
func NewRatingLockedError(rating int) *StandardError {
	return newError(ErrCodeRatingLocked, "Rating already submitted",
		fmt.Sprintf("locked rating: %d", rating), false)
}

// NewInvalidStateError reports an operation attempted in the wrong state.
func NewInvalidStateError(state, operation string) *StandardError {
	return newError(ErrCodeInvalidState, "Operation not allowed in current state",
		fmt.Sprintf("state: %s, operation: %s", state, operation), false)
}

func NewResourceNotFoundError(resource, details string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), details, false)
}

func NewFeatureDisabledError(feature string) *StandardError {
	return newError(ErrCodeFeatureDisabled, "Feature is disabled", fmt.Sprintf("feature: %s", feature), false)
}

func NewImageGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeImageGenerationFailed, "Image generation failed", err.Error(), true)
}

func NewExportFailedError(action string, err error) *StandardError {
	return newError(ErrCodeExportFailed, "Export failed",
		fmt.Sprintf("action: %s, error: %s", action, err.Error()), false)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true)
}

// NewPersistenceFailedError wraps storage backend failures.
func NewPersistenceFailedError(operation string, err error) *StandardError {
	return newError(ErrCodePersistenceFailed, "Config persistence failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewRateLimitedError() *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests", "", true)
}

func NewUnauthorizedError(details string) *StandardError {
	return newError(ErrCodeUnauthorized, "Unauthorized", details, false)
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err into a StandardError when it is one.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeRatingLocked, ErrCodeInvalidState:
		return http.StatusConflict
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeFeatureDisabled:
		return http.StatusForbidden
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeWebhookTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeWebhookRequestFailed, ErrCodeWebhookStatus, ErrCodeImageGenerationFailed,
		ErrCodeNotificationSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "WEBHOOK"):
		return "WEBHOOK"
	case strings.Contains(codeStr, "CONFIGURATION"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "PERSISTENCE"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "IMAGE") || strings.Contains(codeStr, "EXPORT"):
		return "SITE"
	case strings.Contains(codeStr, "RATING") || strings.Contains(codeStr, "STATE"):
		return "REPUTATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
