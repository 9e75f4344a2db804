// Package errors provides standardized error handling for the status bot.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAPIBadStatus       ErrorCode = "API_BAD_STATUS"
	ErrCodeAPIRequestFailed   ErrorCode = "API_REQUEST_FAILED"
	ErrCodeAPIResponseInvalid ErrorCode = "API_RESPONSE_INVALID"

	ErrCodeUnexpectedStatus ErrorCode = "UNEXPECTED_HOMEWORK_STATUS"
	ErrCodeStatusMissing    ErrorCode = "HOMEWORK_STATUS_MISSING"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeAlertPublishFailed     ErrorCode = "ALERT_PUBLISH_FAILED"

	ErrCodeStateStoreFailed ErrorCode = "STATE_STORE_FAILED"

	ErrCodeConfigMissing ErrorCode = "CONFIG_MISSING"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. A *StandardError matches a sentinel with the same code.
var (
	ErrAPIBadStatus           = &StandardError{Code: ErrCodeAPIBadStatus}
	ErrAPIRequestFailed       = &StandardError{Code: ErrCodeAPIRequestFailed}
	ErrAPIResponseInvalid     = &StandardError{Code: ErrCodeAPIResponseInvalid}
	ErrUnexpectedStatus       = &StandardError{Code: ErrCodeUnexpectedStatus}
	ErrStatusMissing          = &StandardError{Code: ErrCodeStatusMissing}
	ErrNotificationSendFailed = &StandardError{Code: ErrCodeNotificationSendFailed}
	ErrAlertPublishFailed     = &StandardError{Code: ErrCodeAlertPublishFailed}
	ErrStateStoreFailed       = &StandardError{Code: ErrCodeStateStoreFailed}
	ErrConfigMissing          = &StandardError{Code: ErrCodeConfigMissing}
)

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Cause      error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying fault, if any.
func (e *StandardError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StandardError with the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAPIBadStatusError creates a retryable error for a non-200 API answer.
func NewAPIBadStatusError(endpoint string, statusCode int) *StandardError {
	return &StandardError{
		Code:       ErrCodeAPIBadStatus,
		Message:    fmt.Sprintf("Эндпоинт недоступен. Код ответа %d", statusCode),
		Details:    fmt.Sprintf("endpoint: %s", endpoint),
		Retryable:  true,
		StatusCode: statusCode,
		Timestamp:  time.Now().UTC(),
	}
}

// NewAPIRequestFailedError creates a retryable transport error.
func NewAPIRequestFailedError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPIRequestFailed,
		Message:   fmt.Sprintf("Во время запроса произошла ошибка %v", err),
		Details:   fmt.Sprintf("endpoint: %s", endpoint),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewAPIResponseInvalidError creates an error for a body that is not the documented shape.
func NewAPIResponseInvalidError(details string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPIResponseInvalid,
		Message:   "Ответ API не соответствует ожидаемому формату",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewUnexpectedStatusError creates an error for an undocumented homework status.
func NewUnexpectedStatusError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpectedStatus,
		Message:   fmt.Sprintf("Обнаружен недокументированный статус домашней работы: %s", status),
		Retryable: false,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewStatusMissingError creates an error for a submission without a status field.
func NewStatusMissingError() *StandardError {
	return &StandardError{
		Code:      ErrCodeStatusMissing,
		Message:   "Не получено значение статуса домашней работы",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Не удалось отправить сообщение",
		Details:   fmt.Sprintf("channel: %s, error: %v", channel, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewAlertPublishFailedError creates a retryable operator alert error.
func NewAlertPublishFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlertPublishFailed,
		Message:   "Не удалось опубликовать оповещение",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewStateStoreFailedError creates a retryable state store error.
func NewStateStoreFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStateStoreFailed,
		Message:   "Ошибка хранилища состояния",
		Details:   fmt.Sprintf("op: %s, error: %v", op, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewConfigMissingError creates a fatal error naming the absent setting.
func NewConfigMissingError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigMissing,
		Message:   fmt.Sprintf("Отсутствует %s", name),
		Retryable: false,
		Metadata:  map[string]interface{}{"variable": name},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Непредвиденная ошибка",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// CodeOf returns the error code of err, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return Normalize(err).Code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeAPIBadStatus, ErrCodeAPIRequestFailed, ErrCodeAPIResponseInvalid:
		return "STATUS_API"
	case ErrCodeUnexpectedStatus, ErrCodeStatusMissing:
		return "HOMEWORK_DATA"
	case ErrCodeNotificationSendFailed, ErrCodeAlertPublishFailed:
		return "DELIVERY"
	case ErrCodeStateStoreFailed:
		return "STATE"
	case ErrCodeConfigMissing:
		return "CONFIGURATION"
	default:
		return "UNKNOWN"
	}
}
