package errors

import (
	"fmt"
	"time"
)

// ErrorCode classifies an application error.
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Гив-специфичные ошибки
	ErrCodeGiveawayNotFound ErrorCode = "GIVEAWAY_NOT_FOUND"

	// Ошибки внешних коллабораторов
	ErrCodeStore       ErrorCode = "STORE_ERROR"
	ErrCodeAuthCheck   ErrorCode = "AUTH_CHECK_ERROR"
	ErrCodeSearch      ErrorCode = "SEARCH_FAILED"
	ErrCodeTelegramAPI ErrorCode = "TELEGRAM_API_ERROR"
)

// AppError is the typed error every component boundary converts into.
// Raw transport errors never leave the component that produced them.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeGiveawayNotFound
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation
}

func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal || e.Code == ErrCodeStore
}

// WithDetail добавляет детальную информацию к ошибке
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID добавляет ID запроса к ошибке
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New создает новую ошибку приложения
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap оборачивает существующую ошибку
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf оборачивает существующую ошибку с форматированием
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewValidationError создает ошибку валидации
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewGiveawayNotFoundError создает ошибку "гив не найден"
func NewGiveawayNotFoundError(giveawayID string) *AppError {
	return New(ErrCodeGiveawayNotFound, fmt.Sprintf("Giveaway not found: %s", giveawayID)).
		WithDetail("giveaway_id", giveawayID)
}

// NewStoreError создает ошибку хранилища
func NewStoreError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStore, fmt.Sprintf("Store operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewAuthCheckError marks a membership check that could not be completed,
// as opposed to a confirmed "not subscribed" answer.
func NewAuthCheckError(err error) *AppError {
	return Wrap(err, ErrCodeAuthCheck, "Subscription check failed")
}

// NewSearchFailedError создает ошибку поиска по маркетплейсу. Пустой список
// результатов ошибкой не является.
func NewSearchFailedError(status int, err error) *AppError {
	return Wrap(err, ErrCodeSearch, "Marketplace search failed").
		WithDetail("status", status)
}

// NewTelegramAPIError создает ошибку Telegram API
func NewTelegramAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeTelegramAPI, fmt.Sprintf("Telegram API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewUnauthorizedError создает ошибку авторизации
func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

// NewForbiddenError создает ошибку доступа
func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason)).
		WithDetail("reason", reason)
}

// AsAppError приводит ошибку к AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
