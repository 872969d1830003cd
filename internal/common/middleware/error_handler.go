package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cs2-giveaway-backend/internal/common/errors"
	"cs2-giveaway-backend/internal/common/logger"
)

// ErrorHandler converts panics and handler-reported errors into the JSON
// error envelope. Handlers attach errors with c.Error and abort.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := getRequestID(c)

		logger.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("stack", string(debug.Stack())).
			Msgf("Panic recovered: %v", recovered)

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithRequestID(requestID).
			WithDetail("panic", fmt.Sprintf("%v", recovered))

		sendErrorResponse(c, appErr)
	})
}

// RequestID middleware для добавления ID запроса
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// HandleErrors drains errors attached by the handler and renders the last
// one. Must run after the handler in the chain.
func HandleErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if appErr, ok := errors.AsAppError(err); ok {
			sendErrorResponse(c, appErr)
			return
		}

		appErr := errors.Wrap(err, errors.ErrCodeInternal, "Handler error occurred").
			WithRequestID(getRequestID(c))
		sendErrorResponse(c, appErr)
	}
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestID(c)
	appErr.WithRequestID(requestID)

	statusCode := httpStatusCode(appErr)

	response := ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	}

	logError(appErr, c)

	c.Abort()
	c.JSON(statusCode, response)
}

func httpStatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGiveawayNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeStore:
		return http.StatusInternalServerError
	case errors.ErrCodeAuthCheck, errors.ErrCodeSearch, errors.ErrCodeTelegramAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func logError(appErr *errors.AppError, c *gin.Context) {
	event := logger.Error()
	switch {
	case appErr.IsValidation(), appErr.IsNotFound():
		event = logger.Info()
	case appErr.Code == errors.ErrCodeUnauthorized, appErr.Code == errors.ErrCodeForbidden:
		event = logger.Warn()
	}

	event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Err(appErr.Cause).
		Msg(appErr.Message)
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
