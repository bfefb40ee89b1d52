package response

import (
	"errors"
	"net/http"

	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// SuccessPage answers with the page items as data and the counters as meta.
func SuccessPage[T any](c *gin.Context, message string, page pagination.Page[T]) {
	SuccessWithMeta(c, http.StatusOK, message, page.Items, &Meta{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError answers with the status and code matching the error kind.
// Storage failures are logged with their cause and reported generically.
func FromError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	code := apperror.Code(err)

	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		ErrorWithDetails(c, status, code, verr.Error(), gin.H{"field": verr.Field})
		return
	}

	var serr *apperror.StorageError
	if errors.As(err, &serr) && serr.Conflict {
		ErrorResponse(c, status, code, serr.Reason)
		return
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		})
		ErrorResponse(c, status, code, "internal server error")
		return
	}

	ErrorResponse(c, status, code, err.Error())
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message)
}

func TooManyRequests(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}
