package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asamblea-eventos/backend/pkg/apperr"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// OKMessage sends a 200 JSON response with a confirmation message and data.
func OKMessage(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Message: msg, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// CreatedMessage sends a 201 JSON response with a confirmation message and data.
func CreatedMessage(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: msg, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Conflict sends 409.
func Conflict(c *gin.Context, err string) {
	c.JSON(http.StatusConflict, Body{Success: false, Error: err})
}

// ServiceUnavailable sends 503.
func ServiceUnavailable(c *gin.Context, err string) {
	c.JSON(http.StatusServiceUnavailable, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound, apperr.CodeNotAvailable:
		return http.StatusNotFound
	case apperr.CodeDuplicate, apperr.CodeInvalidInput:
		return http.StatusBadRequest
	case apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error sends the status and message matching err's code. Internal failures get a
// generic message; the cause is attached only when debug is set.
func Error(c *gin.Context, err error, debug bool) {
	code := apperr.CodeOf(err)
	status := StatusFor(code)
	if status == http.StatusInternalServerError {
		body := Body{Success: false, Error: "internal server error"}
		if debug {
			body.Details = err.Error()
		}
		c.JSON(status, body)
		return
	}
	c.JSON(status, Body{Success: false, Error: apperr.MessageOf(err, string(code))})
}
