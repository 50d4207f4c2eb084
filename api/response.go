package api

import (
	"net/http"

	"teamspend/service"

	"github.com/gin-gonic/gin"
)

// Response is the envelope for every JSON reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage sends a 200 with a message and optional data.
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response with the given status.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict sends a 409.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError sends a 500.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FromError maps a domain error onto its HTTP status: permission 403,
// unauthorized 401, conflict 409, not-found and invalid-argument 404.
// Anything unclassified becomes a 500 with a safe message.
func FromError(c *gin.Context, err error, fallback string) {
	switch service.KindOf(err) {
	case service.KindPermission:
		Forbidden(c, err.Error())
	case service.KindUnauthorized:
		Unauthorized(c, err.Error())
	case service.KindConflict:
		Conflict(c, err.Error())
	case service.KindNotFound, service.KindInvalid:
		NotFound(c, err.Error())
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
