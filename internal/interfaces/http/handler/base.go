package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appconnector "github.com/channelgrid/backend/internal/application/connector"
	"github.com/channelgrid/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError sends a 400 response listing each failed credential check
func (h *BaseHandler) ValidationError(c *gin.Context, errs []string) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Credential validation failed",
		getRequestID(c),
		errs,
	))
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleConnectorError converts connector errors to HTTP responses
func (h *BaseHandler) HandleConnectorError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, appconnector.ErrBatchTooLarge) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBatchTooLarge, err.Error())
		return
	}

	code := dto.ClassifyError(err)
	if code == dto.ErrCodeUnknown {
		h.InternalError(c, "An unexpected error occurred")
		return
	}
	h.Error(c, dto.GetHTTPStatus(code), code, err.Error())
}
