package http

import (
	"errors"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return stdhttp.StatusNotFound
	case errors.Is(err, domain.ErrFileTooLarge):
		return stdhttp.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrDimensionMismatch),
		errors.As(err, &verrs):
		return stdhttp.StatusBadRequest
	default:
		return stdhttp.StatusInternalServerError
	}
}

// fail writes the error envelope. Internal errors are logged.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= stdhttp.StatusInternalServerError {
		logger.Error(err, "%s %s failed", c.Request.Method, c.Request.URL.Path)
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// badRequest writes a 400 with a fixed message.
func badRequest(c *gin.Context, msg string) {
	c.JSON(stdhttp.StatusBadRequest, gin.H{"success": false, "error": msg})
}
