package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/buildsense/internal/domain"
)

// Status maps a domain error onto an HTTP status code
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoDocument),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrUnsupportedFileType),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrDriveNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrRequestInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrDriveNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error body and aborts the chain
func Error(c *gin.Context, err error) {
	c.AbortWithStatusJSON(Status(err), gin.H{"error": err.Error()})
}
