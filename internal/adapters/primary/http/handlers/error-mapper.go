package handlers

import (
	"errors"
	"net/http"

	"automl-platform-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors. Ownership violations arrive already converted to
	// ErrNotFound by the services.
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConfirmRequired),
		errors.Is(err, domain.ErrInvalidOwnerID),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrBrokenReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrSweepInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Upstream engine failures
	case errors.Is(err, domain.ErrEngine):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	// Backing store failures
	case errors.Is(err, domain.ErrStorage):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
