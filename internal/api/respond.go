package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/apperr"
)

// respondError maps the error taxonomy onto HTTP. Validation and not-found
// come back with the precondition that failed; anything unrecognized is a
// backing-store failure, logged in full and surfaced generically.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "NOT_FOUND"})
	case errors.Is(err, apperr.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "ALREADY_EXISTS"})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "UNAUTHORIZED"})
	case errors.Is(err, apperr.ErrStoreUnavailable):
		logger.Error("backing store unavailable", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backing store unavailable", "code": "STORE_UNAVAILABLE"})
	default:
		logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backing store request failed", "code": "STORE_UNAVAILABLE"})
	}
}
