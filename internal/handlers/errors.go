package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/services"
)

// respondError maps the service layer's typed errors onto HTTP statuses.
// Anything untyped is a 500.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var conflictErr *services.ConflictError
	var expiredErr *services.ExpiredError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(400, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(404, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(409, gin.H{"error": conflictErr.Error()})
	case errors.As(err, &expiredErr):
		c.JSON(409, gin.H{"error": expiredErr.Error()})
	default:
		c.JSON(500, gin.H{"error": err.Error()})
	}
}

// pathID parses the :id (or named) path parameter. Responds 400 and returns
// false when the value is not a positive integer.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}
