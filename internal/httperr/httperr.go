package httperr

import (
	"net/http"

	"armory/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Respond maps a taxonomy error to its transport status code. Anything
// outside the taxonomy is a 500 with the detail attached.
func Respond(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsAccessDenied(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
	}
}

// MethodNotAllowed rejects write verbs on read-only surfaces.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
