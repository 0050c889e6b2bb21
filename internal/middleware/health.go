package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HealthCheckMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
