package routes

import (
	"armory/internal/container"
	"armory/internal/middleware"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes wires the endpoints reachable without a token.
func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
}

// RegisterProtectedRoutes wires every feature surface behind the JWT
// middleware.
func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protected := router.Group("")
	protected.Use(security.JWTMiddleware())

	c.BaseHandler.RegisterRoutes(protected)
	c.EquipmentHandler.RegisterRoutes(protected)
	c.AssetHandler.RegisterRoutes(protected)
	c.PurchaseHandler.RegisterRoutes(protected)
	c.TransferHandler.RegisterRoutes(protected)
	c.AssignmentHandler.RegisterRoutes(protected)
	c.ExpenditureHandler.RegisterRoutes(protected)
	c.UserHandler.RegisterRoutes(protected)
	c.AuditLogHandler.RegisterRoutes(protected)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
