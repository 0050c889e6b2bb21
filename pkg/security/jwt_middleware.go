package security

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"armory/pkg/auditlog"
	"armory/pkg/roles"
	"armory/pkg/scope"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware validates the bearer token and places the identity trio
// in the request context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return secretKey(), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Set("userID", claims["userID"])
		c.Set("role", claims["role"])
		if baseID, found := claims["baseID"]; found {
			c.Set("baseID", baseID)
		}
		c.Next()
	}
}

// Authorize allows the request through when the caller's role is one of
// the listed roles.
func Authorize(allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}

		roleString, ok := roleValue.(string)
		if !ok || !roles.Role(roleString).OneOf(allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// ActorFromContext rebuilds the scoping actor from the claims set by
// JWTMiddleware.
func ActorFromContext(c *gin.Context) (scope.Actor, error) {
	userValue, ok := c.Get("userID")
	if !ok {
		return scope.Actor{}, fmt.Errorf("userID missing from context")
	}
	userString, ok := userValue.(string)
	if !ok {
		return scope.Actor{}, fmt.Errorf("userID is not a string")
	}
	userID, err := strconv.Atoi(userString)
	if err != nil {
		return scope.Actor{}, fmt.Errorf("invalid userID claim: %w", err)
	}

	roleValue, ok := c.Get("role")
	if !ok {
		return scope.Actor{}, fmt.Errorf("role missing from context")
	}
	roleString, ok := roleValue.(string)
	if !ok || !roles.Role(roleString).IsValid() {
		return scope.Actor{}, fmt.Errorf("invalid role claim")
	}

	actor := scope.Actor{
		UserID: userID,
		Role:   roles.Role(roleString),
	}

	if baseValue, found := c.Get("baseID"); found {
		if baseString, isString := baseValue.(string); isString {
			if baseID, convErr := strconv.Atoi(baseString); convErr == nil {
				actor.BaseID = &baseID
			}
		}
	}

	return actor, nil
}

// AuditActorFromContext builds the context bundle every write handler
// hands to the audit recorder.
func AuditActorFromContext(c *gin.Context, actor scope.Actor) *auditlog.Actor {
	userID := actor.UserID
	return &auditlog.Actor{
		UserID:    &userID,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
