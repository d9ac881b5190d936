package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hivedesk/internal/logger"
	"hivedesk/internal/models"
	"hivedesk/internal/services"
)

// Context keys shared with the handlers package.
const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

// Authenticator resolves a bearer token to a verified account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func AuthMiddleware(auth Authenticator, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, ok := services.ExtractBearer(c.GetHeader("Authorization"))
		if !ok {
			deny(c, "Access denied. No token provided.")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrInvalidToken):
			deny(c, "Invalid token.")
			return
		case errors.Is(err, services.ErrUnauthenticated):
			deny(c, "Account not found or not verified.")
			return
		default:
			log.Error("[auth][middleware] lookup failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error."})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

func deny(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}
