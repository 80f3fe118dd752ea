package middleware

import (
	"crypto/subtle"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-bot/internal/constants"
	apierrors "github.com/yukikurage/progress-bot/internal/errors"
	"github.com/yukikurage/progress-bot/internal/services"
)

// RequireAdmin checks that the session belongs to an admin on the current allow-list
func RequireAdmin(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(string)
		if !ok || userID == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// the allow-list may have changed since login
		admin, err := users.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			apierrors.InternalError(c, "Failed to check admin access")
			c.Abort()
			return
		}
		if !admin {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// RequireWebhookSecret rejects webhook calls without the shared secret. An empty secret
// disables the check.
func RequireWebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := c.GetHeader(constants.WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			apierrors.Unauthorized(c, "Invalid webhook secret")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}
