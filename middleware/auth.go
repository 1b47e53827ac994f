package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"hotel-manager/services"
	"hotel-manager/utils"

	"github.com/gin-gonic/gin"
)

const tokenExpiryKey = "token_expires_at"

// RequireAuth validates the Bearer access token and puts the caller's Actor
// into the request context for the services to read.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		actor, exp, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			var perr *services.PermissionError
			if errors.As(err, &perr) {
				utils.JSONError(c, http.StatusUnauthorized, perr.Message)
				return
			}
			log.Printf("❌ authenticate: %v", err)
			utils.JSONError(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), actor))
		c.Set(tokenExpiryKey, exp)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := services.ActorFrom(c.Request.Context())
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !actor.IsAdmin {
			utils.JSONError(c, http.StatusForbidden, "admin only")
			return
		}
		c.Next()
	}
}

// TokenExpiry returns the expiry of the token that authenticated this request.
func TokenExpiry(c *gin.Context) time.Time {
	if v, ok := c.Get(tokenExpiryKey); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
