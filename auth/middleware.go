// Package auth provides Gin middleware for enforcing session-cookie auth.
package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// MiddlewareConfig controls auth enforcement behavior.
type MiddlewareConfig struct {
	// Optional lets requests without a valid session through as anonymous
	// instead of rejecting them.
	Optional bool
}

// Middleware resolves the session cookie and injects the owning email into
// the request context. Handlers re-fetch the live user record from the
// ledger; the session carries nothing but the email.
func Middleware(sessions *Sessions, cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			if cfg.Optional {
				c.Next()
				return
			}
			respondUnauthorized(c, "missing session")
			return
		}

		email, ok, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Printf("auth failure: session lookup path=%s err=%v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "session lookup failed",
			})
			return
		}
		if !ok {
			if cfg.Optional {
				c.Next()
				return
			}
			log.Printf("auth failure: invalid session path=%s", c.Request.URL.Path)
			respondUnauthorized(c, "invalid or expired session")
			return
		}

		ctx := WithEmail(c.Request.Context(), email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   message,
	})
}
