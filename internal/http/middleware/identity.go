// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file binds the trust boundary with the identity collaborator: user
// authentication happens upstream (gateway / auth service), which forwards
// the verified identity in X-User-ID and X-User-Role. The core trusts these
// headers completely and performs no credential checks of its own.
package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ctxKeyUserID is the Gin context key carrying the verified user id.
	ctxKeyUserID = "userID"
	// ctxKeyUserRole is the Gin context key carrying the verified role.
	ctxKeyUserRole = "userRole"

	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// usernameRE constrains identifiers to characters that cannot collide with
// the conversation-key separator. Keys are parsed by splitting on "-", so a
// "-" inside a username would corrupt membership tests.
var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// Identity extracts the pre-verified user identity from request headers and
// stores it in the Gin context. Requests without a valid X-User-ID are
// rejected with 401; the header being present is the upstream gateway's
// assertion that authentication succeeded.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(headerUserID))
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "missing user identity",
			})
			return
		}
		if !usernameRE.MatchString(uid) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "invalid user identity",
			})
			return
		}
		c.Set(ctxKeyUserID, uid)
		if role := strings.TrimSpace(c.GetHeader(headerUserRole)); role != "" {
			c.Set(ctxKeyUserRole, role)
		}
		c.Next()
	}
}

// UserID returns the verified user id stored by Identity, or "".
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserRole returns the verified role stored by Identity, or "".
func UserRole(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ValidUsername reports whether s is acceptable as a participant identifier.
// Exposed for handlers validating recipient specifications.
func ValidUsername(s string) bool { return usernameRE.MatchString(s) }
