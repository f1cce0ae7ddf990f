package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/server/auth"
)

// ownerKey is the gin context key the verified owner id is stored under.
const ownerKey = "owner_id"

// RequireOwner validates the bearer token and binds the request to the
// owner it was issued for. If the client also sent the expected-owner
// header, a mismatch is rejected before any handler runs.
func RequireOwner(secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			return
		}

		owner, err := auth.OwnerFromToken(token, secretKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": common.ErrInvalidToken.Error()})
			return
		}

		if expected := c.GetHeader(common.OwnerHeaderName); expected != "" && expected != owner {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "owner mismatch"})
			return
		}

		c.Set(ownerKey, owner)
		c.Next()
	}
}

// extractToken pulls the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearer := c.GetHeader("Authorization")
	if strings.HasPrefix(bearer, "Bearer ") {
		return bearer[len("Bearer "):]
	}
	return ""
}
