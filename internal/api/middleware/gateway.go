package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OwnerKey is the context key holding the library owner of a request.
const OwnerKey = "owner"

// GatewayAuth trusts the owner from the X-User-ID header set by the gateway
// in front of the API, which handles the actual authentication.
//
// When AUTH_MODE=gateway, the API trusts this header unconditionally.
// This should ONLY be used in the hosted environment with proper network isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"details": []string{"Missing X-User-ID header from gateway"},
			})
			c.Abort()
			return
		}

		c.Set(OwnerKey, userID)
		c.Next()
	}
}

// Owner returns the library owner of the request, or AnonymousOwner when no
// auth middleware ran.
func Owner(c *gin.Context) string {
	if owner := c.GetString(OwnerKey); owner != "" {
		return owner
	}
	return AnonymousOwner
}
