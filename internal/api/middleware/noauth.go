package middleware

import (
	"github.com/gin-gonic/gin"
)

// AnonymousOwner owns every library when AUTH_MODE=none.
const AnonymousOwner = "anonymous"

// NoAuth is a pass-through middleware for when AUTH_MODE=none.
// All requests share the anonymous library.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(OwnerKey, AnonymousOwner)
		c.Next()
	}
}
