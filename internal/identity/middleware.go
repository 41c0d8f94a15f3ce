package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKey = "amaken-identity"

// SessionMiddleware authenticates requests with a bearer token and puts
// the resolved identity into the request context.
func SessionMiddleware(resolver *SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "a bearer token is required"})
			return
		}

		ident, err := resolver.Resolve(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(contextKey, ident)
		c.Next()
	}
}

// FromContext returns the identity stored by SessionMiddleware.
func FromContext(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(contextKey)
	if !exists {
		return Identity{}, false
	}

	ident, ok := value.(Identity)
	return ident, ok
}
