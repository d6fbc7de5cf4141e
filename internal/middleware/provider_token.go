package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// providerTokenKey is the context key the token is stored under.
const providerTokenKey = "provider_token"

// ProviderToken extracts the provider credential from the Authorization
// header and stores it in the request context. The token is opaque: it is
// never validated or introspected here, only passed through. An absent
// token is allowed and restricts provider calls to anonymous access.
func ProviderToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			c.Set(providerTokenKey, strings.TrimPrefix(authHeader, "Bearer "))
		}
		c.Next()
	}
}

// GetProviderToken returns the provider credential for the request, or an
// empty string when the caller supplied none.
func GetProviderToken(c *gin.Context) string {
	if token, exists := c.Get(providerTokenKey); exists {
		if s, ok := token.(string); ok {
			return s
		}
	}
	return ""
}
