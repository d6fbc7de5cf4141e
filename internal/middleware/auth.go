package middleware

import (
	"fmt"
	"net/http"

	"branchboard-core/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ServiceTokenHeader carries the optional service JWT. The Authorization
// header is reserved for the provider credential passthrough, so service
// auth uses its own header.
const ServiceTokenHeader = "X-Service-Token"

// AuthMiddleware handles optional JWT authentication for mutating routes.
// When no secret is configured the middleware is a no-op.
type AuthMiddleware struct {
	secret []byte
	issuer string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(cfg.Auth.JWTSecret),
		issuer: cfg.Auth.Issuer,
	}
}

// Enabled reports whether service auth is configured.
func (am *AuthMiddleware) Enabled() bool {
	return len(am.secret) > 0
}

// RequireAuth is a Gin middleware that requires a valid service token on
// the guarded routes. With no secret configured it passes every request.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.Enabled() {
			c.Next()
			return
		}

		token := c.GetHeader(ServiceTokenHeader)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": fmt.Sprintf("%s header is required", ServiceTokenHeader),
			})
			c.Abort()
			return
		}

		if err := am.verifyToken(token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid token",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// verifyToken parses and validates the service JWT
func (am *AuthMiddleware) verifyToken(token string) error {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		// Check the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return am.secret, nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	if !parsedToken.Valid {
		return fmt.Errorf("invalid token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid token claims")
	}

	// Verify the issuer
	issuer, err := claims.GetIssuer()
	if err != nil || issuer != am.issuer {
		return fmt.Errorf("invalid issuer")
	}

	return nil
}
