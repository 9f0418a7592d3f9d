package middlewares

import (
	"net/http"
	"strconv"

	"electrochem-data-api/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func userIDFromToken(accessToken, secret string) (float64, bool) {
	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	switch v := claims["user_id"].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AuthMiddleware rejects requests without a valid access_token cookie.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.LoadConfig()
		accessToken, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			c.Abort()
			return
		}

		userID, ok := userIDFromToken(accessToken, cfg.JWTSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through without a principal.
// Public dataset downloads depend on this: the access decision happens in the
// controller, not here. A present-but-invalid token is still rejected so a
// stale cookie does not silently downgrade a researcher to anonymous reads.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.LoadConfig()
		accessToken, err := c.Cookie("access_token")
		if err != nil {
			c.Next()
			return
		}

		userID, ok := userIDFromToken(accessToken, cfg.JWTSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
