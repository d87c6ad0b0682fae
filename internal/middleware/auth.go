package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

// JWTSecret returns the HMAC key session tokens are signed and verified
// with. Panics on first use when JWT_SECRET is unset.
func JWTSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// Claims is the session token payload. Minting (login) and verification
// (this middleware) share this one definition.
type Claims struct {
	AccountID int64  `json:"accountId"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves the caller's account from the session token. The
// token is read from the "token" HTTP-only cookie or, failing that, from an
// Authorization: Bearer header. Only signature and expiry are verified here;
// the token store is bookkeeping, not an authorisation source.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Access denied. No token provided.",
			})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			return JWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("accountId", claims.AccountID)
		c.Set("email", claims.Email)
		c.Set("sessionToken", tokenString)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func GetAccountID(c *gin.Context) (int64, bool) {
	accountID, exists := c.Get("accountId")
	if !exists {
		return 0, false
	}
	return accountID.(int64), true
}

// GetSessionToken returns the raw token the caller presented. Used by
// logout to revoke the matching token row.
func GetSessionToken(c *gin.Context) (string, bool) {
	token, exists := c.Get("sessionToken")
	if !exists {
		return "", false
	}
	return token.(string), true
}
