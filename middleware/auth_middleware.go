package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"anonshop/api/logger"
	"anonshop/api/utils"
)

// AdminRequired guards operator endpoints. A request passes with an X-API-KEY header equal to apiKey,
// or with an admin JWT signed with secret in the Authorization header. Empty credentials disable that path.
func AdminRequired(apiKey, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if key := c.GetHeader("X-API-KEY"); apiKey != "" && key != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				c.Set("admin_subject", "api-key")
				c.Next()
				return
			}
		}

		tokenString := strings.TrimSpace(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims, err := utils.ValidateJWT(secret, tokenString)
		if err != nil {
			logger.Info(ctx).Err(err).Msg("AdminRequired: rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("admin_subject", claims.Subject)
		c.Next()
	}
}
