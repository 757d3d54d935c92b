package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/buildsense/internal/api/respond"
	"github.com/liliang-cn/buildsense/internal/domain"
)

// Auth guards operator routes with the configured API key.
// An empty key leaves the routes open.
func Auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		if subtle.ConstantTimeCompare([]byte(requestKey(c)), []byte(apiKey)) != 1 {
			respond.Error(c, domain.ErrUnauthorized)
			return
		}

		c.Next()
	}
}

// requestKey reads X-API-Key, falling back to a bearer token
func requestKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}
