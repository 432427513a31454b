// Package handler provides HTTP request handlers.
package handler

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"terminus/utils/metrics"
)

// Request headers forming the external filter contract. Header lookup is
// case-insensitive per net/http canonicalization.
const (
	HeaderProjectID         = "X-Project-ID"
	HeaderServiceID         = "X-Service-ID"
	HeaderEnvironmentID     = "X-Environment-ID"
	HeaderLogsEnvironmentID = "X-Logs-Environment-ID"
)

// RequireToken enforces the shared-secret bearer token on protected
// routes. Missing token yields 401, a mismatch 403, and an unconfigured
// secret 500.
func RequireToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Auth secret is not configured",
				"type":  "ConfigError",
			})
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if header == "" || !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing bearer token",
				"type":  "AuthError",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid bearer token",
				"type":  "AuthError",
			})
			return
		}

		c.Next()
	}
}

// Metrics counts every handled request by route and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
