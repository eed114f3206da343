package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kestrel/internal/config"
)

// APIKeyMiddleware gates the device-facing scanner endpoints. Hand-held
// scanners authenticate with a shared key rather than a user session.
type APIKeyMiddleware struct {
	config *config.Config
}

func NewAPIKeyMiddleware(config *config.Config) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		config: config,
	}
}

func (m *APIKeyMiddleware) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.config.APIKeyRequired {
			c.Next()
			return
		}

		apiKey := c.GetHeader("X-API-Key")

		if apiKey == "" {
			apiKey = c.Query("api_key")
		}

		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			c.Abort()
			return
		}

		validKey := false
		for _, key := range m.config.APIKeys {
			if apiKey == key {
				validKey = true
				break
			}
		}

		if !validKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
