package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kestrel/internal/integration"
)

type IntegrationHandler struct {
	gallagher *integration.GallagherClient
}

func NewIntegrationHandler(gallagher *integration.GallagherClient) *IntegrationHandler {
	return &IntegrationHandler{gallagher: gallagher}
}

// GetHealth reports the access-control controller's reachability. The
// endpoint always answers 200; the body carries the actual state.
func (h *IntegrationHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.gallagher.HealthStatus(c.Request.Context()))
}
