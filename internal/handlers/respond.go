package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kestrel/internal/utils"
)

func respondError(c *gin.Context, status int, message string, details ...string) {
	body := gin.H{"error": message}
	if len(details) > 0 && details[0] != "" {
		body["details"] = details[0]
	}
	c.JSON(status, body)
}

// respondServiceError translates the service-layer error taxonomy to HTTP
// at the boundary. Anything outside the taxonomy is a 500 with a generic
// message; the cause goes into details.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, utils.ErrValidation):
		respondError(c, http.StatusBadRequest, message, err.Error())
	case errors.Is(err, utils.ErrNotFound):
		respondError(c, http.StatusNotFound, message, err.Error())
	case errors.Is(err, utils.ErrConflict):
		respondError(c, http.StatusConflict, message, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, message, err.Error())
	}
}
