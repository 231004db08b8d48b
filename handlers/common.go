package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fengin/umani/models"
)

// respondError maps the service error taxonomy to HTTP statuses:
// not-found 404, validation 400, capability failure 502 (with the
// upstream status and body), everything else 500.
func respondError(c *gin.Context, err error) {
	var notFound models.ErrorNotFound
	var validation models.ErrorValidation
	var capability models.CapabilityError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &capability):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           capability.Error(),
			"upstream_status": capability.Status,
			"upstream_body":   capability.Body,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
