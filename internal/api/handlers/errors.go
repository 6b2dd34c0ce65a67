package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockpulse-go/internal/utils"
)

// respondError maps the error taxonomy onto HTTP statuses with the shared
// {error, message} body.
func respondError(c *gin.Context, err error) {
	var (
		invalid  *utils.InvalidInputError
		notFound *utils.NotFoundError
		upstream *utils.UpstreamError
		shape    *utils.ShapeError
	)

	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "message": invalid.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "message": notFound.Error()})
	case errors.As(err, &upstream):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upstream unavailable", "message": upstream.Error()})
	case errors.As(err, &shape):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upstream shape invalid", "message": shape.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "message": err.Error()})
	}
}
