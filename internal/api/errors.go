package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labreserva-backend/internal/booking"
	"labreserva-backend/internal/metrics"
	"labreserva-backend/internal/store"
)

// fail converts a domain error into a structured JSON error response.
// Anything outside the known taxonomy becomes a 500 after the store has
// already rolled back.
func (h *Handler) fail(c *gin.Context, err error) {
	var conflict *store.ConflictError

	switch {
	case errors.Is(err, booking.ErrBadTimeFormat) || errors.Is(err, booking.ErrInvalidInterval):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		metrics.IncReservationConflict()
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.Is(err, store.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": store.ErrEmailTaken.Error()})
	case errors.Is(err, store.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": store.ErrForbidden.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": store.ErrNotFound.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
	}
}
