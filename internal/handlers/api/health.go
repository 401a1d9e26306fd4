package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"seokeys/internal/models"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service readiness.
type HealthHandler struct {
	store   Pinger
	backend string
}

// NewHealthHandler creates a new health handler for the named store backend.
func NewHealthHandler(store Pinger, backend string) *HealthHandler {
	return &HealthHandler{store: store, backend: backend}
}

// Healthz pings the result cache.
func (h *HealthHandler) Healthz(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.HealthResponse{
			Status: "unavailable",
			Store:  h.backend,
			Error:  err.Error(),
		})
	}

	return c.JSON(models.HealthResponse{Status: "ok", Store: h.backend})
}
