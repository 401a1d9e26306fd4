package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"seokeys/internal/keywords"
	"seokeys/internal/models"
)

// KeywordHandler exposes the keyword pipeline as JSON.
type KeywordHandler struct {
	pipeline *keywords.Pipeline
}

// NewKeywordHandler creates a new API keyword handler.
func NewKeywordHandler(pipeline *keywords.Pipeline) *KeywordHandler {
	return &KeywordHandler{pipeline: pipeline}
}

// Generate handles POST /api/keywords with body {"url": "..."}.
func (h *KeywordHandler) Generate(c fiber.Ctx) error {
	var req models.GenerateRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.pipeline.Generate(c.Context(), req.URL)
	if err != nil {
		return jsonKindError(c, err)
	}

	return jsonSuccess(c, res.Response())
}

// Lookup handles GET /api/keywords?url=... and never triggers extraction.
func (h *KeywordHandler) Lookup(c fiber.Ctx) error {
	res, err := h.pipeline.Lookup(c.Context(), c.Query("url"))
	if errors.Is(err, keywords.ErrNotCached) {
		return jsonError(c, fiber.StatusNotFound, "no keywords generated for this url yet")
	}
	if err != nil {
		return jsonKindError(c, err)
	}

	return jsonSuccess(c, res.Response())
}
