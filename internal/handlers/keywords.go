package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"seokeys/internal/config"
	"seokeys/internal/export"
	"seokeys/internal/keywords"
	"seokeys/internal/models"
)

// KeywordHandler serves the landing page and the keyword results.
type KeywordHandler struct {
	pipeline *keywords.Pipeline
	cfg      *config.Config
}

// NewKeywordHandler creates a new keyword handler.
func NewKeywordHandler(pipeline *keywords.Pipeline, cfg *config.Config) *KeywordHandler {
	return &KeywordHandler{pipeline: pipeline, cfg: cfg}
}

// Index renders the landing page with the URL form.
func (h *KeywordHandler) Index(c fiber.Ctx) error {
	return c.Render("index", MergeBranding(fiber.Map{}, h.cfg))
}

// Generate runs the pipeline for the submitted URL and renders the
// results table, or an inline error message.
func (h *KeywordHandler) Generate(c fiber.Ctx) error {
	var req models.GenerateRequest
	if err := c.Bind().Body(&req); err != nil {
		return HTMXError(c, keywords.Message(keywords.KindInvalidInput))
	}

	res, err := h.pipeline.Generate(c.Context(), req.URL)
	if err != nil {
		return HTMXError(c, keywords.Message(keywords.ErrorKindOf(err)))
	}

	return c.Render("partials/results", fiber.Map{
		"Result":   res,
		"FileName": export.FileName(res.SiteName),
	}, "")
}

// ExportCSV downloads the cached suggestions for ?url= as CSV.
func (h *KeywordHandler) ExportCSV(c fiber.Ctx) error {
	res, err := h.lookup(c)
	if err != nil {
		return err
	}

	c.Attachment(export.FileName(res.SiteName))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.SendString(export.CSV(res.Suggestions))
}

// KeywordsText returns the cached keywords for ?url=, one per line, for
// the copy button.
func (h *KeywordHandler) KeywordsText(c fiber.Ctx) error {
	res, err := h.lookup(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(export.ClipboardText(res.Suggestions))
}

func (h *KeywordHandler) lookup(c fiber.Ctx) (*keywords.Result, error) {
	res, err := h.pipeline.Lookup(c.Context(), c.Query("url"))
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, keywords.ErrNotCached):
		return nil, fiber.NewError(fiber.StatusNotFound, "no keywords generated for this url yet")
	case keywords.ErrorKindOf(err) == keywords.KindInvalidInput:
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid url")
	default:
		return nil, err
	}
}
