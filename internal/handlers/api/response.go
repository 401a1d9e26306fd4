package api

import (
	"github.com/gofiber/fiber/v3"

	"seokeys/internal/keywords"
	"seokeys/internal/models"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonKindError returns a pipeline failure with its kind and an empty
// suggestion list, so clients that only read data.suggestions still work.
func jsonKindError(c fiber.Ctx, err error) error {
	kind := keywords.ErrorKindOf(err)
	return c.Status(statusForKind(kind)).JSON(fiber.Map{
		"status": "error",
		"error":  keywords.Message(kind),
		"kind":   kind,
		"data":   models.EmptyResponse(),
	})
}

func statusForKind(kind keywords.Kind) int {
	switch kind {
	case keywords.KindInvalidInput:
		return fiber.StatusBadRequest
	case keywords.KindExtractionFailed, keywords.KindInvalidResponse:
		return fiber.StatusUnprocessableEntity
	case keywords.KindStorage:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}
