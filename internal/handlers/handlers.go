package handlers

import (
	"html"

	"github.com/gofiber/fiber/v3"
)

// HTMXError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func HTMXError(c fiber.Ctx, message string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(
		`<div class="alert" role="alert">` + html.EscapeString(message) + `</div>`,
	)
}
