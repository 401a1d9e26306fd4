// Package views embeds the HTML templates and builds the template engine.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v3"

	"seokeys/internal/export"
)

//go:embed *.html layouts/*.html partials/*.html
var FS embed.FS

// NewEngine returns a template engine over the embedded views with the
// presentation helpers registered.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(FS), ".html")
	engine.AddFunc("intentClass", export.IntentClass)
	engine.AddFunc("difficultyClass", export.DifficultyClass)
	engine.AddFunc("formatVolume", export.FormatVolume)
	return engine
}
