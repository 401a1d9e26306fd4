package mock

import (
	"context"

	"google.golang.org/genai"

	"seokeys/internal/extract/gemini"
)

var _ gemini.Generator = (*Generator)(nil)

// Generator is a mock implementation of gemini.Generator.
type Generator struct {
	GenerateContentFn func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (g *Generator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.GenerateContentFn(ctx, model, contents, config)
}
