// Package gemini implements extract.Extractor locally: it fetches the page
// itself, reduces it to text and asks Gemini for JSON matching the schema.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"seokeys/internal/extract"
	"seokeys/internal/fetch"
	"seokeys/internal/page"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const systemInstruction = "You are an SEO strategist. Base every suggestion on the page content provided. Respond only with JSON that matches the response schema."

var _ extract.Extractor = (*Extractor)(nil)

// Generator is the subset of the genai client used here.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// RobotsChecker answers whether a URL may be fetched.
type RobotsChecker interface {
	Allowed(ctx context.Context, url string) bool
}

// Extractor runs extractions with a local fetch and a Gemini call.
type Extractor struct {
	models    Generator
	fetcher   fetch.Fetcher
	pages     *page.Extractor
	robots    RobotsChecker
	guard     *fetch.Guard
	model     string
	log       zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithModel sets the Gemini model name.
func WithModel(model string) Option {
	return func(e *Extractor) {
		if model != "" {
			e.model = model
		}
	}
}

// WithRobots makes the extractor skip pages robots.txt disallows.
func WithRobots(r RobotsChecker) Option {
	return func(e *Extractor) {
		e.robots = r
	}
}

// WithPageExtractor replaces the default page extractor.
func WithPageExtractor(p *page.Extractor) Option {
	return func(e *Extractor) {
		e.pages = p
	}
}

// WithGuard sets the address policy checked before robots.txt and the
// page are requested. It should match the fetcher's.
func WithGuard(g *fetch.Guard) Option {
	return func(e *Extractor) {
		if g != nil {
			e.guard = g
		}
	}
}

// WithPrivateHosts allows fetching private and loopback addresses.
// Only meant for tests and local development.
func WithPrivateHosts() Option {
	return WithGuard(fetch.NewGuard(fetch.WithPrivateAddrs()))
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) {
		e.log = l
	}
}

// New creates an Extractor. models is usually client.Models from a
// *genai.Client.
func New(models Generator, fetcher fetch.Fetcher, opts ...Option) *Extractor {
	e := &Extractor{
		models:  models,
		fetcher: fetcher,
		pages:   page.NewExtractor(0),
		guard:   fetch.NewGuard(),
		model:   DefaultModel,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies this backend.
func (e *Extractor) Name() string {
	return "gemini"
}

// Extract fetches every requested URL and asks the model for one answer.
// Pages that cannot be read make the job fail rather than error, matching
// how the hosted service reports unreachable sites.
func (e *Extractor) Extract(ctx context.Context, req extract.Request) (*extract.Result, error) {
	if len(req.URLs) == 0 {
		return nil, fmt.Errorf("gemini: at least one url required")
	}

	pages := make([]*page.Content, 0, len(req.URLs))
	for _, u := range req.URLs {
		c, reason := e.readPage(ctx, u)
		if c == nil {
			e.log.Debug().Str("url", u).Str("reason", reason).Msg("page not usable")
			return &extract.Result{Status: extract.StatusFailed, Error: reason}, nil
		}
		pages = append(pages, c)
	}

	result, err := e.models.GenerateContent(ctx, e.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: BuildUserPrompt(req.Prompt, pages)}},
		}},
		BuildConfig(req.Schema),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}
	if result == nil {
		return &extract.Result{Status: extract.StatusFailed, Error: "gemini returned nil result"}, nil
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return &extract.Result{Status: extract.StatusFailed, Error: "gemini returned no content"}, nil
	}
	if !json.Valid([]byte(text)) {
		return &extract.Result{Status: extract.StatusFailed, Error: "gemini returned invalid JSON"}, nil
	}

	return &extract.Result{Status: extract.StatusCompleted, Data: json.RawMessage(text)}, nil
}

// readPage returns the page content, or nil and the reason it was skipped.
func (e *Extractor) readPage(ctx context.Context, u string) (*page.Content, string) {
	if err := e.guard.CheckURL(ctx, u); err != nil {
		return nil, err.Error()
	}
	if e.robots != nil && !e.robots.Allowed(ctx, u) {
		return nil, "disallowed by robots.txt"
	}

	html, err := e.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, "fetch failed: " + err.Error()
	}

	c, err := e.pages.Extract(u, html)
	if err != nil {
		return nil, "extract failed: " + err.Error()
	}
	return c, ""
}

// BuildConfig returns the GenerateContentConfig for a structured answer.
func BuildConfig(schema *extract.Schema) *genai.GenerateContentConfig {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
	if schema != nil {
		config.ResponseSchema = ConvertSchema(schema)
	}
	return config
}

// BuildUserPrompt appends the page contents to the instruction prompt.
func BuildUserPrompt(prompt string, pages []*page.Content) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(prompt))
	sb.WriteString("\n\n<pages>\n")
	for _, p := range pages {
		sb.WriteString(p.PromptContext())
		sb.WriteString("\n")
	}
	sb.WriteString("</pages>")
	return sb.String()
}

// ConvertSchema maps the JSON Schema subset onto genai.Schema.
func ConvertSchema(s *extract.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		Items:       ConvertSchema(s.Items),
	}
	if s.MinItems != nil {
		out.MinItems = genai.Ptr(int64(*s.MinItems))
	}
	if s.MaxItems != nil {
		out.MaxItems = genai.Ptr(int64(*s.MaxItems))
	}
	if s.MinLength != nil {
		out.MinLength = genai.Ptr(int64(*s.MinLength))
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = ConvertSchema(prop)
		}
		// Keep the declared order so the model emits fields predictably.
		out.PropertyOrdering = append([]string(nil), s.Required...)
	}
	if len(s.Enum) > 0 && out.Type == genai.TypeString {
		out.Format = "enum"
	}
	return out
}

func schemaType(t string) genai.Type {
	switch t {
	case extract.TypeObject:
		return genai.TypeObject
	case extract.TypeArray:
		return genai.TypeArray
	case extract.TypeString:
		return genai.TypeString
	case extract.TypeNumber:
		return genai.TypeNumber
	case extract.TypeInteger:
		return genai.TypeInteger
	case extract.TypeBoolean:
		return genai.TypeBoolean
	}
	return genai.TypeUnspecified
}
