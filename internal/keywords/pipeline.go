// Package keywords turns a website URL into six SEO keyword suggestions,
// paying for an extraction at most once per distinct normalized URL.
package keywords

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"seokeys/internal/extract"
	"seokeys/internal/metrics"
	"seokeys/internal/models"
	"seokeys/internal/negcache"
	"seokeys/internal/store"
	"seokeys/internal/validation"
)

// Result is a successful generation.
type Result struct {
	URL         string
	SiteName    string
	Cached      bool
	Suggestions []models.Suggestion
}

// Response converts r to the wire shape.
func (r *Result) Response() models.GenerateResponse {
	return models.GenerateResponse{
		URL:         r.URL,
		SiteName:    r.SiteName,
		Cached:      r.Cached,
		Suggestions: r.Suggestions,
	}
}

// Pipeline orchestrates normalize, cache lookup, extraction, validation
// and persistence.
type Pipeline struct {
	store     store.Store
	extractor extract.Extractor
	prompt    string
	dedupe    bool
	group     singleflight.Group
	limiter   *rate.Limiter
	negative  *negcache.Cache
	metrics   *metrics.Metrics
	log       zerolog.Logger

	// sharedTimeout bounds a de-duplicated generation, which no caller
	// context can cancel.
	sharedTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// DefaultSharedTimeout bounds a de-duplicated generation.
const DefaultSharedTimeout = 3 * time.Minute

// WithDedupe coalesces concurrent cache misses for the same URL into one
// extraction.
func WithDedupe(enabled bool) Option {
	return func(p *Pipeline) {
		p.dedupe = enabled
	}
}

// WithSharedTimeout bounds a de-duplicated generation. It has no effect
// unless WithDedupe(true) is set.
func WithSharedTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.sharedTimeout = d
		}
	}
}

// WithRateLimit caps outbound extractions per minute. Zero disables it.
func WithRateLimit(perMinute int) Option {
	return func(p *Pipeline) {
		if perMinute > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), 1)
		}
	}
}

// WithNegativeCache skips extraction for URLs that failed recently.
func WithNegativeCache(c *negcache.Cache) Option {
	return func(p *Pipeline) {
		p.negative = c
	}
}

// WithMetrics records outcomes and extraction latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// WithPrompt replaces the default instruction prompt.
func WithPrompt(prompt string) Option {
	return func(p *Pipeline) {
		if prompt != "" {
			p.prompt = prompt
		}
	}
}

// New creates a Pipeline over a cache and an extraction backend.
func New(st store.Store, ex extract.Extractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:         st,
		extractor:     ex,
		prompt:        Prompt,
		sharedTimeout: DefaultSharedTimeout,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prompt returns the instruction prompt in use.
func (p *Pipeline) Prompt() string {
	return p.prompt
}

// Generate returns six suggestions for rawURL, from the cache when
// possible. Every failure is an *Error; nothing is cached on failure.
func (p *Pipeline) Generate(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()

	u, err := validation.NormalizeURL(rawURL)
	if err != nil {
		err = newError(KindInvalidInput, "normalize", rawURL, err)
		p.finish(rawURL, start, nil, err)
		return nil, err
	}

	var res *Result
	if p.dedupe {
		res, err = p.generateShared(ctx, u)
	} else {
		res, err = p.generate(ctx, u)
	}
	if err != nil {
		p.finish(u, start, nil, err)
		return nil, err
	}

	p.finish(u, start, res, nil)
	return res, nil
}

// generateShared joins or starts the single in-flight generation for u.
// The shared call runs detached from ctx so one caller going away does
// not fail the others; each caller still stops waiting when its own ctx
// is done.
func (p *Pipeline) generateShared(ctx context.Context, u string) (*Result, error) {
	ch := p.group.DoChan(u, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.sharedTimeout)
		defer cancel()
		return p.generate(sctx, u)
	})

	select {
	case <-ctx.Done():
		return nil, newError(KindUnexpected, "generate", u, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res := r.Val.(*Result)
		if r.Shared {
			res = res.clone()
		}
		return res, nil
	}
}

// GenerateOrEmpty is Generate with every failure collapsed to an empty
// suggestion list.
func (p *Pipeline) GenerateOrEmpty(ctx context.Context, rawURL string) models.GenerateResponse {
	res, err := p.Generate(ctx, rawURL)
	if err != nil {
		return models.EmptyResponse()
	}
	return res.Response()
}

// Lookup returns the cached suggestions for rawURL without extracting.
// It returns ErrNotCached on a miss.
func (p *Pipeline) Lookup(ctx context.Context, rawURL string) (*Result, error) {
	u, err := validation.NormalizeURL(rawURL)
	if err != nil {
		return nil, newError(KindInvalidInput, "normalize", rawURL, err)
	}

	gen, err := p.store.GetGenerationByURL(ctx, u)
	if errors.Is(err, store.ErrGenerationNotFound) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, newError(KindStorage, "lookup", u, err)
	}
	return cachedResult(u, gen), nil
}

func (p *Pipeline) generate(ctx context.Context, u string) (*Result, error) {
	gen, err := p.store.GetGenerationByURL(ctx, u)
	if err == nil {
		return cachedResult(u, gen), nil
	}
	if !errors.Is(err, store.ErrGenerationNotFound) {
		return nil, newError(KindStorage, "lookup", u, err)
	}

	if p.negative.RecentlyFailed(u) {
		return nil, newError(KindExtractionFailed, "extract", u, errors.New("failed recently, not retrying yet"))
	}

	suggestions, err := p.extract(ctx, u)
	if err != nil {
		if k := ErrorKindOf(err); k == KindExtractionFailed || k == KindInvalidResponse {
			if nerr := p.negative.MarkFailed(u); nerr != nil {
				p.log.Warn().Err(nerr).Str("url", u).Msg("failed to record extraction failure")
			}
		}
		return nil, err
	}

	if _, err := p.store.SaveGeneration(ctx, u, suggestions); err != nil {
		return nil, newError(KindStorage, "save", u, err)
	}

	return &Result{
		URL:         u,
		SiteName:    validation.SiteName(u),
		Suggestions: suggestions,
	}, nil
}

// extract runs the extraction and returns validated suggestions.
func (p *Pipeline) extract(ctx context.Context, u string) ([]models.Suggestion, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, newError(KindUnexpected, "rate limit", u, err)
		}
	}

	start := time.Now()
	result, err := p.extractor.Extract(ctx, extract.Request{
		URLs:   []string{u},
		Prompt: p.prompt,
		Schema: ResponseSchema(),
	})
	p.metrics.ObserveExtraction(p.extractor.Name(), time.Since(start))
	if err != nil {
		return nil, newError(KindUnexpected, "extract", u, err)
	}

	if result == nil || result.Status != extract.StatusCompleted || !result.HasData() {
		reason := "no data returned"
		if result != nil {
			reason = fmt.Sprintf("status %q", result.Status)
			if result.Error != "" {
				reason += ": " + result.Error
			}
		}
		return nil, newError(KindExtractionFailed, "extract", u, errors.New(reason))
	}

	var payload struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		return nil, newError(KindInvalidResponse, "decode", u, err)
	}
	if err := validation.ValidateSuggestions(payload.Suggestions); err != nil {
		return nil, newError(KindInvalidResponse, "validate", u, err)
	}
	return payload.Suggestions, nil
}

func (p *Pipeline) finish(u string, start time.Time, res *Result, err error) {
	outcome := metrics.OutcomeGenerated
	switch {
	case err != nil:
		outcome = string(ErrorKindOf(err))
	case res.Cached:
		outcome = metrics.OutcomeCacheHit
	}
	p.metrics.ObserveGeneration(outcome)

	ev := p.log.Info()
	if err != nil {
		ev = p.log.Warn().Err(err)
	}
	ev.Str("url", u).
		Str("outcome", outcome).
		Dur("duration", time.Since(start)).
		Msg("keyword generation")
}

func cachedResult(u string, gen *models.Generation) *Result {
	return &Result{
		URL:         u,
		SiteName:    validation.SiteName(u),
		Cached:      true,
		Suggestions: gen.Suggestions,
	}
}

func (r *Result) clone() *Result {
	c := *r
	c.Suggestions = slices.Clone(r.Suggestions)
	return &c
}
