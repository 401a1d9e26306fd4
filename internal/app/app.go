// Package app assembles the keyword service from configuration. Both the
// HTTP server and the CLI start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/storage/redis/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"seokeys/internal/config"
	"seokeys/internal/db"
	"seokeys/internal/docstore"
	"seokeys/internal/extract"
	"seokeys/internal/extract/gemini"
	"seokeys/internal/extract/hyperbrowser"
	"seokeys/internal/fetch"
	"seokeys/internal/keywords"
	"seokeys/internal/metrics"
	"seokeys/internal/negcache"
	"seokeys/internal/page"
	"seokeys/internal/store"
)

// App holds the long-lived collaborators.
type App struct {
	Config    *config.Config
	Store     store.Store
	Extractor extract.Extractor
	Pipeline  *keywords.Pipeline
	Registry  *prometheus.Registry

	// Storage is the shared Redis storage, nil when REDIS_URL is unset.
	Storage fiber.Storage

	log     zerolog.Logger
	closers []func() error
}

// New builds every collaborator named by cfg. On error, anything already
// opened is closed.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Registry: prometheus.NewRegistry(), log: log}
	ready := false
	defer func() {
		if !ready {
			_ = a.Close()
		}
	}()

	prompt, err := config.LoadPromptConfig(cfg.PromptFile)
	if err != nil {
		return nil, fmt.Errorf("load prompt file: %w", err)
	}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	var neg *negcache.Cache
	if cfg.RedisURL != "" {
		rs := redis.New(redis.Config{URL: cfg.RedisURL})
		a.Storage = rs
		a.closers = append(a.closers, rs.Close)
		neg = negcache.New(rs, cfg.NegativeCacheTTL)
	}

	if err := a.openExtractor(ctx, prompt.ModelOr(cfg.GeminiModel)); err != nil {
		return nil, err
	}

	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(a.Registry, a.Store, log)

	a.Pipeline = keywords.New(a.Store, a.Extractor,
		keywords.WithPrompt(prompt.PromptOr(keywords.Prompt)),
		keywords.WithDedupe(cfg.DedupeInflight),
		keywords.WithRateLimit(cfg.ExtractRatePerMinute),
		keywords.WithNegativeCache(neg),
		keywords.WithMetrics(m),
		keywords.WithLogger(log),
	)

	log.Info().
		Str("cache", cfg.CacheBackend).
		Str("extractor", a.Extractor.Name()).
		Bool("dedupe", cfg.DedupeInflight).
		Dur("negative_cache_ttl", neg.TTL()).
		Msg("keyword pipeline ready")

	ready = true
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.CacheBackend {
	case config.CacheMemory:
		a.Store = store.NewMemory()

	case config.CachePostgres:
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { database.Close(); return nil })
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		a.log.Info().Msg("migrations completed successfully")
		a.Store = database

	case config.CacheMongo:
		ds, err := docstore.New(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return ds.Close(ctx)
		})
		a.Store = ds

	default:
		return fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	return nil
}

func (a *App) openExtractor(ctx context.Context, geminiModel string) error {
	cfg := a.Config
	switch cfg.ExtractBackend {
	case config.ExtractHyperbrowser:
		a.Extractor = hyperbrowser.New(cfg.HyperbrowserAPIKey,
			hyperbrowser.WithBaseURL(cfg.HyperbrowserBaseURL),
			hyperbrowser.WithPollInterval(cfg.ExtractPollInterval),
			hyperbrowser.WithTimeout(cfg.ExtractTimeout),
			hyperbrowser.WithRetry(cfg.ExtractMaxRetries, time.Second),
			hyperbrowser.WithLogger(a.log),
		)

	case config.ExtractGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("create gemini client: %w", err)
		}

		fetcher, err := a.openFetcher()
		if err != nil {
			return err
		}

		opts := []gemini.Option{
			gemini.WithModel(geminiModel),
			gemini.WithPageExtractor(page.NewExtractor(cfg.PageMaxRunes)),
			gemini.WithLogger(a.log),
		}
		allowed := fetch.WithAllowedAddrs(cfg.FetchAllowedAddrs...)
		opts = append(opts, gemini.WithGuard(fetch.NewGuard(allowed)))
		if cfg.RespectRobots {
			robots := fetch.NewRobots(cfg.UserAgent, cfg.FetchTimeout, allowed)
			opts = append(opts, gemini.WithRobots(robots))
		}
		a.Extractor = gemini.New(client.Models, fetcher, opts...)

	default:
		return fmt.Errorf("unknown extract backend %q", cfg.ExtractBackend)
	}
	return nil
}

func (a *App) openFetcher() (fetch.Fetcher, error) {
	opts := []fetch.Option{
		fetch.WithTimeout(a.Config.FetchTimeout),
		fetch.WithAllowedAddrs(a.Config.FetchAllowedAddrs...),
	}
	if a.Config.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(a.Config.UserAgent))
	}

	var f fetch.Fetcher
	if a.Config.FetchMode == config.FetchRod {
		rf, err := fetch.NewRodFetcher(opts...)
		if err != nil {
			return nil, fmt.Errorf("start browser: %w", err)
		}
		f = rf
	} else {
		f = fetch.NewHTTPFetcher(opts...)
	}
	a.closers = append(a.closers, f.Close)
	return f, nil
}

// Close releases everything New opened, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// StoreBackend names the configured cache backend.
func (a *App) StoreBackend() string {
	return a.Config.CacheBackend
}
