package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ Fetcher = (*RodFetcher)(nil)

// RodFetcher retrieves rendered HTML through a headless Chrome.
// It is safe for concurrent use.
type RodFetcher struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	guard     *Guard
	timeout   time.Duration
	userAgent string
}

// NewRodFetcher launches a headless browser. Close must be called when the
// fetcher is no longer needed.
func NewRodFetcher(opts ...Option) (*RodFetcher, error) {
	o := buildOptions(opts)

	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &RodFetcher{
		browser:   browser,
		launcher:  l,
		guard:     newGuard(o),
		timeout:   o.timeout,
		userAgent: o.userAgent,
	}, nil
}

// Fetch navigates to url and returns the rendered HTML.
func (f *RodFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := f.guard.CheckURL(ctx, url); err != nil {
		return "", err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", err
	}
	blocked, stop, err := f.guardRequests(ctx, page)
	if err != nil {
		return "", err
	}
	defer stop()

	if err := page.Navigate(url); err != nil {
		if berr := blocked(); berr != nil {
			return "", berr
		}
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// guardRequests intercepts every request the page makes, redirect hops
// included, and fails those aimed at private or reserved addresses.
// blocked returns the first refusal.
func (f *RodFetcher) guardRequests(ctx context.Context, page *rod.Page) (blocked func() error, stop func(), err error) {
	if f.guard.allowAll {
		return func() error { return nil }, func() {}, nil
	}

	var (
		mu    sync.Mutex
		first error
	)
	router := page.HijackRequests()
	err = router.Add("*", "", func(h *rod.Hijack) {
		if cerr := f.guard.CheckURL(ctx, h.Request.URL().String()); cerr != nil {
			mu.Lock()
			if first == nil {
				first = cerr
			}
			mu.Unlock()
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return nil, nil, fmt.Errorf("intercepting requests: %w", err)
	}
	go router.Run()

	blocked = func() error {
		mu.Lock()
		defer mu.Unlock()
		return first
	}
	return blocked, func() { _ = router.Stop() }, nil
}

// Close shuts the browser down.
func (f *RodFetcher) Close() error {
	err := f.browser.Close()
	f.launcher.Kill()
	return err
}
