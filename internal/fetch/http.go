package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"seokeys/internal/validation"
)

var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher retrieves HTML with plain HTTP requests. It does not run
// JavaScript, so client-rendered sites come back mostly empty.
type HTTPFetcher struct {
	client    *http.Client
	guard     *Guard
	timeout   time.Duration
	userAgent string
}

// Option configures a fetcher.
type Option func(*options)

type options struct {
	timeout      time.Duration
	userAgent    string
	allowPrivate bool
	allowedAddrs []string
	resolver     validation.Resolver
}

// WithTimeout sets the per-page timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithPrivateAddrs turns the address guard off. Only meant for tests and
// local development.
func WithPrivateAddrs() Option {
	return func(o *options) {
		o.allowPrivate = true
	}
}

// WithAllowedAddrs exempts specific ip:port pairs from the address guard,
// for example an internal site that should be analyzable.
func WithAllowedAddrs(addrs ...string) Option {
	return func(o *options) {
		o.allowedAddrs = append(o.allowedAddrs, addrs...)
	}
}

// WithResolver sets the resolver the guard uses to check host names.
func WithResolver(r validation.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

func buildOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout, userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewHTTPFetcher creates an HTTP-based fetcher. Requests to private or
// reserved addresses are refused, including through redirects, unless
// WithPrivateAddrs or WithAllowedAddrs say otherwise.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	o := buildOptions(opts)
	g := newGuard(o)
	return &HTTPFetcher{
		client:    g.client(o.timeout),
		guard:     g,
		timeout:   o.timeout,
		userAgent: o.userAgent,
	}
}

// Fetch retrieves the HTML content from the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.guard.CheckURL(ctx, url); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close is a no-op; http.Client needs no cleanup.
func (f *HTTPFetcher) Close() error {
	return nil
}
