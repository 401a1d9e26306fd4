package fetch

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// Robots answers robots.txt questions, fetching each host's file once.
type Robots struct {
	mu        sync.RWMutex
	hosts     map[string]*robotstxt.RobotsData // nil value: no usable robots.txt
	client    *http.Client
	userAgent string
}

// NewRobots returns a Robots checker for userAgent. robots.txt requests go
// through the same address guard as page fetches; opts configure it.
func NewRobots(userAgent string, timeout time.Duration, opts ...Option) *Robots {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Robots{
		hosts:     make(map[string]*robotstxt.RobotsData),
		client:    newGuard(buildOptions(opts)).client(timeout),
		userAgent: userAgent,
	}
}

// Allowed reports whether rawURL may be fetched. Hosts without a readable
// robots.txt are allowed.
func (r *Robots) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	r.mu.RLock()
	data, ok := r.hosts[u.Scheme+"://"+u.Host]
	r.mu.RUnlock()

	if !ok {
		data = r.fetch(ctx, u.Scheme, u.Host)
		r.mu.Lock()
		r.hosts[u.Scheme+"://"+u.Host] = data
		r.mu.Unlock()
	}

	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.userAgent)
}

func (r *Robots) fetch(ctx context.Context, scheme, host string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheme+"://"+host+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data
}
