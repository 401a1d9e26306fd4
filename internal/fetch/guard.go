package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"seokeys/internal/validation"
)

// maxRedirects matches net/http's default limit.
const maxRedirects = 10

// Guard keeps fetchers away from private and reserved addresses. URLs are
// checked before each request and each redirect hop, and the dialer checks
// the address it actually connects to, so a host that resolves differently
// at dial time is still refused.
type Guard struct {
	allowAll bool
	allowed  map[string]bool // ip:port pairs exempt from the check
	resolver validation.Resolver
}

// NewGuard returns a Guard configured by the address options
// (WithPrivateAddrs, WithAllowedAddrs, WithResolver); other options are
// ignored.
func NewGuard(opts ...Option) *Guard {
	return newGuard(buildOptions(opts))
}

func newGuard(o options) *Guard {
	g := &Guard{
		allowAll: o.allowPrivate,
		allowed:  make(map[string]bool, len(o.allowedAddrs)),
		resolver: net.DefaultResolver,
	}
	for _, a := range o.allowedAddrs {
		if ap, err := netip.ParseAddrPort(a); err == nil {
			g.allowed[ap.String()] = true
		}
	}
	if o.resolver != nil {
		g.resolver = o.resolver
	}
	return g
}

// CheckURL returns nil when rawURL may be requested. Refusals wrap one of
// the validation reasons.
func (g *Guard) CheckURL(ctx context.Context, rawURL string) error {
	if g.allowAll {
		return nil
	}
	if u, err := url.Parse(rawURL); err == nil && g.exempt(u) {
		return nil
	}
	return validation.CheckFetchURLWith(ctx, g.resolver, rawURL)
}

// exempt reports whether u names an allowed ip:port directly.
func (g *Guard) exempt(u *url.URL) bool {
	if len(g.allowed) == 0 {
		return false
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	ap, err := netip.ParseAddrPort(net.JoinHostPort(u.Hostname(), port))
	return err == nil && g.allowed[ap.String()]
}

// control is a net.Dialer Control hook run after name resolution.
func (g *Guard) control(_, address string, _ syscall.RawConn) error {
	if g.allowAll {
		return nil
	}
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", validation.ErrBlockedAddress, address)
	}
	if g.allowed[ap.String()] {
		return nil
	}
	if validation.BlockedAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", validation.ErrBlockedAddress, address)
	}
	return nil
}

// client returns an http.Client whose connections and redirects pass
// through the guard. No proxy is used: a proxy would hide the real
// destination from the dialer.
func (g *Guard) client(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
		Control:   g.control,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return g.CheckURL(req.Context(), req.URL.String())
		},
	}
}
