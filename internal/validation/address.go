package validation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// Reasons CheckFetchURL refuses a URL.
var (
	ErrUnsupportedScheme = errors.New("url must use http or https")
	ErrMissingHost       = errors.New("url has no host")
	ErrBlockedAddress    = errors.New("url points to a private or reserved address")
	ErrUnresolvedHost    = errors.New("host cannot be resolved")
)

// reservedPrefixes are refused on top of the ranges netip already
// classifies as loopback, private, link-local or unspecified.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),    // carrier-grade NAT
	netip.MustParsePrefix("168.63.129.16/32"), // Azure wire server
	netip.MustParsePrefix("192.0.0.0/24"),     // IETF protocol assignments
	netip.MustParsePrefix("198.18.0.0/15"),    // benchmarking
	netip.MustParsePrefix("240.0.0.0/4"),      // reserved, includes broadcast
}

// BlockedAddr reports whether the page fetcher must not connect to addr.
// Cloud metadata endpoints such as 169.254.169.254 fall under link-local.
func BlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsValid() {
		return true
	}
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() || addr.IsMulticast() {
		return true
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// CheckFetchURL returns nil when raw is an http(s) URL whose host resolves
// only to public addresses. Errors wrap one of the Err* reasons above.
func CheckFetchURL(ctx context.Context, raw string) error {
	return CheckFetchURLWith(ctx, net.DefaultResolver, raw)
}

// CheckFetchURLWith is CheckFetchURL with an explicit resolver.
func CheckFetchURLWith(ctx context.Context, r Resolver, raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return ErrMissingHost
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if BlockedAddr(addr) {
			return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
		}
		return nil
	}

	addrs, err := r.LookupNetIP(ctx, "ip", host)
	if err != nil || len(addrs) == 0 {
		return fmt.Errorf("%w: %s", ErrUnresolvedHost, host)
	}
	for _, addr := range addrs {
		if BlockedAddr(addr) {
			return fmt.Errorf("%w: %s resolves to %s", ErrBlockedAddress, host, addr)
		}
	}
	return nil
}
