package fetch

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"seokeys/internal/validation"
)

// rebindResolver reports a public address for every name, as a hostile DNS
// server would before answering the dialer with a private one.
type rebindResolver struct{}

func (rebindResolver) LookupNetIP(context.Context, string, string) ([]netip.Addr, error) {
	return []netip.Addr{netip.MustParseAddr("93.184.216.34")}, nil
}

func TestGuard_Control(t *testing.T) {
	t.Parallel()

	g := newGuard(buildOptions([]Option{
		WithResolver(rebindResolver{}),
		WithAllowedAddrs("127.0.0.1:8443"),
	}))

	// The name passes the URL check...
	assert.NoError(t, g.CheckURL(context.Background(), "https://rebind.example/"))

	// ...but the dialer still refuses the private address it would reach.
	assert.ErrorIs(t, g.control("tcp", "169.254.169.254:80", nil), validation.ErrBlockedAddress)
	assert.ErrorIs(t, g.control("tcp", "10.0.0.5:443", nil), validation.ErrBlockedAddress)
	assert.ErrorIs(t, g.control("tcp6", "[::1]:443", nil), validation.ErrBlockedAddress)
	assert.ErrorIs(t, g.control("tcp", "not-an-address", nil), validation.ErrBlockedAddress)

	assert.NoError(t, g.control("tcp", "93.184.216.34:443", nil))
	assert.NoError(t, g.control("tcp", "127.0.0.1:8443", nil))
	assert.ErrorIs(t, g.control("tcp", "127.0.0.1:8444", nil), validation.ErrBlockedAddress)
}

func TestGuard_Exempt(t *testing.T) {
	t.Parallel()

	g := newGuard(buildOptions([]Option{WithAllowedAddrs("127.0.0.1:443", "[::1]:8080", "bogus")}))

	assert.NoError(t, g.CheckURL(context.Background(), "https://127.0.0.1/"))
	assert.NoError(t, g.CheckURL(context.Background(), "http://[::1]:8080/x"))
	assert.ErrorIs(t, g.CheckURL(context.Background(), "http://127.0.0.1/"), validation.ErrBlockedAddress)
}

func TestGuard_AllowAll(t *testing.T) {
	t.Parallel()

	g := newGuard(buildOptions([]Option{WithPrivateAddrs()}))

	assert.NoError(t, g.CheckURL(context.Background(), "http://127.0.0.1/"))
	assert.NoError(t, g.control("tcp", "10.0.0.1:80", nil))
}
