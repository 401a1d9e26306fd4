// Package fetch retrieves page HTML for the local extraction backend.
package fetch

import (
	"context"
	"time"
)

// Defaults shared by the fetchers.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "seokeys/1.0 (+https://github.com/seokeys)"
	maxBodyBytes     = 5 << 20
)

// Fetcher retrieves the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}
