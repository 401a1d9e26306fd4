package mock

import (
	"context"

	"seokeys/internal/extract"
)

var _ extract.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of extract.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, req extract.Request) (*extract.Result, error)
	NameFn    func() string
}

func (e *Extractor) Extract(ctx context.Context, req extract.Request) (*extract.Result, error) {
	return e.ExtractFn(ctx, req)
}

func (e *Extractor) Name() string {
	if e.NameFn == nil {
		return "mock"
	}
	return e.NameFn()
}
