// Package extract defines the boundary to URL-content extraction services:
// a request carrying target URLs, an instruction prompt and an output
// schema, and a status-tagged result.
package extract

import (
	"context"
	"encoding/json"
)

// Status is the lifecycle state of an extraction job.
type Status string

// Extraction job statuses
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further progress is expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Request describes one extraction.
type Request struct {
	URLs   []string `json:"urls"`
	Prompt string   `json:"prompt"`
	Schema *Schema  `json:"schema,omitempty"`
}

// Result is the terminal outcome of an extraction. Data is only meaningful
// when Status is StatusCompleted.
type Result struct {
	JobID  string          `json:"jobId,omitempty"`
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// HasData reports whether the result carries a non-null payload.
func (r *Result) HasData() bool {
	if r == nil || len(r.Data) == 0 {
		return false
	}
	return string(r.Data) != "null"
}

// Extractor runs an extraction and waits for a terminal result.
type Extractor interface {
	// Extract blocks until the job completes or fails. Transport errors are
	// returned as errors; a job that ran but produced nothing comes back as
	// a Result with StatusFailed.
	Extract(ctx context.Context, req Request) (*Result, error)

	// Name identifies the backend in logs and metrics.
	Name() string
}
