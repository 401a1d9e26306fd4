package models

// GenerateRequest is the body accepted by the generate endpoints.
type GenerateRequest struct {
	URL string `json:"url" form:"url"`
}

// GenerateResponse carries the suggestions for one generate call.
// Suggestions is never nil so it always encodes as a JSON array.
type GenerateResponse struct {
	URL         string       `json:"url,omitempty"`
	SiteName    string       `json:"siteName,omitempty"`
	Cached      bool         `json:"cached"`
	Suggestions []Suggestion `json:"suggestions"`
}

// EmptyResponse returns a response with no suggestions.
func EmptyResponse() GenerateResponse {
	return GenerateResponse{Suggestions: []Suggestion{}}
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Error  string `json:"error,omitempty"`
}
