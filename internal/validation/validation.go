package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"seokeys/internal/models"
)

// ErrInvalidURL is returned when user input cannot be read as a URL.
var ErrInvalidURL = errors.New("invalid url")

// NormalizeURL canonicalizes user input into the absolute URL used as the
// cache key. It trims whitespace, prepends https:// when no http(s) scheme
// is present and drops trailing slashes. The host is left untouched, so
// www. prefixes survive.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	scheme, rest := splitScheme(s)
	if scheme == "" {
		scheme = "https://"
	}

	rest = strings.TrimRightFunc(rest, func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})
	if rest == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	normalized := scheme + rest
	u, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return normalized, nil
}

// splitScheme separates a leading http:// or https:// (any case) from s.
func splitScheme(s string) (string, string) {
	lower := strings.ToLower(s)
	for _, prefix := range []string{"http://", "https://"} {
		if strings.HasPrefix(lower, prefix) {
			return s[:len(prefix)], s[len(prefix):]
		}
	}
	return "", s
}

// SiteName returns a short human-readable label for a URL: the hostname
// without www. and without its domain suffix. It is for display only and
// never used as a cache key.
func SiteName(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(strings.ToLower(s), "http") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	host := strings.Replace(u.Hostname(), "www.", "", 1)
	return strings.Split(host, ".")[0]
}

// SuggestionError describes why a generation result was rejected.
type SuggestionError struct {
	Index  int // -1 when the problem is the list itself
	Field  string
	Reason string
}

func (e *SuggestionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("suggestions: %s", e.Reason)
	}
	return fmt.Sprintf("suggestion %d: %s %s", e.Index, e.Field, e.Reason)
}

// ValidateSuggestions checks a generation result against the suggestion
// schema. A nil return means the result is valid; otherwise the returned
// *SuggestionError names the first violation. No coercion is attempted.
func ValidateSuggestions(suggestions []models.Suggestion) error {
	if len(suggestions) != models.SuggestionCount {
		return &SuggestionError{
			Index:  -1,
			Reason: fmt.Sprintf("expected exactly %d entries, got %d", models.SuggestionCount, len(suggestions)),
		}
	}

	for i, s := range suggestions {
		if strings.TrimSpace(s.Keyword) == "" {
			return &SuggestionError{Index: i, Field: "keyword", Reason: "is empty"}
		}
		if !s.Intent.Valid() {
			return &SuggestionError{Index: i, Field: "intent", Reason: fmt.Sprintf("%q is not a known intent", s.Intent)}
		}
		if s.Difficulty < 1 || s.Difficulty > 100 {
			return &SuggestionError{Index: i, Field: "difficulty", Reason: fmt.Sprintf("%v is outside [1,100]", s.Difficulty)}
		}
		if s.Volume < 0 {
			return &SuggestionError{Index: i, Field: "volume", Reason: fmt.Sprintf("%v is negative", s.Volume)}
		}
	}

	return nil
}
