package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seokeys/internal/models"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare domain gets https", "example.com", "https://example.com"},
		{"trailing slash trimmed", "https://example.com/", "https://example.com"},
		{"www preserved", "https://www.example.com", "https://www.example.com"},
		{"bare www domain", "www.example.com/", "https://www.example.com"},
		{"http kept", "http://example.com", "http://example.com"},
		{"surrounding whitespace", "  example.com/blog/  ", "https://example.com/blog"},
		{"uppercase scheme kept", "HTTPS://Example.com", "HTTPS://Example.com"},
		{"repeated trailing slashes", "example.com//", "https://example.com"},
		{"path kept", "https://example.com/docs/intro", "https://example.com/docs/intro"},
		{"query kept", "example.com/?ref=1", "https://example.com/?ref=1"},
		{"port kept", "localhost:3000/", "https://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.raw)
			if err != nil {
				t.Fatalf("NormalizeURL(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   \t"},
		{"scheme only", "https://"},
		{"scheme and slashes", "http:////"},
		{"single slash", "/"},
		{"space in host", "exa mple.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeURL(tt.raw)
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("NormalizeURL(%q) error = %v, want ErrInvalidURL", tt.raw, err)
			}
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	inputs := []string{
		"example.com",
		"https://example.com/",
		"example.com//",
		" https://a.com/ /",
		"HTTP://Example.com/path/",
		"ftp://files.example.com",
		"www.example.com/blog/?page=2",
		"localhost:8080",
		"https://example.com/\t",
	}

	for _, in := range inputs {
		once, err := NormalizeURL(in)
		if err != nil {
			continue
		}
		twice, err := NormalizeURL(once)
		require.NoError(t, err, "second pass of %q", in)
		assert.Equal(t, once, twice, "normalize(normalize(%q))", in)
	}
}

func TestSiteName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.example.com", "example"},
		{"example.com", "example"},
		{"https://blog.example.co.uk/post", "blog"},
		{"http://localhost:3000", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SiteName(tt.raw))
		})
	}
}

func validSuggestions() []models.Suggestion {
	out := make([]models.Suggestion, 0, models.SuggestionCount)
	for i := 0; i < models.SuggestionCount; i++ {
		out = append(out, models.Suggestion{
			Keyword:    "keyword " + strings.Repeat("x", i+1),
			Intent:     models.Intents[i%len(models.Intents)],
			TitleIdea:  "A title",
			Difficulty: float64(10 * (i + 1)),
			Volume:     float64(100 * i),
		})
	}
	return out
}

func TestValidateSuggestions(t *testing.T) {
	t.Run("accepts six valid suggestions", func(t *testing.T) {
		assert.NoError(t, ValidateSuggestions(validSuggestions()))
	})

	t.Run("accepts boundary values", func(t *testing.T) {
		s := validSuggestions()
		s[0].Difficulty = 1
		s[1].Difficulty = 100
		s[2].Volume = 0
		assert.NoError(t, ValidateSuggestions(s))
	})

	tests := []struct {
		name   string
		mutate func([]models.Suggestion) []models.Suggestion
		field  string
	}{
		{"too few", func(s []models.Suggestion) []models.Suggestion { return s[:5] }, ""},
		{"too many", func(s []models.Suggestion) []models.Suggestion { return append(s, s[0]) }, ""},
		{"empty list", func([]models.Suggestion) []models.Suggestion { return nil }, ""},
		{"empty keyword", func(s []models.Suggestion) []models.Suggestion { s[3].Keyword = " "; return s }, "keyword"},
		{"unknown intent", func(s []models.Suggestion) []models.Suggestion { s[2].Intent = "local"; return s }, "intent"},
		{"intent wrong case", func(s []models.Suggestion) []models.Suggestion { s[2].Intent = "Commercial"; return s }, "intent"},
		{"difficulty zero", func(s []models.Suggestion) []models.Suggestion { s[1].Difficulty = 0; return s }, "difficulty"},
		{"difficulty above 100", func(s []models.Suggestion) []models.Suggestion { s[1].Difficulty = 100.5; return s }, "difficulty"},
		{"negative volume", func(s []models.Suggestion) []models.Suggestion { s[5].Volume = -1; return s }, "volume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSuggestions(tt.mutate(validSuggestions()))
			require.Error(t, err)

			var serr *SuggestionError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.field, serr.Field)
		})
	}
}
