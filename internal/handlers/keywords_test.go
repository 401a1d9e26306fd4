package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seokeys/internal/config"
	"seokeys/internal/extract"
	"seokeys/internal/handlers"
	"seokeys/internal/keywords"
	"seokeys/internal/mock"
	"seokeys/internal/models"
	"seokeys/internal/store"
	"seokeys/internal/testutil"
	"seokeys/views"
)

func newApp(t *testing.T, st store.Store, ex extract.Extractor) *fiber.App {
	t.Helper()

	cfg := &config.Config{SiteTitle: "SEO Keywords", SiteTagline: "Six topics"}
	h := handlers.NewKeywordHandler(keywords.New(st, ex), cfg)

	app := fiber.New(fiber.Config{Views: views.NewEngine(), ViewsLayout: "layouts/main"})
	app.Get("/", h.Index)
	app.Post("/generate", h.Generate)
	app.Get("/export.csv", h.ExportCSV)
	app.Get("/keywords.txt", h.KeywordsText)
	return app
}

func failingExtractor() *mock.Extractor {
	return &mock.Extractor{ExtractFn: func(context.Context, extract.Request) (*extract.Result, error) {
		return &extract.Result{Status: extract.StatusFailed}, nil
	}}
}

func seeded(t *testing.T, url string, suggestions []models.Suggestion) *store.Memory {
	t.Helper()
	st := store.NewMemory()
	_, err := st.SaveGeneration(context.Background(), url, suggestions)
	require.NoError(t, err)
	return st
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func postForm(rawURL string) *http.Request {
	form := url.Values{"url": {rawURL}}
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestKeywordHandler_Index(t *testing.T) {
	t.Parallel()

	app := newApp(t, store.NewMemory(), failingExtractor())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := body(t, resp)
	assert.Contains(t, out, "<title>SEO Keywords</title>")
	assert.Contains(t, out, `hx-post="/generate"`)
}

func TestKeywordHandler_Generate(t *testing.T) {
	t.Parallel()

	t.Run("renders cached suggestions", func(t *testing.T) {
		t.Parallel()

		suggestions := testutil.Suggestions("coffee")
		app := newApp(t, seeded(t, "https://www.acme.com", suggestions), failingExtractor())

		resp, err := app.Test(postForm("www.acme.com/"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Contains(t, out, "Keywords for acme")
		assert.Contains(t, out, suggestions[0].Keyword)
		assert.Contains(t, strings.ToLower(out), "/export.csv?url=https%3a%2f%2fwww.acme.com")
		assert.Contains(t, out, `download="keywords-acme.csv"`)
		assert.NotContains(t, out, "<html")
	})

	t.Run("failure shows a message", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, store.NewMemory(), failingExtractor())

		resp, err := app.Test(postForm("acme.com"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Contains(t, out, `role="alert"`)
		assert.Contains(t, out, "couldn&#39;t analyze that website")
	})

	t.Run("blank url", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, store.NewMemory(), failingExtractor())

		resp, err := app.Test(postForm("  "))
		require.NoError(t, err)

		assert.Contains(t, body(t, resp), "Please enter a valid website URL.")
	})
}

func TestKeywordHandler_ExportCSV(t *testing.T) {
	t.Parallel()

	suggestions := []models.Suggestion{{Keyword: "a", Volume: 10, Difficulty: 5, Intent: models.IntentInformational, TitleIdea: "b"}}
	app := newApp(t, seeded(t, "https://acme.com", suggestions), failingExtractor())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/export.csv?url=acme.com", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "keywords-acme.csv")
	assert.Equal(t, "Keyword,Search Volume,Difficulty,Intent,Title Idea\n\"a\",10,5,informational,\"b\"", body(t, resp))
}

func TestKeywordHandler_KeywordsText(t *testing.T) {
	t.Parallel()

	suggestions := testutil.Suggestions("tea")
	app := newApp(t, seeded(t, "https://acme.com", suggestions), failingExtractor())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/keywords.txt?url="+url.QueryEscape("https://acme.com/"), nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	lines := strings.Split(body(t, resp), "\n")
	require.Len(t, lines, models.SuggestionCount)
	assert.Equal(t, suggestions[0].Keyword, lines[0])
}

func TestKeywordHandler_LookupErrors(t *testing.T) {
	t.Parallel()

	app := newApp(t, store.NewMemory(), failingExtractor())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/export.csv?url=acme.com", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/keywords.txt", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
