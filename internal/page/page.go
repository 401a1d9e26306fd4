// Package page turns fetched HTML into the compact text handed to the
// language model: page signals (title, meta description, headings) plus
// the main content as markdown with boilerplate removed.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// DefaultMaxContentRunes caps the markdown sent to the model.
const DefaultMaxContentRunes = 12000

const maxHeadings = 20

// Content is what the extractor knows about one page.
type Content struct {
	URL         string
	Title       string
	Description string
	Keywords    string
	Headings    []string
	Markdown    string
}

// Extractor converts HTML to Content.
type Extractor struct {
	conv     *converter.Converter
	maxRunes int
}

// NewExtractor returns an Extractor that truncates markdown to maxRunes
// (DefaultMaxContentRunes when maxRunes <= 0).
func NewExtractor(maxRunes int) *Extractor {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxContentRunes
	}
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	return &Extractor{conv: conv, maxRunes: maxRunes}
}

// Extract parses rawHTML fetched from pageURL.
func (e *Extractor) Extract(pageURL, rawHTML string) (*Content, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, errors.New("empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	c := &Content{
		URL:         pageURL,
		Title:       clean(doc.Find("head title").First().Text()),
		Description: clean(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
		Keywords:    clean(doc.Find(`meta[name="keywords"]`).AttrOr("content", "")),
	}
	if c.Description == "" {
		c.Description = clean(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	}
	doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := clean(s.Text()); text != "" {
			c.Headings = append(c.Headings, text)
		}
		return len(c.Headings) < maxHeadings
	})

	md, title := e.mainContent(rawHTML)
	if c.Title == "" {
		c.Title = title
	}
	if md == "" {
		doc.Find("script, style, noscript, nav, footer").Remove()
		md = clean(doc.Find("body").Text())
	}
	c.Markdown = truncate(md, e.maxRunes)

	return c, nil
}

// mainContent returns the boilerplate-free body as markdown and the
// metadata title, or empty strings when trafilatura finds nothing.
func (e *Extractor) mainContent(rawHTML string) (string, string) {
	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil || result == nil {
		return "", ""
	}

	title := clean(result.Metadata.Title)
	if result.ContentNode == nil {
		return strings.TrimSpace(result.ContentText), title
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return strings.TrimSpace(result.ContentText), title
	}
	md, err := e.conv.ConvertString(buf.String())
	if err != nil {
		return strings.TrimSpace(result.ContentText), title
	}
	return strings.TrimSpace(md), title
}

// PromptContext renders the content as a block to append to a prompt.
func (c *Content) PromptContext() string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<url>%s</url>\n", c.URL)
	if c.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", c.Title)
	}
	if c.Description != "" {
		fmt.Fprintf(&sb, "<description>%s</description>\n", c.Description)
	}
	if c.Keywords != "" {
		fmt.Fprintf(&sb, "<meta_keywords>%s</meta_keywords>\n", c.Keywords)
	}
	if len(c.Headings) > 0 {
		sb.WriteString("<headings>\n")
		for _, h := range c.Headings {
			fmt.Fprintf(&sb, "- %s\n", h)
		}
		sb.WriteString("</headings>\n")
	}
	fmt.Fprintf(&sb, "<content>\n%s\n</content>\n", c.Markdown)
	sb.WriteString("</page>")
	return sb.String()
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes])
}
