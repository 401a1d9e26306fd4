// Package export renders suggestions for download, the clipboard and the
// results table.
package export

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"seokeys/internal/models"
)

// CSVHeader is the first line of every CSV export.
const CSVHeader = "Keyword,Search Volume,Difficulty,Intent,Title Idea"

// CSV renders suggestions as CSV. Keyword and title are always quoted;
// there is no trailing newline.
func CSV(suggestions []models.Suggestion) string {
	lines := make([]string, 0, len(suggestions)+1)
	lines = append(lines, CSVHeader)
	for _, s := range suggestions {
		lines = append(lines, CSVRow(s))
	}
	return strings.Join(lines, "\n")
}

// CSVRow renders one suggestion as a CSV line.
func CSVRow(s models.Suggestion) string {
	return quote(s.Keyword) + "," +
		formatNumber(s.Volume) + "," +
		formatNumber(s.Difficulty) + "," +
		string(s.Intent) + "," +
		quote(s.TitleIdea)
}

// ClipboardText joins the keywords with newlines.
func ClipboardText(suggestions []models.Suggestion) string {
	keywords := make([]string, len(suggestions))
	for i, s := range suggestions {
		keywords[i] = s.Keyword
	}
	return strings.Join(keywords, "\n")
}

// FileName returns the download name for a site's CSV.
func FileName(siteName string) string {
	siteName = strings.TrimSpace(siteName)
	if siteName == "" {
		siteName = "website"
	}
	return "keywords-" + siteName + ".csv"
}

// IntentClass returns the badge CSS class for an intent.
func IntentClass(intent models.Intent) string {
	switch intent {
	case models.IntentInformational:
		return "badge-info"
	case models.IntentCommercial:
		return "badge-commercial"
	case models.IntentTransactional:
		return "badge-transactional"
	case models.IntentNavigational:
		return "badge-navigational"
	}
	return "badge-neutral"
}

// DifficultyClass colours a difficulty score.
func DifficultyClass(difficulty float64) string {
	switch {
	case difficulty <= 0:
		return "text-gray"
	case difficulty <= 30:
		return "text-green"
	case difficulty <= 60:
		return "text-yellow"
	default:
		return "text-red"
	}
}

var printer = message.NewPrinter(language.English)

// FormatVolume renders a search volume with thousands separators.
func FormatVolume(volume float64) string {
	return printer.Sprintf("%d", int64(volume))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
