package export_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"seokeys/internal/export"
	"seokeys/internal/models"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	t.Run("single row matches exact format", func(t *testing.T) {
		t.Parallel()

		out := export.CSV([]models.Suggestion{{
			Keyword:    "a",
			Volume:     10,
			Difficulty: 5,
			Intent:     models.IntentInformational,
			TitleIdea:  "b",
		}})

		lines := strings.Split(out, "\n")
		assert.Len(t, lines, 2)
		assert.Equal(t, export.CSVHeader, lines[0])
		assert.Equal(t, `"a",10,5,informational,"b"`, lines[1])
	})

	t.Run("no trailing newline", func(t *testing.T) {
		t.Parallel()

		out := export.CSV([]models.Suggestion{{Keyword: "a", Intent: models.IntentCommercial}})
		assert.False(t, strings.HasSuffix(out, "\n"))
	})

	t.Run("header only for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, export.CSVHeader, export.CSV(nil))
	})

	t.Run("embedded quotes are doubled", func(t *testing.T) {
		t.Parallel()

		row := export.CSVRow(models.Suggestion{
			Keyword:    `say "hi"`,
			Volume:     1500.5,
			Difficulty: 42,
			Intent:     models.IntentTransactional,
			TitleIdea:  "x, y",
		})
		assert.Equal(t, `"say ""hi""",1500.5,42,transactional,"x, y"`, row)
	})
}

func TestClipboardText(t *testing.T) {
	t.Parallel()

	out := export.ClipboardText([]models.Suggestion{{Keyword: "one"}, {Keyword: "two"}, {Keyword: "three"}})
	assert.Equal(t, "one\ntwo\nthree", out)
	assert.Equal(t, "", export.ClipboardText(nil))
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "keywords-acme.csv", export.FileName("acme"))
	assert.Equal(t, "keywords-website.csv", export.FileName(" "))
}

func TestDifficultyClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		difficulty float64
		want       string
	}{
		{0, "text-gray"},
		{1, "text-green"},
		{30, "text-green"},
		{31, "text-yellow"},
		{60, "text-yellow"},
		{61, "text-red"},
		{100, "text-red"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, export.DifficultyClass(tt.difficulty), "difficulty %v", tt.difficulty)
	}
}

func TestIntentClass(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "badge-info", export.IntentClass(models.IntentInformational))
	assert.Equal(t, "badge-neutral", export.IntentClass(models.Intent("other")))
}

func TestFormatVolume(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", export.FormatVolume(0))
	assert.Equal(t, "950", export.FormatVolume(950))
	assert.Equal(t, "12,500", export.FormatVolume(12500))
	assert.Equal(t, "1,200,000", export.FormatVolume(1200000))
}
