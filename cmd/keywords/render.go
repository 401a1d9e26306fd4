package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"seokeys/internal/export"
	"seokeys/internal/keywords"
)

func render(w io.Writer, res *keywords.Result, format string) error {
	switch format {
	case "csv":
		_, err := fmt.Fprintln(w, export.CSV(res.Suggestions))
		return err
	case "text":
		_, err := fmt.Fprintln(w, export.ClipboardText(res.Suggestions))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Response())
	}

	source := "generated"
	if res.Cached {
		source = "cached"
	}
	fmt.Fprintf(w, "%s (%s)\n\n", res.URL, source)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEYWORD\tINTENT\tDIFFICULTY\tVOLUME\tTITLE IDEA")
	for _, s := range res.Suggestions {
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\t%s\n", s.Keyword, s.Intent, s.Difficulty, export.FormatVolume(s.Volume), s.TitleIdea)
	}
	return tw.Flush()
}
