package main

import (
	"context"
	"io"

	"seokeys/internal/keywords"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Pipeline *keywords.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Memory  bool `help:"Use an in-process cache instead of CACHE_BACKEND"`
	Verbose bool `short:"v" help:"Log pipeline activity to stderr"`

	Generate GenerateCmd `cmd:"" help:"Generate keyword suggestions for a website"`
	Lookup   LookupCmd   `cmd:"" help:"Show cached suggestions without calling the extraction service"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	URL    string `arg:"" help:"Website URL (scheme optional)"`
	Format string `short:"f" enum:"table,csv,text,json" default:"table" help:"Output format: table, csv, text or json"`
}

// LookupCmd is the "lookup" subcommand.
type LookupCmd struct {
	URL    string `arg:"" help:"Website URL (scheme optional)"`
	Format string `short:"f" enum:"table,csv,text,json" default:"table" help:"Output format: table, csv, text or json"`
}
