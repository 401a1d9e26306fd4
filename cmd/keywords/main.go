package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"seokeys/internal/app"
	"seokeys/internal/config"
	"seokeys/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is loaded from the environment by NewMain.
	Config *config.Config

	// App is set by Run once the configuration is wired.
	App *app.App
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Config: config.Load()}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.App != nil {
		return m.App.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("keywords"),
		kong.Description("Generate SEO keyword suggestions for a website."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'keywords --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Memory {
		m.Config.CacheBackend = config.CacheMemory
	}
	if err := m.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewWithWriter(logger.Config{
		Level:  m.Config.LogLevel,
		Format: "console",
	}, stderr)
	if !cli.Verbose {
		log = log.Level(logger.ParseLevel("warn"))
	}

	m.App, err = app.New(ctx, m.Config, log)
	if err != nil {
		return err
	}
	defer m.Close()

	deps.Pipeline = m.App.Pipeline

	return kongCtx.Run(deps)
}
