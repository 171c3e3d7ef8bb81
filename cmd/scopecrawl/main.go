package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Default crawl history path, used when --db is not given.
	DBPath string

	// JSON files consulted for flag defaults, in order.
	ConfigPaths []string

	// SQLite database holding the crawl history. Opened only by commands
	// that need it.
	DB *sqlite.DB

	// NewFetcher builds the page fetcher for the crawl command.
	// Tests replace it to avoid launching a browser.
	NewFetcher func(cmd *CrawlCmd) (scopecrawl.Fetcher, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		ConfigPaths: []string{filepath.Join(xdg.ConfigHome, "scopecrawl", "config.json")},
		NewFetcher:  newFetcher,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:         ctx,
		Stdout:      stdout,
		Stderr:      stderr,
		Interactive: isTerminal(stderr),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scopecrawl"),
		kong.Description("Crawl a primary domain and its allowed satellites into a JSON corpus."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(kong.JSON, m.ConfigPaths...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scopecrawl --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose, cli.LogFormat)

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}

	switch cmd {
	case "crawl":
		fetcher, err := m.NewFetcher(&cli.Crawl)
		if err != nil {
			if scopecrawl.ErrorCode(err) == scopecrawl.EUNAVAILABLE {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --renderer=http")
			}
			return fmt.Errorf("failed to start renderer: %w", err)
		}
		defer fetcher.Close()
		deps.Fetcher = fetcher

		if !cli.Crawl.NoHistory {
			if err := m.openDB(dbPath); err != nil {
				deps.Logger.Warn("crawl history disabled", "db", dbPath, "err", err)
			} else {
				defer m.Close()
				deps.Runs = sqlite.NewRunService(m.DB)
			}
		}

	case "runs":
		if err := m.openDB(dbPath); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SCOPECRAWL_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()
		deps.Runs = sqlite.NewRunService(m.DB)

	case "search":
		if cli.Search.Run != "" {
			if err := m.openDB(dbPath); err != nil {
				fmt.Fprintf(stderr, "Hint: Set SCOPECRAWL_DB or --db to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
			}
			defer m.Close()
			deps.Records = sqlite.NewRecordStore(m.DB, cli.Search.Run)
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB(path string) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return err
	}
	return nil
}

func defaultDBPath() string {
	path, err := xdg.DataFile(filepath.Join("scopecrawl", "history.db"))
	if err != nil {
		return "scopecrawl.db"
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// discardLogger is used by commands run without Main, e.g. from tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
