package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scopecrawl/scopecrawl"
	main "github.com/scopecrawl/scopecrawl/cmd/scopecrawl"
	"github.com/scopecrawl/scopecrawl/fs"
	"github.com/scopecrawl/scopecrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cannedFetcher(pages map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			html, ok := pages[url]
			if !ok {
				return "", scopecrawl.Errorf(scopecrawl.EFETCH, "HTTP 404 for %s", url)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func newCrawlCmd(output string) *main.CrawlCmd {
	return &main.CrawlCmd{
		Seed:        "https://a.example/",
		Primary:     "a.example",
		Allowed:     []string{"a.example", "b.example"},
		Blocked:     []string{"evil.example"},
		Output:      output,
		Renderer:    "http",
		Concurrency: 1,
	}
}

var testPages = map[string]string{
	"https://a.example/":      `<html><head><title>Home</title></head><body><a href="/about">About</a><a href="https://b.example/">B</a></body></html>`,
	"https://a.example/about": `<html><head><title>About</title></head><body><p>Since 2001</p></body></html>`,
	"https://b.example/":      `<html><head><title>Partner</title></head><body><a href="/deep">Deep</a></body></html>`,
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes records and records the run", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "out.json")
		var stored *scopecrawl.Run
		var storedVisits []scopecrawl.Visit
		runs := &mock.RunService{
			CreateRunFn: func(_ context.Context, run *scopecrawl.Run, visits []scopecrawl.Visit, records []*scopecrawl.Record) error {
				run.ID = "run-1"
				stored = run
				storedVisits = visits
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Fetcher: cannedFetcher(testPages),
			Runs:    runs,
		}

		err := newCrawlCmd(output).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Recorded 3 pages")
		assert.Contains(t, stdout.String(), output)

		records, err := fs.NewRecordStore(output).LoadRecords(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 3)

		require.NotNil(t, stored)
		assert.Equal(t, "https://a.example/", stored.Seed)
		assert.Equal(t, "a.example", stored.Primary)
		assert.Equal(t, 3, stored.Recorded)
		assert.False(t, stored.FinishedAt.Before(stored.StartedAt))
		assert.Len(t, storedVisits, 3)
	})

	t.Run("writes metrics file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cmd := newCrawlCmd(filepath.Join(dir, "out.json"))
		cmd.MetricsFile = filepath.Join(dir, "scopecrawl.prom")

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Fetcher: cannedFetcher(testPages),
		}

		require.NoError(t, cmd.Run(deps))

		data, err := os.ReadFile(cmd.MetricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `scopecrawl_fetches_total{outcome="ok"} 3`)
		assert.Contains(t, string(data), `scopecrawl_pages_total{status="recorded"} 3`)
	})

	t.Run("rejects missing primary domain", func(t *testing.T) {
		t.Parallel()

		cmd := newCrawlCmd(filepath.Join(t.TempDir(), "out.json"))
		cmd.Primary = ""
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Fetcher: cannedFetcher(testPages),
		}

		err := cmd.Run(deps)

		assert.Equal(t, scopecrawl.EINVALID, scopecrawl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
		assert.NoFileExists(t, cmd.Output)
	})

	t.Run("rejects invalid seed", func(t *testing.T) {
		t.Parallel()

		cmd := newCrawlCmd(filepath.Join(t.TempDir(), "out.json"))
		cmd.Seed = "not a url"
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Fetcher: cannedFetcher(testPages),
		}

		err := cmd.Run(deps)

		assert.Equal(t, scopecrawl.EINVALID, scopecrawl.ErrorCode(err))
	})

	t.Run("saves partial output when renderer becomes unavailable", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "out.json")
		inner := cannedFetcher(testPages)
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if url == "https://a.example/" {
					return inner.FetchFn(ctx, url)
				}
				return "", scopecrawl.Errorf(scopecrawl.EUNAVAILABLE, "browser crashed")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Fetcher: fetcher,
		}

		err := newCrawlCmd(output).Run(deps)

		assert.Equal(t, scopecrawl.EUNAVAILABLE, scopecrawl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "crawl stopped early")
		records, loadErr := fs.NewRecordStore(output).LoadRecords(context.Background())
		require.NoError(t, loadErr)
		require.Len(t, records, 1)
		assert.Equal(t, "Home", records[0].Title)
	})

	t.Run("saves output when interrupted", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "out.json")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     ctx,
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Fetcher: cannedFetcher(testPages),
		}

		err := newCrawlCmd(output).Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, stderr.String(), "interrupted")
		assert.FileExists(t, output)
	})

	t.Run("keeps output when history write fails", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "out.json")
		runs := &mock.RunService{
			CreateRunFn: func(context.Context, *scopecrawl.Run, []scopecrawl.Visit, []*scopecrawl.Record) error {
				return scopecrawl.Errorf(scopecrawl.EINTERNAL, "disk full")
			},
		}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Fetcher: cannedFetcher(testPages),
			Runs:    runs,
		}

		require.NoError(t, newCrawlCmd(output).Run(deps))
		assert.FileExists(t, output)
	})
}
