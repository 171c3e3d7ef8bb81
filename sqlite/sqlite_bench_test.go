package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateRun stores a full crawl's worth of visits and records per iteration.
func BenchmarkCreateRun(b *testing.B) {
	for _, pages := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("pages_%d", pages), func(b *testing.B) {
			benchmarkCreateRun(b, pages)
		})
	}
}

func benchmarkCreateRun(b *testing.B, pages int) {
	b.Helper()

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	visits := make([]scopecrawl.Visit, pages)
	records := make([]*scopecrawl.Record, pages)
	for i := range pages {
		url := fmt.Sprintf("https://a.example/page%d", i)
		visits[i] = scopecrawl.Visit{URL: url, Parent: "https://a.example", Status: scopecrawl.VisitRecorded}
		records[i] = &scopecrawl.Record{
			Title:   fmt.Sprintf("Page %d", i),
			Content: fmt.Sprintf("%d\n\nFull Page Text:\nPage %d. Lorem ipsum dolor sit amet.", i, i),
		}
	}

	svc := sqlite.NewRunService(db)
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		run := &scopecrawl.Run{Seed: "https://a.example", Primary: "a.example", StartedAt: time.Now()}
		if err := svc.CreateRun(ctx, run, visits, records); err != nil {
			b.Fatal(err)
		}
	}
}
