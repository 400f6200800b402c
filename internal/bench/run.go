// Package bench benchmarks direct gosqlite access against the database/sql
// driver on the same workloads.
package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/neosmart/gosqlite/internal/util/numutil"
	"github.com/neosmart/gosqlite/internal/version"
)

// benchmarkResult stores the outcome of a benchmark.
type benchmarkResult struct {
	Name        string
	Duration    time.Duration
	TotalReads  uint64
	TotalWrites uint64
}

// benchConfig holds all parameters shared by the benchmarks.
type benchConfig struct {
	insertUsers    int
	queryUserTimes int
	blobRows       int
	blobBytes      int
}

func defaultConfig() benchConfig {
	return benchConfig{
		insertUsers:    50_000,
		queryUserTimes: 1_000,
		blobRows:       2_000,
		blobBytes:      10_000,
	}
}

// Run executes the benchmarks for both access paths and prints the results.
func Run(ctx context.Context) error {
	fmt.Println(version.BenchVersion())

	tmpDir, err := os.MkdirTemp("", "gosqlitebench_*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	conf := defaultConfig()

	fmt.Println("\n--- Benchmarks for gosqlite (direct) ---")
	directResults, err := runDirectBenchmarks(filepath.Join(tmpDir, "direct.db"), conf)
	if err != nil {
		return fmt.Errorf("error benchmarking gosqlite: %w", err)
	}
	printResults(directResults)

	fmt.Println("\n--- Benchmarks for gosqlite (database/sql) ---")
	sqlResults, err := runSQLBenchmarks(ctx, filepath.Join(tmpDir, "sql.db"), conf)
	if err != nil {
		return fmt.Errorf("error benchmarking database/sql driver: %w", err)
	}
	printResults(sqlResults)

	return nil
}

func printResults(results []benchmarkResult) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
	tw.AppendHeader(table.Row{"Name", "Reads", "Writes", "Duration"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Name,
			numutil.WithCommas(r.TotalReads),
			numutil.WithCommas(r.TotalWrites),
			r.Duration,
		})
	}

	fmt.Println(tw.Render())
}
