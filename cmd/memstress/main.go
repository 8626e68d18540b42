// Command memstress exercises a memvault pool under random allocation
// churn and demonstrates leak reporting. It is a diagnostic tool: run
// it with -race during development, or with --leak to see what the
// teardown sweep reports for allocations that were never freed.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync"

	flag "github.com/spf13/pflag"

	"github.com/memvault/memvault/alloc"
)

func main() {
	var (
		workers    = flag.Int("workers", 4, "concurrent allocation workers")
		iterations = flag.Int("iterations", 10000, "allocate/free operations per worker")
		maxSize    = flag.Int("max-size", 8192, "maximum single allocation size in bytes")
		leak       = flag.Int("leak", 0, "number of allocations to deliberately leave live")
		seed       = flag.Int64("seed", 1, "PRNG seed")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*workers, *iterations, *maxSize, *leak, *seed, logger); err != nil {
		logger.Error("memstress failed", "error", err)
		os.Exit(1)
	}
}

func run(workers, iterations, maxSize, leak int, seed int64, logger *slog.Logger) error {
	reporter := alloc.LeakReporterFunc(func(leaks []alloc.Leak) {
		logger.Warn("allocations still live at pool close", "count", len(leaks))
		for _, l := range leaks {
			logger.Warn("leak", "addr", fmt.Sprintf("%#x", l.Addr), "size", l.Size)
		}
	})
	pool, err := alloc.New(&alloc.Options{Leaks: reporter, Logger: logger})
	if err != nil {
		return err
	}

	logger.Info("starting churn",
		"workers", workers, "iterations", iterations,
		"max_size", maxSize, "page_size", pool.PageSize())

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			errs <- churn(pool, rand.New(rand.NewSource(seed+int64(id))), iterations, maxSize, leak, id == 0)
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			pool.Close()
			return err
		}
	}

	s := pool.Stats()
	logger.Info("churn complete",
		"pages", s.Pages, "chunks", s.Chunks, "areas", s.Areas, "free_segments", s.FreeSegments)
	return pool.Close()
}

// churn runs random allocate/free operations against the pool. When
// leakBudget is set (first worker only), that many allocations are left
// live so the teardown sweep has something to report.
func churn(pool *alloc.Pool, rng *rand.Rand, iterations, maxSize, leakBudget int, leaker bool) error {
	var held [][]byte
	for i := 0; i < iterations; i++ {
		if len(held) > 0 && rng.Intn(2) == 0 {
			j := rng.Intn(len(held))
			if err := pool.Deallocate(held[j]); err != nil {
				return fmt.Errorf("deallocate: %w", err)
			}
			held = append(held[:j], held[j+1:]...)
			continue
		}
		b, err := pool.Allocate(1 + rng.Intn(maxSize))
		if err != nil {
			return fmt.Errorf("allocate: %w", err)
		}
		held = append(held, b)
	}
	if leaker && leakBudget > len(held) {
		leakBudget = len(held)
	}
	if !leaker {
		leakBudget = 0
	}
	for _, b := range held[leakBudget:] {
		if err := pool.Deallocate(b); err != nil {
			return fmt.Errorf("deallocate: %w", err)
		}
	}
	return nil
}
