// Command board-stress drives headless match-3 boards with random swaps and
// reports frame timings and board activity.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/plus3/gemboard/geom"
	"github.com/plus3/gemboard/internal/logging"
	"github.com/plus3/gemboard/match3"
	"golang.org/x/sync/errgroup"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	boards := flag.Int("boards", runtime.NumCPU(), "Number of boards to run in parallel.")
	width := flag.Uint("width", 10, "Board width.")
	height := flag.Uint("height", 10, "Board height.")
	gemTypes := flag.Uint("gem-types", 3, "Number of gem types.")
	seed := flag.Uint64("seed", 1, "Seed of the first board; board i uses seed+i.")
	logLevel := flag.String("log-level", "info", "Log level.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log := logging.For("board-stress")
	if err := logging.Setup(*logLevel, os.Stderr); err != nil {
		log.WithError(err).Fatal("invalid log level")
	}

	cfg := match3.Config{
		Dimensions: geom.NewUVec2(uint32(*width), uint32(*height)),
		GemTypes:   uint32(*gemTypes),
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid board")
	}

	report := &Report{
		Duration:       *duration,
		Boards:         *boards,
		Width:          cfg.Dimensions.X,
		Height:         cfg.Dimensions.Y,
		GemTypes:       cfg.GemTypes,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.WithField("boards", *boards).Infof("running for %s", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	if err := run(ctx, report, cfg, *seed, 0); err != nil {
		log.WithError(err).Fatal("stress test failed")
	}
	report.TotalTime = time.Since(start)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.WithError(err).Fatal("failed to generate report")
	}
	fmt.Println("--- End of Report ---")
}

// run drives report.Boards workers and merges their results into report.
func run(ctx context.Context, report *Report, cfg match3.Config, seed uint64, maxUpdates int64) error {
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for i := range report.Boards {
		boardCfg := cfg
		boardCfg.Seed = seed + uint64(i)
		g.Go(func() error {
			result, err := runWorker(ctx, boardCfg, boardCfg.Seed, maxUpdates)
			if err != nil {
				return fmt.Errorf("board %d: %w", i, err)
			}
			mu.Lock()
			report.merge(result)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
