package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/dlog"
	"golang.org/x/sync/errgroup"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 6000 // Past message_capacity so truncation is exercised
	numWorkers     = 64
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[dlog]
  async = true
  consumer_cpu = 0
  pool_size = 500
  message_capacity = 4096
  acquire_retries = 3
  acquire_retry_interval_ms = 100
  directory = "./logs"
  max_size_kb = 1024 # Force frequent rotation
  max_archives = 10
  shutdown_timeout_ms = 10000

[dlog.modules.ingest]
  level = "debug"
  output = "file"
  file = "ingest.log"

[dlog.modules.query]
  level = "warn"
  output = "file"
  file = "query.log"

[dlog.modules.metrics]
  level = "info"
  output = "none"
`

var modules = []string{"ingest", "query", "metrics"}

var severities = []dlog.Severity{
	dlog.SeverityDebug,
	dlog.SeverityInfo,
	dlog.SeverityWarn,
	dlog.SeverityError,
}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity across all modules
func logBurst(f *dlog.Facility, loggers []*dlog.Logger, burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		l := loggers[rand.Intn(len(loggers))]
		sev := severities[rand.Intn(len(severities))]
		msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
		f.Emitf(l, sev, "bst=%d seq=%d %s", burstID, i, msg)
	}
}

func main() {
	fmt.Println("--- dlog Stress Test ---")

	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created config file: %s\n", configFile)
	logsDir := "./logs"
	_ = os.RemoveAll(logsDir) // Clean previous run's logs

	cfg, err := dlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	f, err := dlog.New(cfg, dlog.NewFileModuleSource(configFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create facility: %v\n", err)
		os.Exit(1)
	}

	loggers := make([]*dlog.Logger, 0, len(modules))
	for _, name := range modules {
		l, err := f.Register(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register module '%s': %v\n", name, err)
			os.Exit(1)
		}
		loggers = append(loggers, l)
	}
	fmt.Printf("Facility initialized. Logs will be written to: %s\n", logsDir)

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	burstChan := make(chan int, numWorkers)
	completedBursts := atomic.Int64{}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			for burstID := range burstChan {
				logBurst(f, loggers, burstID)
				completed := completedBursts.Add(1)
				if completed%10 == 0 || completed == totalBursts {
					fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
				}
			}
			return nil
		})
	}

	startTime := time.Now()
submit:
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-gctx.Done():
			fmt.Println("\n[Signal Received] Halting burst submission.")
			break submit
		}
	}
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	_ = g.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Records/sec: %.2f\n", logsPerSec)
	}

	if err := f.Flush(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
	}

	stats := f.Stats()
	fmt.Printf("Emitted: %d  Written: %d  Dropped: %d  Truncated: %d\n",
		stats.Emitted, stats.Written, stats.Dropped, stats.Truncated)
	fmt.Printf("Rotations: %d  Archives deleted: %d  Diagnostics: %d\n",
		stats.Rotations, stats.ArchivesDeleted, stats.Diagnostics)

	fmt.Println("Shutting down facility...")
	if err := f.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	} else {
		fmt.Println("Shutdown complete.")
	}

	fmt.Println("Pool state after shutdown:")
	f.DumpPool(os.Stdout)

	fmt.Printf("Check log files in '%s' and the config '%s'.\n", logsDir, configFile)
}
