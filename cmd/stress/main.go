package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/lixenwraith/asynclog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 10000
	numWorkers     = 500
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[asynclog]
  level = "debug"
  prefix = "stress"
  directory = "./logs"
  rotate_size_kb = 1024 # Force frequent rotation
  max_rotated_files = 20 # Older files are deleted past this count
  periodic_sync_ms = 50
  catch_signals = false
`

var levels = []int64{
	asynclog.LevelDebug,
	asynclog.LevelInfo,
	asynclog.LevelWarning,
	asynclog.LevelCritical,
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

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msgSize := rand.Intn(maxMessageSize) + 10
		asynclog.Log(level,
			generateRandomMessage(msgSize),
			"wkr", burstID%numWorkers,
			"bst", burstID,
			"seq", i,
			"rnd", rand.Int63(),
		)
	}
}

func main() {
	fmt.Println("--- Sink Stress Test ---")

	// --- Setup Config ---
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created dummy config file: %s\n", configFile)
	logsDir := "./logs"       // Match config
	_ = os.RemoveAll(logsDir) // Clean previous run's LOGS directory before starting

	cfg, err := asynclog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v.\n", err)
		os.Exit(1)
	}

	// --- Initialize Sink ---
	sink, err := asynclog.NewSink(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create sink: %v\n", err)
		os.Exit(1)
	}
	if err := asynclog.Install(sink); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to install sink: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sink installed. Logs will be written to: %s\n", logsDir)

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Check log directory size and file rotation.")
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	pool, err := ants.NewPoolWithFunc(numWorkers, func(arg any) {
		defer wg.Done()
		logBurst(arg.(int))
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}, ants.WithPreAlloc(true))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create worker pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Release()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT)
	stopChan := make(chan struct{})
	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	// --- Run Test ---
	startTime := time.Now()
submit:
	for i := 1; i <= totalBursts; i++ {
		select {
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			break submit
		default:
		}
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			fmt.Fprintf(os.Stderr, "Failed to submit burst %d: %v\n", i, err)
		}
	}

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Logs/sec submitted: %.2f\n", logsPerSec)
	}

	// --- Shutdown Sink ---
	fmt.Println("Draining queue and shutting down sink...")
	drainStart := time.Now()
	asynclog.Shutdown()
	stats := sink.Stats()
	fmt.Printf("Drained in %v\n", time.Since(drainStart).Round(time.Millisecond))
	fmt.Printf("Entries written: %d, rotations: %d, deletions: %d, write errors: %d\n",
		stats.EntriesWritten, stats.Rotations, stats.Deletions, stats.WriteErrors)

	fmt.Printf("Check log files in '%s'.\n", logsDir)
}
