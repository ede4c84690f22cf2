package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/asynclog"
)

func main() {
	// Each cycle runs a fresh sink with a different heartbeat interval
	intervals := []struct {
		seconds     int64
		description string
	}{
		{0, "Heartbeats disabled"},
		{1, "Heartbeat every second"},
		{3, "Heartbeat every three seconds"},
	}

	for _, cycle := range intervals {
		sink, err := asynclog.NewBuilder().
			Directory("./logs").
			Prefix("heartbeat").
			LevelString("debug").
			CatchSignals(false).
			Override(fmt.Sprintf("heartbeat_interval_s=%d", cycle.seconds)).
			Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create sink: %v\n", err)
			os.Exit(1)
		}
		if err := asynclog.Install(sink); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to install sink: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n--- Testing heartbeat interval %ds: %s ---\n", cycle.seconds, cycle.description)
		asynclog.Info("Heartbeat test started", "interval", cycle.seconds, "description", cycle.description)

		// Generate some entries so the counters move
		for j := 0; j < 10; j++ {
			asynclog.Debug("Debug test log", "iteration", j)
			asynclog.Info("Info test log", "iteration", j)
			asynclog.Warning("Warning test log", "iteration", j)
			asynclog.Critical("Critical test log", "iteration", j)
			time.Sleep(100 * time.Millisecond)
		}

		waitTime := 4 * time.Second
		fmt.Printf("Waiting %v for heartbeats to generate...\n", waitTime)
		time.Sleep(waitTime)

		stats := sink.Stats()
		fmt.Printf("Entries written: %d, file: %s\n", stats.EntriesWritten, stats.FilePath)
		asynclog.Shutdown()
	}

	fmt.Println("\nHeartbeat test program completed successfully")
	fmt.Println("Check logs directory for [heartbeat] entries")
}
