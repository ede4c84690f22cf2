package main

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/asynclog"
)

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Append lines from stdin to the log file",
	Long: `Read standard input line by line and append each line as an entry.
Rotation, retention and heartbeats follow the loaded configuration.
With --metrics the sink counters are served for Prometheus while input is read.`,
	Args: cobra.NoArgs,
	RunE: runPipe,
}

var (
	pipeLevel   string
	metricsAddr string
)

func init() {
	rootCmd.AddCommand(pipeCmd)
	pipeCmd.Flags().StringVarP(&pipeLevel, "level", "l", "info", "level of each appended entry")
	pipeCmd.Flags().StringVar(&metricsAddr, "metrics", "", "listen address for /metrics, empty disables")
}

func runPipe(cmd *cobra.Command, args []string) error {
	level, err := asynclog.Level(pipeLevel)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	sink, err := asynclog.NewSink(cfg)
	if err != nil {
		return fmt.Errorf("error creating sink: %w", err)
	}
	if err := asynclog.Install(sink); err != nil {
		_ = sink.Close()
		return fmt.Errorf("error installing sink: %w", err)
	}
	defer asynclog.Shutdown()

	if metricsAddr != "" {
		srv, err := serveMetrics(sink, metricsAddr)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		asynclog.Log(level, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		asynclog.Critical("stdin read failed:", err)
	}

	if err := sink.Sync(); err != nil {
		return err
	}
	stats := sink.Stats()
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d entries to %s (%d rotations)\n",
		stats.EntriesWritten, stats.FilePath, stats.Rotations)
	return nil
}

func serveMetrics(sink *asynclog.Sink, addr string) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	if _, err := asynclog.RegisterMetrics(reg, sink); err != nil {
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "metrics server stopped: %v\n", err)
		}
	}()
	return srv, nil
}
