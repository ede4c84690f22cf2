//go:build unix

package main

import (
	"fmt"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/lixenwraith/asynclog"
)

var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Log a few entries and end the process through the fatal path",
	Long: `Install a sink, log a few entries and then either log a FATAL entry or
deliver a fatal signal to the process. The log file ends with the fatal entry
and the flush notice, and the process is killed by the fatal signal.`,
	Args: cobra.NoArgs,
	RunE: runCrash,
}

var crashSignal string

func init() {
	rootCmd.AddCommand(crashCmd)
	crashCmd.Flags().StringVar(&crashSignal, "signal", "", "deliver SIGTERM, SIGSEGV, SIGFPE, SIGILL or SIGABRT instead of logging FATAL")
}

func runCrash(cmd *cobra.Command, args []string) error {
	var sig syscall.Signal
	if crashSignal != "" {
		var ok bool
		if sig, ok = parseSignal(crashSignal); !ok {
			return fmt.Errorf("unsupported signal %q", crashSignal)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Signal delivery only reaches the sink with the handler installed
	cfg.CatchSignals = true

	sink, err := asynclog.NewSink(cfg)
	if err != nil {
		return err
	}
	if err := asynclog.Install(sink); err != nil {
		return err
	}
	path, _ := sink.FileName().Get()
	fmt.Fprintf(cmd.ErrOrStderr(), "logging to %s\n", path)

	for i := 1; i <= 3; i++ {
		asynclog.Info("entry before crash", i)
	}

	if sig == 0 {
		asynclog.Fatal("crash requested from the command line")
	} else if err := unix.Kill(unix.Getpid(), sig); err != nil {
		return err
	}

	// The terminator ends the process; this is reached only if it does not
	time.Sleep(time.Second)
	return fmt.Errorf("process survived the fatal path")
}

func parseSignal(name string) (syscall.Signal, bool) {
	for _, sig := range []syscall.Signal{syscall.SIGABRT, syscall.SIGFPE, syscall.SIGILL, syscall.SIGSEGV, syscall.SIGTERM} {
		if asynclog.SignalName(sig) == name || asynclog.SignalName(sig) == "SIG"+name {
			return sig, true
		}
	}
	return 0, false
}
