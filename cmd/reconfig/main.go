package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/asynclog"
)

// Moves the log file rapidly while a producer logs constantly
func main() {
	var count atomic.Int64

	sink, err := asynclog.NewBuilder().Directory("./logs").Prefix("reconfig").CatchSignals(false).Build()
	if err != nil {
		fmt.Printf("Initial sink error: %v\n", err)
		return
	}
	if err := asynclog.Install(sink); err != nil {
		fmt.Printf("Install error: %v\n", err)
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			asynclog.Info("Test log", i)
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Alternate between two directories, rotating on every other move
	for i := 0; i < 10; i++ {
		dir := fmt.Sprintf("./logs/set%d", i%2)
		path, err := sink.ChangeFile(dir, "reconfig", i%4 == 0).Get()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ChangeFile error: %v (still writing to %s)\n", err, path)
			continue
		}
		fmt.Printf("Now writing to %s\n", path)
		time.Sleep(10 * time.Millisecond)
	}

	close(stop)
	<-done
	asynclog.Shutdown()

	stats := sink.Stats()
	fmt.Printf("Total logs attempted: %d, written: %d, rotations: %d\n",
		count.Load(), stats.EntriesWritten, stats.Rotations)
}
