// FILE: lixenwraith/asynclog/state.go
package asynclog

import (
	"sync/atomic"
	"time"
)

// State holds the counters and flags of a sink that other goroutines may read.
// Everything else about the open file is owned by the executor goroutine.
type State struct {
	Started      atomic.Bool // producer calls are accepted
	CloseCalled  atomic.Bool
	LoggerClosed atomic.Bool // trailer written and file closed

	CurrentPath atomic.Value // stores string
	CurrentSize atomic.Int64 // bytes in the active file, including pre-existing content

	StartTime          atomic.Value // stores time.Time
	TotalLogsProcessed atomic.Uint64
	TotalRotations     atomic.Uint64
	TotalDeletions     atomic.Uint64
	TotalWriteErrors   atomic.Uint64
	HeartbeatSequence  atomic.Uint64
}

func newState() *State {
	s := &State{}
	s.CurrentPath.Store("")
	s.StartTime.Store(time.Time{})
	return s
}

func (st *State) path() string {
	p, _ := st.CurrentPath.Load().(string)
	return p
}

func (st *State) startTime() time.Time {
	t, _ := st.StartTime.Load().(time.Time)
	return t
}

// Stats returns a snapshot of the sink's counters
func (s *Sink) Stats() Stats {
	var uptime time.Duration
	if start := s.state.startTime(); !start.IsZero() {
		uptime = time.Since(start)
	}
	return Stats{
		EntriesWritten: s.state.TotalLogsProcessed.Load(),
		Rotations:      s.state.TotalRotations.Load(),
		Deletions:      s.state.TotalDeletions.Load(),
		WriteErrors:    s.state.TotalWriteErrors.Load(),
		CurrentSize:    s.state.CurrentSize.Load(),
		QueueDepth:     s.exec.Pending(),
		FilePath:       s.state.path(),
		Uptime:         uptime,
	}
}
