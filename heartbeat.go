// FILE: lixenwraith/asynclog/heartbeat.go
package asynclog

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"
)

// startHeartbeat queues a stats entry every HeartbeatIntervalS seconds
func (s *Sink) startHeartbeat() {
	if s.cfg.HeartbeatIntervalS <= 0 {
		return
	}
	s.heartbeatStop = make(chan struct{})
	s.heartbeatDone = make(chan struct{})

	go func() {
		defer close(s.heartbeatDone)
		ticker := time.NewTicker(time.Duration(s.cfg.HeartbeatIntervalS) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-s.heartbeatStop:
				return
			case <-ticker.C:
				if err := s.exec.Submit(s.backgroundHeartbeat); err != nil {
					return
				}
			}
		}
	}()
}

func (s *Sink) stopHeartbeat() {
	if s.heartbeatStop == nil {
		return
	}
	close(s.heartbeatStop)
	<-s.heartbeatDone
}

// backgroundHeartbeat writes one stats entry through the normal write path
func (s *Sink) backgroundHeartbeat() {
	if s.file == nil {
		return
	}
	s.backgroundWrite(NewEntry(LevelInfo, EntryText(LevelInfo, "heartbeat", s.heartbeatMessage())))
}

// heartbeatMessage renders process, file and runtime statistics as key=value pairs
func (s *Sink) heartbeatMessage() string {
	sequence := s.state.HeartbeatSequence.Add(1)
	stats := s.Stats()

	dirSize, fileCount, err := logDirStats(s.dir, s.prefix)
	if err != nil {
		s.internalLog("warning - heartbeat failed to scan log directory: %v\n", err)
		dirSize, fileCount = -1, -1
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	msg := fmt.Sprintf("seq=%d uptime_hours=%.2f entries=%d rotations=%d deletions=%d write_errors=%d "+
		"current_file_kb=%d log_files=%d total_log_kb=%d queue=%d goroutines=%d alloc_mb=%.2f",
		sequence,
		stats.Uptime.Hours(),
		stats.EntriesWritten,
		stats.Rotations,
		stats.Deletions,
		stats.WriteErrors,
		stats.CurrentSize/1024,
		fileCount,
		dirSize/1024,
		stats.QueueDepth,
		runtime.NumGoroutine(),
		float64(memStats.Alloc)/(1000*1000),
	)

	if free, err := diskFreeSpace(filepath.Clean(s.dir)); err == nil {
		msg += fmt.Sprintf(" disk_free_mb=%.2f", float64(free)/(1024*1024))
	}
	return msg
}
