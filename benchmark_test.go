// FILE: lixenwraith/asynclog/benchmark_test.go
package asynclog

import (
	"io"
	"testing"
)

func createBenchSink(b *testing.B) *Sink {
	cfg := DefaultConfig()
	cfg.Directory = b.TempDir()
	cfg.Prefix = "bench"
	cfg.CatchSignals = false
	cfg.RotateSizeKB = 64 * 1024

	s, err := NewSink(cfg, WithTerminator(&recorder{}), WithDiagnostics(io.Discard))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = s.Close() })
	return s
}

// BenchmarkSinkWrite measures the producer side of Write
func BenchmarkSinkWrite(b *testing.B) {
	s := createBenchSink(b)
	entry := NewEntry(LevelInfo, "benchmark message")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Write(entry)
	}
	b.StopTimer()
	_, _ = s.FileName().Get()
}

// BenchmarkSinkWriteParallel measures Write under producer contention
func BenchmarkSinkWriteParallel(b *testing.B) {
	s := createBenchSink(b)
	entry := NewEntry(LevelInfo, "parallel benchmark message")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Write(entry)
		}
	})
	b.StopTimer()
	_, _ = s.FileName().Get()
}

// BenchmarkInfo measures the front-end call including caller lookup
func BenchmarkInfo(b *testing.B) {
	s := createBenchSink(b)
	global.mu.Lock()
	global.sink.Store(s)
	global.mu.Unlock()
	b.Cleanup(func() { global.uninstallIf(s) })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Info("benchmark message", i)
	}
}

// BenchmarkFilteredDebug measures a call rejected by the level threshold
func BenchmarkFilteredDebug(b *testing.B) {
	SetLogLevel(LevelInfo)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Debug("filtered", i)
	}
}
