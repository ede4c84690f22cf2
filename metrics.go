// FILE: lixenwraith/asynclog/metrics.go
package asynclog

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "asynclog"

// Metrics exposes a sink's counters as Prometheus collectors.
// Values are read from the sink at scrape time.
type Metrics struct {
	EntriesWritten prometheus.CounterFunc
	Rotations      prometheus.CounterFunc
	Deletions      prometheus.CounterFunc
	WriteErrors    prometheus.CounterFunc
	CurrentBytes   prometheus.GaugeFunc
	QueueDepth     prometheus.GaugeFunc
}

// NewMetrics builds collectors for s, labelled with the sink's file prefix
func NewMetrics(s *Sink) *Metrics {
	labels := prometheus.Labels{"prefix": s.cfg.Prefix}
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace:   metricsNamespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}
	}

	return &Metrics{
		EntriesWritten: prometheus.NewCounterFunc(prometheus.CounterOpts(opts("entries_written_total", "Entries appended to the log file.")),
			func() float64 { return float64(s.state.TotalLogsProcessed.Load()) }),
		Rotations: prometheus.NewCounterFunc(prometheus.CounterOpts(opts("rotations_total", "Completed log file rotations.")),
			func() float64 { return float64(s.state.TotalRotations.Load()) }),
		Deletions: prometheus.NewCounterFunc(prometheus.CounterOpts(opts("deleted_files_total", "Rotated files removed past the retention limit.")),
			func() float64 { return float64(s.state.TotalDeletions.Load()) }),
		WriteErrors: prometheus.NewCounterFunc(prometheus.CounterOpts(opts("write_errors_total", "Failed writes to the log file.")),
			func() float64 { return float64(s.state.TotalWriteErrors.Load()) }),
		CurrentBytes: prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts("current_file_bytes", "Size of the active log file.")),
			func() float64 { return float64(s.state.CurrentSize.Load()) }),
		QueueDepth: prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts("queue_depth", "Tasks waiting for the background writer.")),
			func() float64 { return float64(s.exec.Pending()) }),
	}
}

// Collectors lists every collector
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.EntriesWritten,
		m.Rotations,
		m.Deletions,
		m.WriteErrors,
		m.CurrentBytes,
		m.QueueDepth,
	}
}

// RegisterMetrics registers collectors for s with reg
func RegisterMetrics(reg prometheus.Registerer, s *Sink) (*Metrics, error) {
	m := NewMetrics(s)
	var err error
	for _, c := range m.Collectors() {
		err = combineErrors(err, reg.Register(c))
	}
	if err != nil {
		return nil, fmtErrorf("failed to register metrics: %w", err)
	}
	return m, nil
}
