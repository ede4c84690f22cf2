// FILE: lixenwraith/asynclog/builder.go
package asynclog

// Builder provides a fluent API for building sink configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []SinkOption
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Config returns a validated copy of the accumulated configuration.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	cfg := b.cfg.Clone()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Build creates and starts a Sink. The sink is not installed.
func (b *Builder) Build() (*Sink, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return NewSink(cfg, b.opts...)
}

// Level sets the log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Prefix sets the log file prefix.
func (b *Builder) Prefix(prefix string) *Builder {
	b.cfg.Prefix = prefix
	return b
}

// DateFormat sets the layout of the date column.
func (b *Builder) DateFormat(layout string) *Builder {
	b.cfg.DateFormat = layout
	return b
}

// TimeFormat sets the layout of the time column.
func (b *Builder) TimeFormat(layout string) *Builder {
	b.cfg.TimeFormat = layout
	return b
}

// RotateSizeKB sets the size that triggers rotation.
func (b *Builder) RotateSizeKB(size int64) *Builder {
	b.cfg.RotateSizeKB = size
	return b
}

// MaxRotatedFiles sets how many numbered files are kept.
func (b *Builder) MaxRotatedFiles(n int64) *Builder {
	b.cfg.MaxRotatedFiles = n
	return b
}

// RotateLogs enables or disables size based rotation.
func (b *Builder) RotateLogs(enable bool) *Builder {
	b.cfg.RotateLogs = enable
	return b
}

// TimeBasedNames switches to "<prefix><timestamp>" file names.
func (b *Builder) TimeBasedNames(enable bool) *Builder {
	b.cfg.TimeBasedNames = enable
	return b
}

// Product sets the name and version shown in the session banner.
func (b *Builder) Product(name, version string) *Builder {
	b.cfg.ProductName = name
	b.cfg.ProductVersion = version
	return b
}

// HeartbeatIntervalS sets the stats entry interval.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// CatchSignals controls whether installing the sink also routes fatal OS signals.
func (b *Builder) CatchSignals(enable bool) *Builder {
	b.cfg.CatchSignals = enable
	return b
}

// Override applies "key=value" strings on top of the current values.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	cfg, err := ApplyOverride(b.cfg, overrides...)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg = cfg
	return b
}

// WithOptions adds sink options such as a terminator.
func (b *Builder) WithOptions(opts ...SinkOption) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Example usage:
// sink, err := asynclog.NewBuilder().
//
//	Directory("/var/log/app").
//	Prefix("svc").
//	LevelString("debug").
//	Build()
//
// if err == nil {
//
//	 asynclog.Install(sink)
//	 defer asynclog.Shutdown()
//	 asynclog.Info("sink started")
//
// }
