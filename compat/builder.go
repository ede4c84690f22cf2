// FILE: lixenwraith/asynclog/compat/builder.go
package compat

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/asynclog"
)

// Builder creates adapters for gnet, fasthttp and zap that share one sink.
// It can use an existing sink or create one from a *asynclog.Config.
type Builder struct {
	sink   *asynclog.Sink
	logCfg *asynclog.Config
	opts   []asynclog.SinkOption
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithSink specifies an existing sink to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithSink(s *asynclog.Sink) *Builder {
	if s == nil {
		b.err = fmt.Errorf("asynclog/compat: provided sink cannot be nil")
		return b
	}
	b.sink = s
	return b
}

// WithConfig provides a configuration for a new sink.
// This is used only if an existing sink is NOT provided via WithSink.
// If neither is used, a sink with the default configuration is created.
func (b *Builder) WithConfig(cfg *asynclog.Config, opts ...asynclog.SinkOption) *Builder {
	b.logCfg = cfg
	b.opts = opts
	return b
}

// getSink resolves the sink to be used, creating one if necessary
func (b *Builder) getSink() (*asynclog.Sink, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.sink != nil {
		return b.sink, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = asynclog.DefaultConfig()
	}

	s, err := asynclog.NewSink(cfg, b.opts...)
	if err != nil {
		return nil, err
	}

	// Cache the newly created sink for subsequent builds with this builder
	b.sink = s
	return s, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	s, err := b.getSink()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(s, opts...), nil
}

// BuildStructuredGnet creates a gnet adapter that lays out key=value pairs
// found in printf-style calls
func (b *Builder) BuildStructuredGnet(opts ...GnetOption) (*StructuredGnetAdapter, error) {
	s, err := b.getSink()
	if err != nil {
		return nil, err
	}
	return NewStructuredGnetAdapter(s, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	s, err := b.getSink()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(s, opts...), nil
}

// BuildZap creates a zap logger writing through the sink
func (b *Builder) BuildZap(opts ...zap.Option) (*zap.Logger, error) {
	s, err := b.getSink()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(s, opts...), nil
}

// BuildZapCore creates a bare core for callers composing their own zap tee
func (b *Builder) BuildZapCore(enab zapcore.LevelEnabler) (zapcore.Core, error) {
	s, err := b.getSink()
	if err != nil {
		return nil, err
	}
	return NewZapCore(s, enab), nil
}

// GetSink returns the underlying sink, creating it if needed
func (b *Builder) GetSink() (*asynclog.Sink, error) {
	return b.getSink()
}

// --- Example Usage ---
//
//	sink, err := asynclog.NewBuilder().Directory("/var/log/app").Prefix("svc").Build()
//	if err != nil { /* handle error */ }
//	_ = asynclog.Install(sink)
//	defer asynclog.Shutdown()
//
//	builder := compat.NewBuilder().WithSink(sink)
//
//	gnetLogger, _ := builder.BuildGnet()
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//
//	zapLogger, _ := builder.BuildZap()
//	zapLogger.Info("request", zap.Int("status", 200))
