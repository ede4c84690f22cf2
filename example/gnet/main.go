// FILE: example/gnet/main.go
package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/asynclog"
	"github.com/lixenwraith/asynclog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	cfg, err := asynclog.ApplyOverride(asynclog.DefaultConfig(),
		"directory=/var/log/gnet",
		"prefix=gnet",
		"level=debug",
	)
	if err != nil {
		panic(err)
	}

	builder := compat.NewBuilder().WithConfig(cfg)
	gnetAdapter, err := builder.BuildStructuredGnet()
	if err != nil {
		panic(err)
	}
	sink, _ := builder.GetSink()
	if err := asynclog.Install(sink); err != nil {
		panic(err)
	}
	defer asynclog.Shutdown()

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		asynclog.Critical("gnet stopped", err)
	}
}
