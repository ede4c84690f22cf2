// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/asynclog"
	"github.com/lixenwraith/asynclog/compat"
)

func main() {
	sink, err := asynclog.NewBuilder().
		Directory("/var/log/fasthttp").
		Prefix("fasthttp").
		LevelString("debug").
		RotateSizeKB(4096).
		Build()
	if err != nil {
		panic(err)
	}
	if err := asynclog.Install(sink); err != nil {
		panic(err)
	}
	defer asynclog.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		sink,
		compat.WithDefaultLevel(asynclog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		asynclog.Critical("server stopped", err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	asynclog.Debug("request", string(ctx.Method()), string(ctx.Path()))
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) int64 {
	if strings.Contains(msg, "connection cannot be served") {
		return asynclog.LevelWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return asynclog.LevelCritical
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
