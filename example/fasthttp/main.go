// FILE: examples/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/dlog"
	"github.com/lixenwraith/dlog/compat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

func main() {
	f, err := dlog.NewBuilder().
		Directory("/var/log/fasthttp").
		Async(true).
		PoolSize(2048).
		MaxSizeKB(4096).
		MaxArchives(5).
		Module("http", "info", "file", "http.log").
		Module("access", "info", "file", "access.log").
		Build()
	if err != nil {
		panic(err)
	}
	defer f.Shutdown()

	builder := compat.NewBuilder().WithFacility(f)

	// fasthttp server messages with custom level detection
	fasthttpAdapter, err := builder.BuildFastHTTP("http",
		compat.WithDefaultLevel(dlog.SeverityInfo),
		compat.WithLevelDetector(customLevelDetector),
	)
	if err != nil {
		panic(err)
	}

	// Access log through zerolog
	accessWriter, err := builder.BuildZerolog("access")
	if err != nil {
		panic(err)
	}
	access := zerolog.New(accessWriter)

	collector, err := builder.BuildCollector("example")
	if err != nil {
		panic(err)
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)
	metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			if string(ctx.Path()) == "/metrics" {
				metrics(ctx)
				return
			}
			requestHandler(ctx)
			access.Info().
				Str("method", string(ctx.Method())).
				Str("path", string(ctx.Path())).
				Int("status", ctx.Response.StatusCode()).
				Msg("request served")
		},
		Logger: fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) dlog.Severity {
	if strings.Contains(msg, "connection cannot be served") {
		return dlog.SeverityWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return dlog.SeverityError
	}

	return compat.DetectLogLevel(msg)
}
