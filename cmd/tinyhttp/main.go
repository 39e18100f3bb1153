package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dqx0.com/go/tinyhttp/httpx"
	"dqx0.com/go/tinyhttp/internal/obs"
)

func main() {
	var (
		addr      = flag.String("addr", httpx.DefaultAddr, "listen address")
		dir       = flag.String("directory", "", "directory served under /files/")
		level     = flag.String("log-level", "info", "debug, info, warn or error")
		format    = flag.String("log-format", "console", "console or json")
		maxReq    = flag.Int("max-request-bytes", httpx.DefaultMaxRequestBytes, "size of the request read buffer")
		readTO    = flag.Duration("read-timeout", 10*time.Second, "time allowed to receive a request")
		writeTO   = flag.Duration("write-timeout", 10*time.Second, "time allowed to send a response")
		graceTime = flag.Duration("shutdown-timeout", 5*time.Second, "time allowed for in-flight requests on shutdown")
	)
	flag.Parse()

	lvl, err := obs.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := obs.NewZerolog(os.Stderr, lvl, *format != "json")

	if *dir != "" {
		if fi, err := os.Stat(*dir); err != nil || !fi.IsDir() {
			logger.Logf(obs.Warn, "directory %q is not accessible; /files/ requests will fail", *dir)
		}
	}

	meter := obs.NewMemoryMeter()
	s := &httpx.Server{
		Addr:            *addr,
		Router:          httpx.NewRouter(httpx.RouterConfig{Directory: *dir}, httpx.WithLogger(logger)),
		ReadTimeout:     *readTO,
		WriteTimeout:    *writeTO,
		MaxRequestBytes: *maxReq,
		Logger:          logger,
		Meter:           meter,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe() }()

	select {
	case err := <-errc:
		logger.Logf(obs.Error, "serve: %v", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), *graceTime)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		logger.Logf(obs.Warn, "shutdown: %v", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, httpx.ErrServerClosed) {
		logger.Logf(obs.Error, "serve: %v", err)
	}
	logger.Event(obs.Info, "stopped", map[string]interface{}{"counters": meter.Snapshot()})
}
