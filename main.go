package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Run with
//		go run . -n 5000 -nnz 50000000 -o test_3.txt
// or serve downloads with
//		go run . -listen :8080
//		curl -o m.txt "localhost:8080/generate?n=5&nnz=10"

var logger = zap.NewNop().Sugar()

func InitLogger() {
	initLogger(true)
}

func initLogger(verbose bool) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		log = zap.NewNop()
	}
	logger = log.Sugar()
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	initLogger(cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		logger.Fatal(err.Error())
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *Config) error {
	if cfg.Listen != "" {
		return serve(ctx, cfg)
	}

	bufSize, err := cfg.BufferBytes()
	if err != nil {
		return err
	}
	p := cfg.Params()
	logger.Infof("generating n=%d nnz=%d into %s", p.N, p.NNZ, cfg.Output)

	start := time.Now()
	written, err := NewGenerator(bufSize).Generate(ctx, p, cfg.Output)
	if err != nil {
		return err
	}
	logger.Infof("wrote %s to %s in %v", humanize.Bytes(uint64(written)), cfg.Output, time.Since(start))
	return nil
}

func serve(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e := echo.New()
	e.HideBanner = true
	if err := Init(e, cfg); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutdown error: %v", err)
		}
	}()

	logger.Infof("serving downloads on %s", cfg.Listen)
	if err := e.Start(cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
