package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_till/internal/app"
	"github.com/fjod/go_till/internal/config"
	h "github.com/fjod/go_till/internal/http"
	"github.com/fjod/go_till/internal/observability"
	"github.com/fjod/go_till/pkg/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "reportd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("reportd", os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := observability.Setup(ctx, observability.Settings{
		ServiceName:    config.ServiceName + "-reportd",
		ServiceVersion: config.ServiceVersion,
		Endpoint:       cfg.Otel.Endpoint,
		Insecure:       cfg.Otel.Insecure,
	})
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Service:     config.ServiceName + "-reportd",
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, closeStore, err := app.OpenStore(cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("failed to close store", zap.Error(err))
		}
	}()

	handler := h.NewReportHandler(store, store, cfg.HTTP.RequestTimeout, log)
	srv := h.NewServer(cfg.HTTP.Addr, h.NewRouter(handler, cfg.HTTP.RequestTimeout), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), shutdownOtel(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
