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
	"github.com/fjod/go_till/internal/console"
	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/observability"
	"github.com/fjod/go_till/internal/session"
	"github.com/fjod/go_till/pkg/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "till: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("till", os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := observability.Setup(ctx, observability.Settings{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
		Endpoint:       cfg.Otel.Endpoint,
		Insecure:       cfg.Otel.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOtel(flushCtx)
	}()

	log, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Service:     config.ServiceName,
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

	pub := app.NewPublisher(cfg.Kafka, log)
	defer func() { _ = pub.Close() }()

	controller, err := session.Open(ctx, session.Config{
		Catalog:       store,
		History:       store,
		Publisher:     pub,
		Logger:        log,
		RestockOnVoid: cfg.Ledger.RestockOnVoid,
	})
	if err != nil {
		return err
	}

	// the pending read cannot be interrupted; the session ends at the next
	// prompt and a second signal kills the process
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			stop()
			log.Info("interrupted, the session ends at the next prompt")
		case <-finished:
		}
	}()

	term := console.NewTerminal(os.Stdin, os.Stdout, console.ShopInfo{
		Name:           cfg.Shop.Name,
		CurrencySymbol: cfg.Shop.CurrencySymbol,
		GCashAccount:   cfg.Shop.GCashAccount,
	})
	_, err = console.NewShell(controller, term, log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		// interrupted: still close the session so the catalog is saved
		if _, err := controller.EndSession(context.Background()); err != nil && !errors.Is(err, domain.ErrPersistence) {
			return err
		}
		return nil
	}
	return err
}
