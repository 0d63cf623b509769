package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noahjb27/berlin-mapping-application/api"
	"github.com/noahjb27/berlin-mapping-application/config"
	"github.com/noahjb27/berlin-mapping-application/logging"
	"github.com/noahjb27/berlin-mapping-application/preprocessing"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	defer logger.Sync()

	if !cfg.EnvFileLoaded {
		logger.Info("no .env file found, using environment and defaults")
	}

	store := preprocessing.NewStore(cfg.GraphFile, cfg.StrictEdges, logger)
	if err := store.Preload(); err != nil {
		// requests retry the load; /health reports unavailable until then
		logger.Warn("graph not loaded at start-up", zap.String("path", cfg.GraphFile), zap.Error(err))
	}

	server := api.NewServer(store, api.Options{
		CacheSize:   cfg.CacheSize,
		CORSOrigins: cfg.CORSOrigins,
	}, logger)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("graph server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("graph", cfg.GraphFile),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
