package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/golf-wolf/internal/config"
	"github.com/robalobadob/golf-wolf/internal/export"
	"github.com/robalobadob/golf-wolf/internal/httpserver"
	"github.com/robalobadob/golf-wolf/internal/round"
	"github.com/robalobadob/golf-wolf/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open store")
	}
	defer st.Close()

	svc := round.New(st)
	if cfg.ExportEnabled {
		svc.OnComplete(export.NewWriter(cfg.ExportFile).Hook())
		log.Info().Str("file", cfg.ExportFile).Msg("scorecard export enabled")
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpserver.New(svc, httpserver.Options{
			ClientOrigin:   cfg.ClientOrigin,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("starting golf-wolf")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.DatabasePath)
	case "memory", "":
		return store.NewMemoryStore(), nil
	}
	return nil, errors.New("unknown STORE " + cfg.Store + ` (want "memory" or "sqlite")`)
}
