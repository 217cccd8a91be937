package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/solarops/solar-console/client"
	"github.com/solarops/solar-console/credstore"
	"github.com/solarops/solar-console/internal/console"
	"github.com/solarops/solar-console/session"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("console gateway failed")
	}
	log.Info().Msg("console gateway stopped")
}

func run() error {
	cfg := console.LoadConfig()
	displayAppName(cfg.AppName)

	creds := credstore.NewFileStore(cfg.CredentialsFile)
	sdk, err := client.New(cfg.APIBaseURL, creds)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	sess := session.NewStore(sdk.Users(), creds, session.NopNotifier{})
	if err := sess.Initialize(context.Background()); err != nil {
		return fmt.Errorf("session hydration: %w", err)
	}
	log.Info().Stringer("state", sess.State()).Msg("session hydrated")

	gateway := console.NewServer(sdk, sess, creds)
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           gateway.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("api", cfg.APIBaseURL).Msg("console gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Stringer("signal", sig).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	defer gateway.Close()
	return srv.Shutdown(ctx)
}

func displayAppName(name string) {
	figure.NewFigure(name, "cybermedium", true).Print()
	fmt.Println()
}
