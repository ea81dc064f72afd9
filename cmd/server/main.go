// Command server runs the konishi feed API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"konishi/internal/config"
	"konishi/internal/observability"
	"konishi/internal/server"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

const appVersion = "1.0.0"

func main() {
	fmt.Println(color.HiCyanString(" _              _     _     _\n| | _____  _ __ (_)___| |__ (_)\n| |/ / _ \\| '_ \\| / __| '_ \\| |\n|   < (_) | | | | \\__ \\ | | | |\n|_|\\_\\___/|_| |_|_|___/_| |_|_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiCyan).Add(color.Bold).Sprint("konishi feed API"), appVersion)
	color.HiBlack("=====================================================\n")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogging(cfg.Env, cfg.LogLevel)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "konishi-api",
		ServiceVersion: appVersion,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
			exitCode = 1
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server resource shutdown error")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Tracing shutdown error")
	}

	cancel()
	stop()
	os.Exit(exitCode)
}
