package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"recyclekiosk/internal/config"
	"recyclekiosk/internal/logger"
	"recyclekiosk/internal/resetapi"
	"recyclekiosk/internal/telemetry"
	"recyclekiosk/internal/transport"
	"recyclekiosk/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	fileLog, closer, err := logger.OpenFile(cfg.LogFile, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer closer.Close()

	kioskID := uuid.NewString()
	log := fileLog.With("kiosk_id", kioskID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		KioskID:     kioskID,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	reset := resetapi.New(cfg.ResetURL(),
		resetapi.WithTracer(tp.Tracer()),
		resetapi.WithHeader(transport.KioskIDHeader, kioskID),
	)
	model := ui.NewAppModel(ui.Deps{
		Resetter: reset,
		Log:      log,
		Tracer:   tp.Tracer(),
	})
	program := tea.NewProgram(model.AsTeaModel(), tea.WithAltScreen(), tea.WithMouseCellMotion())

	client := transport.New(transport.Config{
		URL:              cfg.SocketURL(),
		MaxAttempts:      cfg.ReconnectAttempts,
		RetryDelay:       cfg.ReconnectDelay,
		HandshakeTimeout: cfg.HandshakeTimeout,
		KioskID:          kioskID,
	}, program, log)
	model.Link = client

	log.Info("starting", "server", cfg.ServerURL, "tracing", tp.Enabled())
	go func() {
		err := client.Run(ctx)
		program.Send(ui.TransportStoppedMsg{Err: err})
	}()

	if _, err := program.Run(); err != nil {
		return err
	}
	log.Info("stopped")
	return nil
}
