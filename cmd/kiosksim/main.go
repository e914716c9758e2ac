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

	"recyclekiosk/internal/logger"
	"recyclekiosk/internal/sim"
)

type config struct {
	addr     string
	logLevel string
	scenario sim.ScenarioConfig
}

func parseFlags() config {
	cfg := config{scenario: sim.DefaultScenario()}

	flag.StringVar(&cfg.addr, "addr", ":5000", "listen address")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.DurationVar(&cfg.scenario.FrameInterval, "frame-interval", cfg.scenario.FrameInterval, "camera frame period")
	flag.DurationVar(&cfg.scenario.DetectionWindow, "detection-window", cfg.scenario.DetectionWindow, "time an item is tracked before classification")
	flag.DurationVar(&cfg.scenario.TagDelay, "tag-delay", cfg.scenario.TagDelay, "time from classification to the tag read")
	flag.DurationVar(&cfg.scenario.IdleGap, "idle-gap", cfg.scenario.IdleGap, "empty frames between items")
	flag.DurationVar(&cfg.scenario.BridgeFlap, "bridge-flap", cfg.scenario.BridgeFlap, "toggle the MQTT bridge this often (0 keeps it up)")
	flag.IntVar(&cfg.scenario.TagErrorEvery, "tag-error-every", cfg.scenario.TagErrorEvery, "fail every Nth tag read (0 never fails)")
	flag.StringVar(&cfg.scenario.UserName, "user", cfg.scenario.UserName, "simulated card holder name")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kiosksim [flags]\n\n")
		fmt.Fprintf(os.Stderr, "kiosksim serves the recycling kiosk backend contract and plays a\n")
		fmt.Fprintf(os.Stderr, "scripted detection and tag scenario for local development.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if cfg.scenario.DetectionWindow <= 0 {
		fmt.Fprintln(os.Stderr, "error: --detection-window must be positive")
		flag.Usage()
		os.Exit(1)
	}
	return cfg
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "kiosksim: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	log := logger.NewWithLevel(logger.ParseLevel(cfg.logLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := sim.NewServer(cfg.scenario, log)
	go s.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.addr, "scenario", s.Scenario.String())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
