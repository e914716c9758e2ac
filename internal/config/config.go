// Package config resolves kiosk client settings from flags, falling back to
// environment variables and then to built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults mirror the browser kiosk's socket options.
const (
	DefaultServerURL         = "http://localhost:5000"
	DefaultSocketPath        = "/ws"
	DefaultResetPath         = "/api/reset"
	DefaultReconnectAttempts = 5
	DefaultReconnectDelay    = 1000 * time.Millisecond
	DefaultHandshakeTimeout  = 5000 * time.Millisecond
	DefaultLogLevel          = "info"
	DefaultLogFile           = "recyclekiosk.log"
	DefaultServiceName       = "recyclekiosk"
)

// Config holds the resolved settings for one client run.
type Config struct {
	ServerURL         string
	SocketPath        string
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	HandshakeTimeout  time.Duration
	LogLevel          string
	LogFile           string
	OTLPEndpoint      string
	ServiceName       string
}

// Load parses args (without the program name). getenv supplies defaults for
// every flag; pass os.Getenv in production.
func Load(args []string, getenv func(string) string) (Config, error) {
	var cfg Config
	env := envReader{getenv: getenv}

	fs := flag.NewFlagSet("recyclekiosk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerURL, "server", env.str("KIOSK_SERVER_URL", DefaultServerURL), "kiosk backend base URL (http or https)")
	fs.StringVar(&cfg.SocketPath, "socket-path", env.str("KIOSK_SOCKET_PATH", DefaultSocketPath), "websocket endpoint path on the backend")
	fs.IntVar(&cfg.ReconnectAttempts, "reconnect-attempts", env.int("KIOSK_RECONNECT_ATTEMPTS", DefaultReconnectAttempts), "reconnection attempts before giving up")
	fs.DurationVar(&cfg.ReconnectDelay, "reconnect-delay", env.duration("KIOSK_RECONNECT_DELAY", DefaultReconnectDelay), "delay between reconnection attempts")
	fs.DurationVar(&cfg.HandshakeTimeout, "handshake-timeout", env.duration("KIOSK_HANDSHAKE_TIMEOUT", DefaultHandshakeTimeout), "websocket handshake timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", env.str("LOG_LEVEL", DefaultLogLevel), "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", env.str("LOG_FILE", DefaultLogFile), "log file path")
	fs.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", env.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""), "OTLP/HTTP trace endpoint (host:port); empty disables tracing")
	fs.StringVar(&cfg.ServiceName, "service-name", env.str("OTEL_SERVICE_NAME", DefaultServiceName), "service name reported in traces")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if len(env.errs) > 0 {
		return Config{}, errors.Join(env.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings can be used to dial.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server url %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url %q: scheme must be http or https", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("server url %q: missing host", c.ServerURL)
	}
	if !strings.HasPrefix(c.SocketPath, "/") {
		return fmt.Errorf("socket path %q must start with /", c.SocketPath)
	}
	if c.ReconnectAttempts < 0 {
		return fmt.Errorf("reconnect attempts must not be negative, got %d", c.ReconnectAttempts)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect delay must be positive, got %s", c.ReconnectDelay)
	}
	if c.HandshakeTimeout <= 0 {
		return fmt.Errorf("handshake timeout must be positive, got %s", c.HandshakeTimeout)
	}
	return nil
}

// SocketURL is the websocket endpoint derived from ServerURL.
func (c Config) SocketURL() string {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return ""
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + c.SocketPath
	return u.String()
}

// ResetURL is the reset endpoint derived from ServerURL.
func (c Config) ResetURL() string {
	return strings.TrimSuffix(c.ServerURL, "/") + DefaultResetPath
}

// envReader reads typed environment defaults and collects parse errors.
type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) str(key, fallback string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) int(key string, fallback int) int {
	v := e.getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, v, err))
		return fallback
	}
	return n
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := e.getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, v, err))
		return fallback
	}
	return d
}
