// Package transport maintains the kiosk's single websocket connection to the
// backend and forwards decoded events to the UI.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"recyclekiosk/internal/jsonutil"
	"recyclekiosk/internal/kiosk"
	"recyclekiosk/internal/logger"
)

const writeWait = 10 * time.Second

// KioskIDHeader identifies this kiosk on the handshake and on HTTP calls.
const KioskIDHeader = "X-Kiosk-Id"

var (
	// ErrNotConnected is returned by Emit while no connection is up.
	ErrNotConnected = errors.New("transport: not connected")
	// ErrReconnectFailed is returned by Run once the retry budget is spent.
	ErrReconnectFailed = errors.New("transport: reconnection attempts exhausted")
)

// Sender receives decoded events (matches *tea.Program).
type Sender interface {
	Send(msg tea.Msg)
}

// Config is the connection and retry policy.
type Config struct {
	URL string
	// MaxAttempts is the number of retries after a failed dial or a dropped
	// connection. A successful handshake restores the full budget.
	MaxAttempts      int
	RetryDelay       time.Duration
	HandshakeTimeout time.Duration
	KioskID          string
}

// Client owns one websocket at a time. Run is the only goroutine that dials
// or reads; Emit may be called from any goroutine.
type Client struct {
	cfg    Config
	sender Sender
	log    logger.Logger
	dialer *websocket.Dialer

	mu   sync.Mutex // guards conn and serialises writes
	conn *websocket.Conn
}

// New creates an idle client. Call Run to connect.
func New(cfg Config, sender Sender, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		sender: sender,
		log:    log,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}
}

// Run connects and keeps the connection alive until ctx is done or the retry
// budget is exhausted. Lifecycle changes are delivered as kiosk.Connected,
// kiosk.Disconnected and kiosk.ConnectFailed.
func (c *Client) Run(ctx context.Context) error {
	attempts := 0
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warn("websocket dial failed", "url", c.cfg.URL, "attempt", attempts+1, "error", err)
			c.sender.Send(kiosk.ConnectFailed{Err: err})
			if attempts >= c.cfg.MaxAttempts {
				return fmt.Errorf("%w after %d attempts: %v", ErrReconnectFailed, attempts+1, err)
			}
			attempts++
			if !sleep(ctx, c.cfg.RetryDelay) {
				return nil
			}
			continue
		}

		attempts = 0
		c.setConn(conn)
		c.log.Info("websocket connected", "url", c.cfg.URL)
		c.sender.Send(kiosk.Connected{})

		reason := c.readLoop(ctx, conn)

		c.setConn(nil)
		conn.Close()
		c.log.Info("websocket disconnected", "reason", reason)
		c.sender.Send(kiosk.Disconnected{Reason: reason})

		if ctx.Err() != nil {
			return nil
		}
		if attempts >= c.cfg.MaxAttempts {
			return ErrReconnectFailed
		}
		attempts++
		if !sleep(ctx, c.cfg.RetryDelay) {
			return nil
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if c.cfg.KioskID != "" {
		header.Set(KioskIDHeader, c.cfg.KioskID)
	}
	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", c.cfg.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	return conn, nil
}

// readLoop pumps frames until the connection fails and returns the reason.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) string {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return "client shutdown"
			}
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return fmt.Sprintf("server close %d", ce.Code)
			}
			return err.Error()
		}
		c.dispatch(data)
	}
}

// dispatch decodes one frame. Malformed or unknown frames are logged and dropped.
func (c *Client) dispatch(data []byte) {
	var env kiosk.Envelope
	if err := jsonutil.UnmarshalWithContext(data, &env, "envelope"); err != nil {
		c.log.Warn("dropping malformed frame", "error", err)
		return
	}
	ev, err := kiosk.Decode(env.Type, env.Payload)
	if err != nil {
		if errors.Is(err, kiosk.ErrUnknownEvent) {
			c.log.Debug("ignoring event", "type", env.Type)
		} else {
			c.log.Warn("dropping event", "type", env.Type, "error", err)
		}
		return
	}
	c.sender.Send(ev)
}

// Emit sends one event. payload may be nil.
func (c *Client) Emit(event string, payload any) error {
	raw, err := jsonutil.MarshalRaw(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	msg, err := json.Marshal(kiosk.Envelope{Type: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

// RequestStatus emits the keep-alive status request.
func (c *Client) RequestStatus() error {
	return c.Emit(kiosk.WireRequestStatus, nil)
}

// Connected reports whether a connection is currently up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// sleep waits d or until ctx is done. It returns false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
