package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recyclekiosk/internal/kiosk"
	"recyclekiosk/internal/logger"
)

// chanSender collects everything the client sends.
type chanSender struct {
	ch chan tea.Msg
}

func newChanSender() *chanSender {
	return &chanSender{ch: make(chan tea.Msg, 64)}
}

func (s *chanSender) Send(msg tea.Msg) { s.ch <- msg }

func (s *chanSender) next(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-s.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func testConfig(url string) Config {
	return Config{
		URL:              url,
		MaxAttempts:      5,
		RetryDelay:       5 * time.Millisecond,
		HandshakeTimeout: time.Second,
		KioskID:          "kiosk-test",
	}
}

var upgrader = websocket.Upgrader{}

func TestClient_ReceivesEventsAndEmits(t *testing.T) {
	received := make(chan kiosk.Envelope, 1)
	var gotID atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID.Store(r.Header.Get(KioskIDHeader))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"initial_state","payload":{"app_state":{"camera_active":true,"nfc_active":true,"mqtt_connected":false}}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"contenedor_update","payload":{}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"camera_frame","payload":{"frame":"data:x","fps":10,"deteccion_activa":"aluminio","progreso":0.5}}`))

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env kiosk.Envelope
		if json.Unmarshal(data, &env) == nil {
			received <- env
		}
	}))
	defer srv.Close()

	sender := newChanSender()
	c := New(testConfig(wsURL(srv)), sender, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.Equal(t, kiosk.Connected{}, sender.next(t))
	require.Equal(t, kiosk.InitialSnapshot{State: kiosk.AppState{CameraActive: true, NFCActive: true}}, sender.next(t))
	frame, ok := sender.next(t).(kiosk.CameraFrame)
	require.True(t, ok, "malformed and unknown frames are skipped")
	require.NotNil(t, frame.Detection)
	assert.Equal(t, kiosk.MaterialAluminum, frame.Detection.Material)

	assert.True(t, c.Connected())
	require.NoError(t, c.RequestStatus())
	select {
	case env := <-received:
		assert.Equal(t, kiosk.WireRequestStatus, env.Type)
		assert.Empty(t, env.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("server never got request_status")
	}
	assert.Equal(t, "kiosk-test", gotID.Load())

	_, ok = sender.next(t).(kiosk.Disconnected)
	assert.True(t, ok, "server closing the socket raises Disconnected")
}

func TestClient_GivesUpAfterRetryBudget(t *testing.T) {
	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		http.Error(w, "no socket here", http.StatusNotFound)
	}))
	defer srv.Close()

	sender := newChanSender()
	c := New(testConfig(wsURL(srv)), sender, logger.Discard())
	err := c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReconnectFailed))
	assert.Equal(t, int32(6), dials.Load(), "one initial dial plus five retries")

	failures := 0
	for len(sender.ch) > 0 {
		if _, ok := (<-sender.ch).(kiosk.ConnectFailed); ok {
			failures++
		}
	}
	assert.Equal(t, 6, failures)
}

func TestClient_EmitWhileDisconnected(t *testing.T) {
	c := New(testConfig("ws://127.0.0.1:1"), newChanSender(), logger.Discard())
	assert.False(t, c.Connected())
	assert.ErrorIs(t, c.RequestStatus(), ErrNotConnected)
}

func TestClient_EmitEncodeError(t *testing.T) {
	c := New(testConfig("ws://127.0.0.1:1"), newChanSender(), logger.Discard())
	err := c.Emit("bad", make(chan int))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotConnected))
}

func TestClient_CancelStopsRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	sender := newChanSender()
	c := New(testConfig(wsURL(srv)), sender, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Equal(t, kiosk.Connected{}, sender.next(t))
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	disc, ok := sender.next(t).(kiosk.Disconnected)
	require.True(t, ok)
	assert.Equal(t, "client shutdown", disc.Reason)
	assert.False(t, c.Connected())
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := dials.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if n == 1 {
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	sender := newChanSender()
	c := New(testConfig(wsURL(srv)), sender, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	assert.Equal(t, kiosk.Connected{}, sender.next(t))
	_, ok := sender.next(t).(kiosk.Disconnected)
	assert.True(t, ok)
	assert.Equal(t, kiosk.Connected{}, sender.next(t))
	assert.Equal(t, int32(2), dials.Load())
}
