package sim

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"recyclekiosk/internal/kiosk"
	"recyclekiosk/internal/logger"
)

// ResetResult is the /api/reset reply.
type ResetResult struct {
	Status string `json:"status"`
}

// Server wires the scenario to the hub and exposes the HTTP surface.
type Server struct {
	Hub      *Hub
	Scenario *Scenario
	log      logger.Logger
	interval time.Duration
	flap     time.Duration
	now      func() time.Time
}

// NewServer creates a server for cfg. Call Run to start the hub and scenario.
func NewServer(cfg ScenarioConfig, log logger.Logger) *Server {
	s := &Server{
		Scenario: NewScenario(cfg),
		log:      log,
		interval: cfg.FrameInterval,
		flap:     cfg.BridgeFlap,
		now:      time.Now,
	}
	s.Hub = NewHub(log, s)
	return s
}

// Router returns the chi router with all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.Hub.ServeWs)
	r.Post("/api/reset", s.handleReset)
	r.Get("/api/status", s.handleStatus)
	return r
}

// Run drives the hub, the scenario ticker and the bridge flapper until ctx is
// done. A non-positive period disables the matching ticker.
func (s *Server) Run(ctx context.Context) {
	go s.Hub.Run(ctx)

	frames := tickEvery(s.interval)
	defer frames.Stop()
	flaps := tickEvery(s.flap)
	defer flaps.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scenario stopped")
			return
		case <-flaps.C:
			s.FlipBridge()
		case <-frames.C:
			msgs, err := s.Scenario.Step(s.now())
			if err != nil {
				s.log.Error("scenario step failed", "error", err)
				continue
			}
			for _, m := range msgs {
				if m.Type != kiosk.WireCameraFrame {
					s.log.Info("event", "type", m.Type, "scenario", s.Scenario.String())
				}
				s.Hub.Broadcast(m.Type, m.Payload)
			}
		}
	}
}

// FlipBridge toggles the simulated MQTT bridge and tells every client.
func (s *Server) FlipBridge() {
	connected := s.Scenario.ToggleBridge()
	s.log.Info("mqtt bridge", "connected", connected)
	s.Hub.Broadcast(kiosk.WireBridgeStatus, kiosk.BridgeStatusPayload{Connected: connected})
}

// Welcome implements Handler. New clients get the snapshot and the bridge state.
func (s *Server) Welcome() []Message {
	app := s.Scenario.AppState()
	return []Message{
		{Type: kiosk.WireInitialState, Payload: kiosk.InitialStatePayload{
			AppState:  app,
			Timestamp: s.now().Format(time.RFC3339),
		}},
		{Type: kiosk.WireBridgeStatus, Payload: kiosk.BridgeStatusPayload{Connected: app.BridgeConnected}},
	}
}

// Handle implements Handler.
func (s *Server) Handle(env kiosk.Envelope) (Message, bool) {
	switch env.Type {
	case kiosk.WireRequestStatus:
		return Message{Type: kiosk.WireStatusUpdate, Payload: s.Scenario.AppState()}, true
	default:
		s.log.Debug("ignoring client event", "type", env.Type)
		return Message{}, false
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Scenario.Reset(s.now())
	s.Hub.Broadcast(kiosk.WireSystemReset, nil)
	s.log.Info("system reset", "kiosk_id", r.Header.Get("X-Kiosk-Id"))
	respondJSON(w, http.StatusOK, ResetResult{Status: "reset_complete"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Scenario.Snapshot(s.now()))
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// periodic wraps time.Ticker so a disabled one has a nil channel that never fires.
type periodic struct {
	C <-chan time.Time
	t *time.Ticker
}

func tickEvery(d time.Duration) periodic {
	if d <= 0 {
		return periodic{}
	}
	t := time.NewTicker(d)
	return periodic{C: t.C, t: t}
}

func (t periodic) Stop() {
	if t.t != nil {
		t.t.Stop()
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
