package sim

import (
	"fmt"
	"math"
	"sync"
	"time"

	"recyclekiosk/internal/kiosk"
)

// ScenarioConfig scripts the simulated detector and tag reader.
type ScenarioConfig struct {
	FrameInterval   time.Duration // camera frame period
	DetectionWindow time.Duration // how long a material must be held to classify
	TagDelay        time.Duration // time from classification to a tag read
	IdleGap         time.Duration // empty frames between two items
	BridgeFlap      time.Duration // MQTT bridge toggle period; 0 keeps it up
	TagErrorEvery   int           // every Nth tag read fails; 0 disables
	FrameWidth      int
	FrameHeight     int
	UserID          string
	UserName        string
	StartingPoints  int
}

// DefaultScenario mirrors the real backend's timings.
func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		FrameInterval:   100 * time.Millisecond,
		DetectionWindow: 5 * time.Second,
		TagDelay:        3 * time.Second,
		IdleGap:         2 * time.Second,
		TagErrorEvery:   0,
		FrameWidth:      320,
		FrameHeight:     240,
		UserID:          "usuario-demo",
		UserName:        "Usuario Demo",
		StartingPoints:  100,
	}
}

type phase int

const (
	phaseIdle phase = iota
	phaseTracking
	phaseWaitingTag
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseTracking:
		return "tracking"
	case phaseWaitingTag:
		return "waiting_tag"
	default:
		return "unknown"
	}
}

// Stats are the running totals reported by /api/status.
type Stats struct {
	MaterialsToday int `json:"materiales_hoy"`
	TotalPoints    int `json:"puntos_totales"`
}

// Snapshot is the /api/status body.
type Snapshot struct {
	Status           string            `json:"status"`
	CameraActive     bool              `json:"camera_active"`
	NFCActive        bool              `json:"nfc_active"`
	BridgeConnected  bool              `json:"mqtt_connected"`
	DetectedMaterial *kiosk.MaterialID `json:"material_detectado"`
	ActiveDetection  *kiosk.MaterialID `json:"deteccion_activa"`
	Progress         float64           `json:"progreso_deteccion"`
	FPS              float64           `json:"fps"`
	Stats            Stats             `json:"stats"`
	Timestamp        string            `json:"timestamp"`
}

// Scenario is the detector state machine. Step is driven by a ticker in
// production and by a fake clock in tests.
type Scenario struct {
	cfg ScenarioConfig

	mu         sync.Mutex
	app        kiosk.AppState
	phase      phase
	material   kiosk.MaterialID // tracked or classified material
	next       int              // index of the next material to present
	since      time.Time        // start of the current phase
	lastFrame  time.Time
	fps        float64
	progress   float64
	tagReads   int
	userPoints int
	stats      Stats
}

// NewScenario creates a scenario that starts idle with every subsystem up.
func NewScenario(cfg ScenarioConfig) *Scenario {
	return &Scenario{
		cfg:        cfg,
		app:        kiosk.AppState{CameraActive: true, NFCActive: true, BridgeConnected: true},
		userPoints: cfg.StartingPoints,
	}
}

// AppState returns the subsystem flags.
func (s *Scenario) AppState() kiosk.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app
}

// ToggleBridge flips the simulated MQTT bridge and returns the new state.
func (s *Scenario) ToggleBridge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.BridgeConnected = !s.app.BridgeConnected
	return s.app.BridgeConnected
}

// Reset drops any tracked or classified material and starts over idle.
func (s *Scenario) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phaseIdle
	s.material = ""
	s.progress = 0
	s.since = now
}

// Snapshot returns the current status.
func (s *Scenario) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Status:          "active",
		CameraActive:    s.app.CameraActive,
		NFCActive:       s.app.NFCActive,
		BridgeConnected: s.app.BridgeConnected,
		Progress:        s.progress,
		FPS:             s.fps,
		Stats:           s.stats,
		Timestamp:       now.Format(time.RFC3339),
	}
	if s.material != "" {
		m := s.material
		if s.phase == phaseWaitingTag {
			snap.DetectedMaterial = &m
		} else {
			snap.ActiveDetection = &m
		}
	}
	return snap
}

// Step advances the scenario to now and returns the messages to broadcast.
func (s *Scenario) Step(now time.Time) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.since.IsZero() {
		s.since = now
	}
	if s.phase == phaseWaitingTag {
		return s.stepWaiting(now), nil
	}

	var out []Message
	switch s.phase {
	case phaseIdle:
		if now.Sub(s.since) >= s.cfg.IdleGap {
			materials := kiosk.Materials()
			s.material = materials[s.next%len(materials)]
			s.phase = phaseTracking
			s.since = now
		}
	case phaseTracking:
		s.progress = math.Min(float64(now.Sub(s.since))/float64(s.cfg.DetectionWindow), 1)
	}

	frame, err := s.frame(now)
	if err != nil {
		return nil, err
	}
	out = append(out, frame)

	if s.phase == phaseTracking && now.Sub(s.since) >= s.cfg.DetectionWindow {
		s.phase = phaseWaitingTag
		s.since = now
		out = append(out, Message{Type: kiosk.WireMaterialDetected, Payload: kiosk.MaterialPayload{
			Material:  s.material,
			Timestamp: now.Format(time.RFC3339),
		}})
	}
	return out, nil
}

func (s *Scenario) frame(now time.Time) (Message, error) {
	if !s.lastFrame.IsZero() {
		if dt := now.Sub(s.lastFrame).Seconds(); dt > 0 {
			s.fps = math.Round(10/dt) / 10
		}
	} else if s.cfg.FrameInterval > 0 {
		s.fps = math.Round(10/s.cfg.FrameInterval.Seconds()) / 10
	}
	s.lastFrame = now

	var active *kiosk.MaterialID
	if s.phase == phaseTracking {
		m := s.material
		active = &m
	} else {
		s.progress = 0
	}
	img, err := renderFrame(s.cfg.FrameWidth, s.cfg.FrameHeight, s.material, s.progress)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: kiosk.WireCameraFrame, Payload: kiosk.CameraFramePayload{
		Frame:           img,
		FPS:             s.fps,
		ActiveDetection: active,
		Progress:        s.progress,
		Timestamp:       float64(now.UnixMilli()) / 1000,
	}}, nil
}

// stepWaiting emits waiting_nfc every frame until the simulated tag read.
func (s *Scenario) stepWaiting(now time.Time) []Message {
	out := []Message{{Type: kiosk.WireWaitingForTag, Payload: kiosk.MaterialPayload{
		Material:  s.material,
		Timestamp: now.Format(time.RFC3339),
	}}}
	if now.Sub(s.since) < s.cfg.TagDelay {
		return out
	}

	s.tagReads++
	if s.cfg.TagErrorEvery > 0 && s.tagReads%s.cfg.TagErrorEvery == 0 {
		s.since = now
		return append(out, Message{Type: kiosk.WireTagReadError, Payload: kiosk.TagErrorPayload{
			Message: "Tarjeta no registrada",
		}})
	}

	cfg, _ := kiosk.Lookup(s.material)
	prev := s.userPoints
	s.userPoints += cfg.Points
	s.stats.MaterialsToday++
	s.stats.TotalPoints += cfg.Points
	out = append(out, Message{Type: kiosk.WireMaterialProcessed, Payload: kiosk.MaterialProcessedPayload{
		ProcessingResult: kiosk.ProcessingResult{
			Material: s.material,
			User: kiosk.User{
				ID:             s.cfg.UserID,
				Name:           s.cfg.UserName,
				PreviousPoints: prev,
				NewTotalPoints: s.userPoints,
			},
			PointsEarned: cfg.Points,
		},
		Timestamp: now.Format(time.RFC3339),
	}})

	s.phase = phaseIdle
	s.material = ""
	s.progress = 0
	s.next++
	s.since = now
	return out
}

func (s *Scenario) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s %s %.2f", s.phase, s.material, s.progress)
}
