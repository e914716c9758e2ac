package sim

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recyclekiosk/internal/kiosk"
)

func fastScenario() ScenarioConfig {
	cfg := DefaultScenario()
	cfg.FrameInterval = 100 * time.Millisecond
	cfg.DetectionWindow = 500 * time.Millisecond
	cfg.TagDelay = 300 * time.Millisecond
	cfg.IdleGap = 200 * time.Millisecond
	cfg.FrameWidth, cfg.FrameHeight = 64, 48
	return cfg
}

// decodeAll round-trips messages through JSON and the client decoder, so the
// assertions see exactly what a kiosk would.
func decodeAll(t *testing.T, msgs []Message) []kiosk.Event {
	t.Helper()
	var out []kiosk.Event
	for _, m := range msgs {
		data, err := json.Marshal(m)
		require.NoError(t, err)
		var env kiosk.Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		ev, err := kiosk.Decode(env.Type, env.Payload)
		require.NoError(t, err, "decode %s", env.Type)
		out = append(out, ev)
	}
	return out
}

// run steps the scenario every interval from start for n frames.
func run(t *testing.T, s *Scenario, start time.Time, interval time.Duration, n int) []kiosk.Event {
	t.Helper()
	var events []kiosk.Event
	for i := 0; i < n; i++ {
		msgs, err := s.Step(start.Add(time.Duration(i) * interval))
		require.NoError(t, err)
		events = append(events, decodeAll(t, msgs)...)
	}
	return events
}

func TestScenario_FullCycle(t *testing.T) {
	cfg := fastScenario()
	s := NewScenario(cfg)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// One full item: idle 0-200ms, tracking 200-700ms, tag read at 1000ms.
	events := run(t, s, start, cfg.FrameInterval, 12)

	var (
		sawNullDetection bool
		maxProgress      float64
		detected         []kiosk.MaterialID
		results          []kiosk.ProcessingResult
		waiting          int
	)
	for _, ev := range events {
		switch ev := ev.(type) {
		case kiosk.CameraFrame:
			if ev.Detection == nil {
				sawNullDetection = true
				continue
			}
			assert.Equal(t, kiosk.MaterialPlastic, ev.Detection.Material)
			assert.GreaterOrEqual(t, ev.Detection.Progress, maxProgress, "progress ramps")
			maxProgress = ev.Detection.Progress
		case kiosk.MaterialDetected:
			detected = append(detected, ev.Material)
		case kiosk.WaitingForTag:
			waiting++
		case kiosk.MaterialProcessed:
			results = append(results, ev.Result)
		}
	}

	assert.True(t, sawNullDetection, "idle frames carry a null detection")
	assert.Equal(t, 1.0, maxProgress)
	assert.Equal(t, []kiosk.MaterialID{kiosk.MaterialPlastic}, detected)
	assert.Positive(t, waiting)
	require.Len(t, results, 1)
	assert.Equal(t, 20, results[0].PointsEarned)
	assert.Equal(t, cfg.StartingPoints, results[0].User.PreviousPoints)
	assert.Equal(t, cfg.StartingPoints+20, results[0].User.NewTotalPoints)
	assert.Equal(t, cfg.UserName, results[0].User.Name)
}

func TestScenario_MaterialsAlternateAndPointsAccumulate(t *testing.T) {
	cfg := fastScenario()
	s := NewScenario(cfg)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var results []kiosk.ProcessingResult
	for _, ev := range run(t, s, start, cfg.FrameInterval, 60) {
		if p, ok := ev.(kiosk.MaterialProcessed); ok {
			results = append(results, p.Result)
		}
	}
	require.GreaterOrEqual(t, len(results), 2)
	assert.Equal(t, kiosk.MaterialPlastic, results[0].Material)
	assert.Equal(t, kiosk.MaterialAluminum, results[1].Material)
	assert.Equal(t, 30, results[1].PointsEarned)
	assert.Equal(t, results[0].User.NewTotalPoints, results[1].User.PreviousPoints)

	snap := s.Snapshot(start)
	assert.GreaterOrEqual(t, snap.Stats.MaterialsToday, 2)
	assert.Equal(t, "active", snap.Status)
}

func TestScenario_TagErrors(t *testing.T) {
	cfg := fastScenario()
	cfg.TagErrorEvery = 1
	s := NewScenario(cfg)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var tagErrors int
	for _, ev := range run(t, s, start, cfg.FrameInterval, 30) {
		switch ev := ev.(type) {
		case kiosk.TagReadError:
			tagErrors++
			assert.Equal(t, "Tarjeta no registrada", ev.Message)
		case kiosk.MaterialProcessed:
			t.Fatal("every read fails, nothing is credited")
		}
	}
	assert.Positive(t, tagErrors)
}

func TestScenario_ResetReturnsToIdle(t *testing.T) {
	cfg := fastScenario()
	s := NewScenario(cfg)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run(t, s, start, cfg.FrameInterval, 10) // tracking or waiting by now

	reset := start.Add(time.Second)
	s.Reset(reset)
	snap := s.Snapshot(reset)
	assert.Nil(t, snap.ActiveDetection)
	assert.Nil(t, snap.DetectedMaterial)
	assert.Zero(t, snap.Progress)

	msgs, err := s.Step(reset.Add(cfg.FrameInterval))
	require.NoError(t, err)
	events := decodeAll(t, msgs)
	require.Len(t, events, 1)
	frame, ok := events[0].(kiosk.CameraFrame)
	require.True(t, ok)
	assert.Nil(t, frame.Detection)
}

func TestRenderFrame(t *testing.T) {
	url, err := renderFrame(64, 48, kiosk.MaterialAluminum, 0.5)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	_, data, _ := strings.Cut(url, ",")
	raw, err := decodeBase64(data)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#2196F3")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x21), c.R)
	assert.Equal(t, uint8(0xf3), c.B)

	_, err = parseHex("blue")
	assert.Error(t, err)
}

func decodeBase64(s string) (io.Reader, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	return bytes.NewReader(b), err
}
