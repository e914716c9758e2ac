package kiosk

import (
	"fmt"
	"math"
)

// AppState is the snapshot the backend pushes on connect and on status requests.
// A new snapshot replaces the previous one wholesale.
type AppState struct {
	CameraActive    bool `json:"camera_active"`
	NFCActive       bool `json:"nfc_active"`
	BridgeConnected bool `json:"mqtt_connected"`
}

// Lamps are the boolean status indicators shown in the header.
type Lamps struct {
	Camera bool
	NFC    bool
	Bridge bool
}

func allLamps(on bool) Lamps {
	return Lamps{Camera: on, NFC: on, Bridge: on}
}

// CameraView is the live camera readout.
type CameraView struct {
	Image  string // data URL of the last frame
	FPS    float64
	Frames uint64
}

// Detection is the in-progress classification. An empty Material hides the progress UI.
type Detection struct {
	Material MaterialID
	Progress float64 // [0,1]
}

// Visible reports whether the progress UI should be shown.
func (d Detection) Visible() bool {
	return d.Material != ""
}

// Percent returns progress as a whole percentage, clamped to [0,100].
func (d Detection) Percent() int {
	return Percent(d.Progress)
}

// Percent rounds p*100 to the nearest integer after clamping p to [0,1].
func Percent(p float64) int {
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return int(math.Round(p * 100))
}

// PercentLabel formats p the way the progress text and width are written, e.g. "73%".
func PercentLabel(p float64) string {
	return fmt.Sprintf("%d%%", Percent(p))
}

// User is the tag holder credited for a processed item.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"nombre"`
	PreviousPoints int    `json:"puntos_anteriores"`
	NewTotalPoints int    `json:"puntos_nuevos"`
}

// ProcessingResult is the payload of a successful deposit.
type ProcessingResult struct {
	Material     MaterialID `json:"material"`
	User         User       `json:"usuario"`
	PointsEarned int        `json:"puntos"`
}

// ModalKind names the modal dialogs.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalMaterial
	ModalSuccess
	ModalError
)

func (k ModalKind) String() string {
	switch k {
	case ModalNone:
		return "none"
	case ModalMaterial:
		return "material"
	case ModalSuccess:
		return "success"
	case ModalError:
		return "error"
	default:
		return "unknown"
	}
}

// Modal is the single modal slot. Fields other than Kind are populated for the
// kind that uses them.
type Modal struct {
	Kind     ModalKind
	Material MaterialID        // ModalMaterial
	Result   *ProcessingResult // ModalSuccess
	Title    string            // ModalError
	Message  string            // ModalError
}

// Shown reports whether any modal is visible.
func (m Modal) Shown() bool {
	return m.Kind != ModalNone
}

// State is everything the renderer draws.
type State struct {
	Connected bool
	Loading   bool
	App       AppState
	Lamps     Lamps
	Camera    CameraView
	Detection Detection
	Modal     Modal
}

// NewState returns the startup state: disconnected, loading overlay up.
func NewState() State {
	return State{Loading: true}
}

// ScrollLocked reports whether background scrolling is suppressed.
func (s State) ScrollLocked() bool {
	return s.Modal.Shown()
}
