package ui

import "recyclekiosk/internal/kiosk"

// AppMode selects which leader bindings are offered.
type AppMode int

const (
	ModeOffline AppMode = iota
	ModeOnline
)

func (m AppMode) String() string {
	switch m {
	case ModeOffline:
		return "Offline"
	case ModeOnline:
		return "Online"
	default:
		return "Unknown"
	}
}

// modeFor derives the mode from the connection flag.
func modeFor(s kiosk.State) AppMode {
	if s.Connected {
		return ModeOnline
	}
	return ModeOffline
}
