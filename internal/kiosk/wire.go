package kiosk

import (
	"encoding/json"
	"errors"
	"fmt"

	"recyclekiosk/internal/jsonutil"
)

// Wire event names. These are a fixed contract with the kiosk backend.
const (
	WireInitialState      = "initial_state"
	WireCameraFrame       = "camera_frame"
	WireMaterialDetected  = "material_detectado"
	WireWaitingForTag     = "waiting_nfc"
	WireMaterialProcessed = "material_procesado"
	WireTagReadError      = "nfc_error"
	WireBridgeStatus      = "mqtt_status"
	WireSystemReset       = "system_reset"
	WireStatusUpdate      = "status_update"

	// WireRequestStatus is the only event the client sends.
	WireRequestStatus = "request_status"
)

// ErrUnknownEvent is returned by Decode for names outside the contract.
var ErrUnknownEvent = errors.New("unknown event")

// Envelope is one websocket text frame.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// InitialStatePayload is sent once per connection.
type InitialStatePayload struct {
	AppState  AppState `json:"app_state"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// CameraFramePayload is one detector frame. ActiveDetection is null when
// nothing is being tracked.
type CameraFramePayload struct {
	Frame           string      `json:"frame"`
	FPS             float64     `json:"fps"`
	ActiveDetection *MaterialID `json:"deteccion_activa"`
	Progress        float64     `json:"progreso"`
	Timestamp       float64     `json:"timestamp,omitempty"`
}

// MaterialPayload is shared by material_detectado and waiting_nfc.
type MaterialPayload struct {
	Material  MaterialID `json:"material"`
	Timestamp string     `json:"timestamp,omitempty"`
}

// MaterialProcessedPayload is a ProcessingResult plus the server timestamp.
type MaterialProcessedPayload struct {
	ProcessingResult
	Timestamp string `json:"timestamp,omitempty"`
}

// TagErrorPayload carries the human-readable NFC failure.
type TagErrorPayload struct {
	Message string `json:"message"`
}

// BridgeStatusPayload reports MQTT connectivity.
type BridgeStatusPayload struct {
	Connected bool `json:"connected"`
}

// Decode turns a wire event into an Event. Payload keys the client does not
// use are ignored.
func Decode(name string, payload json.RawMessage) (Event, error) {
	ctx := name + " payload"
	switch name {
	case WireInitialState:
		var p InitialStatePayload
		if err := jsonutil.UnmarshalOptional(payload, &p, ctx); err != nil {
			return nil, err
		}
		return InitialSnapshot{State: p.AppState}, nil
	case WireStatusUpdate:
		var p AppState
		if err := jsonutil.UnmarshalOptional(payload, &p, ctx); err != nil {
			return nil, err
		}
		return StatusUpdate{State: p}, nil
	case WireCameraFrame:
		var p CameraFramePayload
		if err := jsonutil.UnmarshalWithContext(payload, &p, ctx); err != nil {
			return nil, err
		}
		ev := CameraFrame{Image: p.Frame, FPS: p.FPS}
		if p.ActiveDetection != nil && *p.ActiveDetection != "" {
			ev.Detection = &DetectionReading{Material: *p.ActiveDetection, Progress: p.Progress}
		}
		return ev, nil
	case WireMaterialDetected:
		var p MaterialPayload
		if err := jsonutil.UnmarshalWithContext(payload, &p, ctx); err != nil {
			return nil, err
		}
		return MaterialDetected{Material: p.Material}, nil
	case WireWaitingForTag:
		var p MaterialPayload
		if err := jsonutil.UnmarshalOptional(payload, &p, ctx); err != nil {
			return nil, err
		}
		return WaitingForTag{Material: p.Material}, nil
	case WireMaterialProcessed:
		var p MaterialProcessedPayload
		if err := jsonutil.UnmarshalWithContext(payload, &p, ctx); err != nil {
			return nil, err
		}
		return MaterialProcessed{Result: p.ProcessingResult}, nil
	case WireTagReadError:
		var p TagErrorPayload
		if err := jsonutil.UnmarshalWithContext(payload, &p, ctx); err != nil {
			return nil, err
		}
		return TagReadError{Message: p.Message}, nil
	case WireBridgeStatus:
		var p BridgeStatusPayload
		if err := jsonutil.UnmarshalWithContext(payload, &p, ctx); err != nil {
			return nil, err
		}
		return BridgeStatus{Connected: p.Connected}, nil
	case WireSystemReset:
		return SystemReset{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}
