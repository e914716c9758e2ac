package kiosk

// Effect is a bit set of side effects the caller must apply after Reduce.
type Effect uint8

const (
	// EffectCancelAutoClose cancels any pending auto-close timer.
	EffectCancelAutoClose Effect = 1 << iota
	// EffectArmAutoClose starts the success-modal auto-close timer. It is always
	// paired with EffectCancelAutoClose; apply the cancel first.
	EffectArmAutoClose
)

// Has reports whether f is set in e.
func (e Effect) Has(f Effect) bool {
	return e&f != 0
}

// Reduce applies one event to s. It never panics on unknown materials or
// missing payload parts; those events leave s unchanged.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case Connected:
		s.Connected = true
		s.Loading = false
		s.Lamps = allLamps(true)
	case Disconnected:
		s.Connected = false
		s.Lamps = allLamps(false)
		s.Loading = true
	case ConnectFailed:
		return showError(s, TitleConnectionError, MessageConnectFailed)
	case InitialSnapshot:
		s = applySnapshot(s, ev.State)
		s.Loading = false
	case StatusUpdate:
		s = applySnapshot(s, ev.State)
	case CameraFrame:
		s = applyFrame(s, ev)
	case MaterialDetected:
		if !ev.Material.Known() {
			return s, 0
		}
		s.Modal = Modal{Kind: ModalMaterial, Material: ev.Material}
		return s, EffectCancelAutoClose
	case WaitingForTag:
		// Informational only.
	case MaterialProcessed:
		if !ev.Result.Material.Known() {
			return s, 0
		}
		res := ev.Result
		s.Modal = Modal{Kind: ModalSuccess, Result: &res}
		return s, EffectCancelAutoClose | EffectArmAutoClose
	case TagReadError:
		return showError(s, TitleTagError, ev.Message)
	case BridgeStatus:
		s.App.BridgeConnected = ev.Connected
		s.Lamps.Bridge = ev.Connected
	case SystemReset, CloseAllModals:
		s.Modal = Modal{}
		return s, EffectCancelAutoClose
	case CloseModal:
		// A late close for a modal that was already replaced changes nothing.
		if s.Modal.Kind != ev.Kind {
			return s, 0
		}
		s.Modal = Modal{}
		return s, EffectCancelAutoClose
	case Fault:
		return showError(s, ev.Title, ev.Message)
	}
	return s, 0
}

func showError(s State, title, msg string) (State, Effect) {
	s.Modal = Modal{Kind: ModalError, Title: title, Message: msg}
	return s, EffectCancelAutoClose
}

func applySnapshot(s State, app AppState) State {
	s.App = app
	s.Lamps = Lamps{
		Camera: app.CameraActive,
		NFC:    app.NFCActive,
		Bridge: app.BridgeConnected,
	}
	return s
}

func applyFrame(s State, f CameraFrame) State {
	if f.Image != "" {
		s.Camera.Image = f.Image
	}
	s.Camera.FPS = f.FPS
	s.Camera.Frames++
	switch {
	case f.Detection == nil || f.Detection.Material == "":
		s.Detection = Detection{}
	case f.Detection.Material.Known():
		s.Detection = Detection{Material: f.Detection.Material, Progress: f.Detection.Progress}
	}
	// Frames imply a live camera regardless of the last snapshot.
	s.Lamps.Camera = true
	return s
}
