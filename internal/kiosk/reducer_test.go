package kiosk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run folds events through Reduce and returns the final state and the
// effect of the last event.
func run(s State, evs ...Event) (State, Effect) {
	var fx Effect
	for _, ev := range evs {
		s, fx = Reduce(s, ev)
	}
	return s, fx
}

func TestReduce_MaterialDetectedKnown(t *testing.T) {
	for _, id := range Materials() {
		t.Run(string(id), func(t *testing.T) {
			s, fx := Reduce(NewState(), MaterialDetected{Material: id})
			require.Equal(t, ModalMaterial, s.Modal.Kind)
			assert.Equal(t, id, s.Modal.Material)
			assert.True(t, fx.Has(EffectCancelAutoClose))
			assert.False(t, fx.Has(EffectArmAutoClose))
			assert.True(t, s.ScrollLocked())
		})
	}
}

func TestReduce_UnknownMaterialIgnored(t *testing.T) {
	start := NewState()
	s, fx := Reduce(start, MaterialDetected{Material: "vidrio"})
	assert.Equal(t, start, s)
	assert.Zero(t, fx)

	s, fx = Reduce(start, MaterialProcessed{Result: ProcessingResult{Material: "vidrio", PointsEarned: 5}})
	assert.Equal(t, start, s)
	assert.Zero(t, fx)
}

func TestReduce_SystemResetClosesEverything(t *testing.T) {
	tests := []struct {
		name string
		show Event
	}{
		{"material", MaterialDetected{Material: MaterialPlastic}},
		{"success", MaterialProcessed{Result: ProcessingResult{Material: MaterialAluminum}}},
		{"error", TagReadError{Message: "Tarjeta no registrada"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := run(NewState(), Connected{}, tt.show)
			require.True(t, s.Modal.Shown())
			s, fx := Reduce(s, SystemReset{})
			assert.False(t, s.Modal.Shown())
			assert.False(t, s.ScrollLocked())
			assert.True(t, fx.Has(EffectCancelAutoClose))
		})
	}
}

func TestReduce_MaterialProcessedArmsAutoClose(t *testing.T) {
	res := ProcessingResult{
		Material:     MaterialPlastic,
		User:         User{Name: "Ana", NewTotalPoints: 120},
		PointsEarned: 20,
	}
	s, fx := run(NewState(), MaterialDetected{Material: MaterialPlastic}, MaterialProcessed{Result: res})
	require.Equal(t, ModalSuccess, s.Modal.Kind)
	require.NotNil(t, s.Modal.Result)
	assert.Equal(t, "Ana", s.Modal.Result.User.Name)
	assert.Equal(t, 120, s.Modal.Result.User.NewTotalPoints)
	assert.Equal(t, 20, s.Modal.Result.PointsEarned)
	assert.True(t, fx.Has(EffectCancelAutoClose))
	assert.True(t, fx.Has(EffectArmAutoClose))
}

func TestReduce_CameraFrameWithoutDetectionHidesProgress(t *testing.T) {
	s, _ := Reduce(NewState(), CameraFrame{
		Image:     "data:image/jpeg;base64,AAAA",
		FPS:       9.8,
		Detection: &DetectionReading{Material: MaterialAluminum, Progress: 0.73},
	})
	require.True(t, s.Detection.Visible())
	assert.Equal(t, 73, s.Detection.Percent())

	s, _ = Reduce(s, CameraFrame{Image: "data:image/jpeg;base64,BBBB", FPS: 10})
	assert.False(t, s.Detection.Visible())
	assert.Equal(t, uint64(2), s.Camera.Frames)
	assert.Equal(t, "data:image/jpeg;base64,BBBB", s.Camera.Image)
	assert.Equal(t, 10.0, s.Camera.FPS)
}

func TestReduce_CameraFrameUnknownDetectionKeepsDisplay(t *testing.T) {
	s, _ := Reduce(NewState(), CameraFrame{Detection: &DetectionReading{Material: MaterialPlastic, Progress: 0.2}})
	s, _ = Reduce(s, CameraFrame{Detection: &DetectionReading{Material: "carton", Progress: 0.9}})
	assert.Equal(t, MaterialPlastic, s.Detection.Material)
	assert.Equal(t, 0.2, s.Detection.Progress)
}

func TestReduce_CameraFrameKeepsImageWhenEmpty(t *testing.T) {
	s, _ := Reduce(NewState(), CameraFrame{Image: "data:a"})
	s, _ = Reduce(s, CameraFrame{})
	assert.Equal(t, "data:a", s.Camera.Image)
}

func TestReduce_CameraFrameActivatesCameraLamp(t *testing.T) {
	s, _ := run(NewState(), Connected{}, InitialSnapshot{State: AppState{CameraActive: false, NFCActive: true}})
	assert.False(t, s.Lamps.Camera, "snapshot says camera inactive")
	assert.True(t, s.Lamps.NFC)
	assert.False(t, s.Loading)

	s, _ = Reduce(s, CameraFrame{FPS: 12})
	assert.True(t, s.Lamps.Camera, "frames imply an active camera")
	assert.False(t, s.App.CameraActive, "snapshot itself is not rewritten")
}

func TestReduce_DisconnectKeepsModalAndShowsLoading(t *testing.T) {
	s, _ := run(NewState(), Connected{}, InitialSnapshot{State: AppState{CameraActive: true, NFCActive: true, BridgeConnected: true}},
		MaterialDetected{Material: MaterialAluminum})
	require.False(t, s.Loading)

	s, fx := Reduce(s, Disconnected{Reason: "transport close"})
	assert.Equal(t, ModalMaterial, s.Modal.Kind)
	assert.True(t, s.Loading)
	assert.False(t, s.Connected)
	assert.Equal(t, Lamps{}, s.Lamps)
	assert.Zero(t, fx)
}

func TestReduce_ConnectedLightsAllLamps(t *testing.T) {
	s, _ := Reduce(NewState(), Connected{})
	assert.True(t, s.Connected)
	assert.False(t, s.Loading)
	assert.Equal(t, Lamps{Camera: true, NFC: true, Bridge: true}, s.Lamps)
}

func TestReduce_StatusUpdateDoesNotTouchLoading(t *testing.T) {
	s := NewState()
	s, _ = Reduce(s, StatusUpdate{State: AppState{NFCActive: true}})
	assert.True(t, s.Loading)
	assert.True(t, s.Lamps.NFC)
	assert.False(t, s.Lamps.Camera)
}

func TestReduce_SnapshotReplacesWholesale(t *testing.T) {
	s, _ := Reduce(NewState(), StatusUpdate{State: AppState{CameraActive: true, NFCActive: true, BridgeConnected: true}})
	s, _ = Reduce(s, StatusUpdate{State: AppState{NFCActive: true}})
	assert.Equal(t, AppState{NFCActive: true}, s.App)
}

func TestReduce_BridgeStatus(t *testing.T) {
	s, _ := Reduce(NewState(), BridgeStatus{Connected: true})
	assert.True(t, s.Lamps.Bridge)
	assert.True(t, s.App.BridgeConnected)
	s, _ = Reduce(s, BridgeStatus{Connected: false})
	assert.False(t, s.Lamps.Bridge)
}

func TestReduce_ErrorModals(t *testing.T) {
	s, _ := Reduce(NewState(), ConnectFailed{})
	assert.Equal(t, Modal{Kind: ModalError, Title: TitleConnectionError, Message: MessageConnectFailed}, s.Modal)

	s, _ = Reduce(NewState(), TagReadError{Message: "Tarjeta no registrada"})
	assert.Equal(t, Modal{Kind: ModalError, Title: TitleTagError, Message: "Tarjeta no registrada"}, s.Modal)

	s, fx := Reduce(NewState(), Fault{Title: TitleAppError, Message: MessageUnexpected})
	assert.Equal(t, TitleAppError, s.Modal.Title)
	assert.True(t, fx.Has(EffectCancelAutoClose))
}

func TestReduce_CloseModalOnlyClosesMatchingKind(t *testing.T) {
	s, _ := Reduce(NewState(), TagReadError{Message: "x"})
	s, fx := Reduce(s, CloseModal{Kind: ModalSuccess})
	assert.Equal(t, ModalError, s.Modal.Kind, "stale success close must not hide the error modal")
	assert.Zero(t, fx)

	s, _ = Reduce(s, CloseModal{Kind: ModalError})
	assert.False(t, s.Modal.Shown())
}

func TestReduce_LateMaterialCloseKeepsSuccessTimer(t *testing.T) {
	s, _ := run(NewState(), Connected{}, MaterialDetected{Material: MaterialPlastic})
	s, _ = Reduce(s, MaterialProcessed{Result: ProcessingResult{Material: MaterialPlastic, PointsEarned: 20}})
	next, fx := Reduce(s, CloseModal{Kind: ModalMaterial})
	assert.Equal(t, s, next)
	assert.False(t, fx.Has(EffectCancelAutoClose), "the success auto-close belongs to the success modal")
}

func TestReduce_WaitingForTagIsNoop(t *testing.T) {
	s, _ := run(NewState(), Connected{}, MaterialDetected{Material: MaterialPlastic})
	next, fx := Reduce(s, WaitingForTag{Material: MaterialPlastic})
	assert.Equal(t, s, next)
	assert.Zero(t, fx)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, "0%"},
		{1, "100%"},
		{0.5, "50%"},
		{0.73, "73%"},
		{0.276, "28%"},
		{-0.2, "0%"},
		{1.7, "100%"},
	}
	for _, tt := range tests {
		if got := PercentLabel(tt.p); got != tt.want {
			t.Errorf("PercentLabel(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}
