package kiosk

// Event is anything Reduce accepts. The set is closed; the unexported method
// keeps other packages from adding kinds the reducer does not know.
type Event interface {
	kioskEvent()
}

// Transport lifecycle.

// Connected is raised when the websocket handshake completes.
type Connected struct{}

// Disconnected is raised when an established connection drops for any reason.
type Disconnected struct {
	Reason string
}

// ConnectFailed is raised for every failed dial attempt.
type ConnectFailed struct {
	Err error
}

// Server pushes.

// InitialSnapshot is the first state sent after connecting.
type InitialSnapshot struct {
	State AppState
}

// DetectionReading is the optional detection attached to a camera frame.
type DetectionReading struct {
	Material MaterialID
	Progress float64
}

// CameraFrame carries one annotated frame from the detector.
type CameraFrame struct {
	Image     string
	FPS       float64
	Detection *DetectionReading
}

// MaterialDetected means the detector has held a material long enough to classify it.
type MaterialDetected struct {
	Material MaterialID
}

// WaitingForTag is informational; the material modal is already open.
type WaitingForTag struct {
	Material MaterialID
}

// MaterialProcessed means a tag was read and points were credited.
type MaterialProcessed struct {
	Result ProcessingResult
}

// TagReadError is a server-reported NFC failure.
type TagReadError struct {
	Message string
}

// BridgeStatus reports the backend's MQTT bridge connectivity.
type BridgeStatus struct {
	Connected bool
}

// SystemReset is broadcast after the backend clears its detection state.
type SystemReset struct{}

// StatusUpdate answers a status request.
type StatusUpdate struct {
	State AppState
}

// Local actions.

// CloseModal hides the named modal (close button, backdrop click, auto-close expiry).
type CloseModal struct {
	Kind ModalKind
}

// CloseAllModals hides every modal (Escape key).
type CloseAllModals struct{}

// Fault surfaces a recovered runtime failure through the error modal.
type Fault struct {
	Title   string
	Message string
}

func (Connected) kioskEvent()         {}
func (Disconnected) kioskEvent()      {}
func (ConnectFailed) kioskEvent()     {}
func (InitialSnapshot) kioskEvent()   {}
func (CameraFrame) kioskEvent()       {}
func (MaterialDetected) kioskEvent()  {}
func (WaitingForTag) kioskEvent()     {}
func (MaterialProcessed) kioskEvent() {}
func (TagReadError) kioskEvent()      {}
func (BridgeStatus) kioskEvent()      {}
func (SystemReset) kioskEvent()       {}
func (StatusUpdate) kioskEvent()      {}
func (CloseModal) kioskEvent()        {}
func (CloseAllModals) kioskEvent()    {}
func (Fault) kioskEvent()             {}

// Fixed error-modal copy.
const (
	TitleConnectionError = "Error de Conexión"
	TitleTagError        = "Error NFC"
	TitleAppError        = "Error de Aplicación"

	MessageConnectFailed = "No se pudo conectar al servidor"
	MessageCommFailed    = "Error en comunicación con el servidor"
	MessageUnexpected    = "Ha ocurrido un error inesperado"
)
