package ui

import (
	"time"

	"recyclekiosk/internal/kiosk"
	"recyclekiosk/internal/resetapi"
)

// RequestResetMsg is sent by SPC r.
type RequestResetMsg struct{}

// TransportStoppedMsg is sent when the connection loop returns for good.
type TransportStoppedMsg struct {
	Err error
}

// autoCloseMsg is the expiry of the success-modal timer armed with Token.
type autoCloseMsg struct {
	Token kiosk.AutoCloseToken
}

// keepAliveMsg triggers the periodic status request.
type keepAliveMsg time.Time

// statusSentMsg reports the outcome of a status request send.
type statusSentMsg struct {
	Err error
}

// resetDoneMsg reports the outcome of a reset request.
type resetDoneMsg struct {
	Result resetapi.Result
	Err    error
}

// cmdPanicMsg carries a panic recovered inside an async command.
type cmdPanicMsg struct {
	Value string
}
