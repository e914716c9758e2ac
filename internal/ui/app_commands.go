package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"recyclekiosk/internal/kiosk"
)

// autoCloseCmd schedules the expiry for token. Expiries of stale tokens are
// discarded by the slot.
func autoCloseCmd(token kiosk.AutoCloseToken) tea.Cmd {
	return tea.Tick(kiosk.AutoCloseDelay, func(time.Time) tea.Msg {
		return autoCloseMsg{Token: token}
	})
}

// keepAliveCmd schedules the next status request.
func keepAliveCmd() tea.Cmd {
	return tea.Tick(kiosk.KeepAliveInterval, func(t time.Time) tea.Msg {
		return keepAliveMsg(t)
	})
}

// requestStatusCmd sends request_status off the Update goroutine.
func requestStatusCmd(link Link) tea.Cmd {
	return guard(func() tea.Msg {
		return statusSentMsg{Err: link.RequestStatus()}
	})
}

// resetCmd posts the reset request. The HTTP client carries its own timeout.
func resetCmd(r Resetter) tea.Cmd {
	return guard(func() tea.Msg {
		res, err := r.Reset(context.Background())
		return resetDoneMsg{Result: res, Err: err}
	})
}

// guard turns a panic inside cmd into a cmdPanicMsg for Update to surface.
func guard(cmd tea.Cmd) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = cmdPanicMsg{Value: fmt.Sprint(r)}
			}
		}()
		return cmd()
	}
}
