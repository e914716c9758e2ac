package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"recyclekiosk/internal/kiosk"
	"recyclekiosk/internal/transport"
)

// handleKey routes keys: leader bindings, then Esc, then the modal, then scrollback.
func (a *appModelAdapter) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.KeyHandler != nil {
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return cmd
		}
	}
	if msg.String() == "esc" {
		return a.dispatch(kiosk.CloseAllModals{})
	}
	if a.Overlay != nil {
		return a.Overlay.Update(msg)
	}
	if a.State.ScrollLocked() {
		return nil
	}
	return a.Activity.Update(msg)
}

// handleMouse closes the modal on a left click outside its box and otherwise
// forwards the wheel to the scrollback.
func (a *appModelAdapter) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.Overlay != nil {
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if a.width == 0 || a.height == 0 {
			return nil
		}
		if Bounds(a.Overlay.View.View(), a.width, a.height).Contains(msg.X, msg.Y) {
			return nil
		}
		return a.dispatch(kiosk.CloseModal{Kind: a.Overlay.Kind})
	}
	if a.State.ScrollLocked() {
		return nil
	}
	return a.Activity.Update(msg)
}

func (a *AppModel) handleAutoClose(msg autoCloseMsg) tea.Cmd {
	if !a.AutoClose.Fire(msg.Token) {
		return nil
	}
	return a.dispatch(kiosk.CloseModal{Kind: kiosk.ModalSuccess})
}

// handleKeepAlive always reschedules; it only pings while connected.
func (a *AppModel) handleKeepAlive() tea.Cmd {
	next := keepAliveCmd()
	if !a.State.Connected || a.Link == nil {
		return next
	}
	return tea.Batch(next, requestStatusCmd(a.Link))
}

func (a *AppModel) handleStatusSent(msg statusSentMsg) tea.Cmd {
	switch {
	case msg.Err == nil:
		return nil
	case errors.Is(msg.Err, transport.ErrNotConnected):
		// Lost the race with a disconnect; the loading screen already says so.
		a.Log.Debug("status request skipped", "error", msg.Err)
		return nil
	default:
		a.Log.Warn("status request failed", "error", msg.Err)
		return a.dispatch(kiosk.Fault{Title: kiosk.TitleConnectionError, Message: kiosk.MessageCommFailed})
	}
}

func (a *AppModel) handleRequestReset() tea.Cmd {
	if !a.State.Connected {
		a.Log.Info("reset ignored while disconnected")
		return nil
	}
	if a.Resetter == nil {
		return nil
	}
	a.Log.Info("reset requested")
	return resetCmd(a.Resetter)
}

// handleResetDone only logs. Reset failures never open a modal.
func (a *AppModel) handleResetDone(msg resetDoneMsg) {
	if msg.Err != nil {
		a.Log.Error("reset request failed", "error", msg.Err)
		return
	}
	a.Log.Info("reset acknowledged", "status", msg.Result.Status)
}
