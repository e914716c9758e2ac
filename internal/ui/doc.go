// Package ui renders the kiosk state as a Bubble Tea program.
//
// The root AppModel owns the kiosk.State and runs every event through
// kiosk.Reduce on the Update goroutine. It then applies the returned effects
// to the auto-close slot. Pieces:
//   - View: Elm-style component; the three modal dialogs implement it
//   - Overlay: a modal box composited over the base screen, with hit-testing
//   - KeybindRegistry/KeyHandler: spacemacs-style leader bindings (SPC r, SPC q)
//   - ActivityLog: scrollback of notable events, locked while a modal is shown
package ui
