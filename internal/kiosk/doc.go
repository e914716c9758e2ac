// Package kiosk holds the display state of the recycling kiosk and the pure
// reducer that folds inbound events into it.
//
// Core pieces:
//   - Material registry: static reference data keyed by MaterialID
//   - State: connection flag, pushed AppState snapshot, lamps, camera readout,
//     detection progress and the single modal slot
//   - Event: everything that can change State (transport lifecycle, server
//     pushes, user modal actions, recovered faults)
//   - Reduce: State x Event -> State x Effect, no side effects
//   - AutoCloseSlot: the one outstanding success-modal timer
//
// Rendering and timers live in the ui package; the transport package turns
// websocket frames into Events with Decode.
package kiosk
