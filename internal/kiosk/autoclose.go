package kiosk

import "time"

// AutoCloseDelay is how long the success modal stays up on its own.
const AutoCloseDelay = 5 * time.Second

// KeepAliveInterval is the period of the status-request ping.
const KeepAliveInterval = 30 * time.Second

// AutoCloseToken identifies one arming of an AutoCloseSlot.
type AutoCloseToken uint64

// AutoCloseSlot is the single outstanding auto-close timer. The timer itself is
// owned by the caller (a tea.Tick in the ui); the slot decides whether its
// expiry still counts. Arm always cancels first, so at most one token is live.
type AutoCloseSlot struct {
	current AutoCloseToken
	armed   bool
}

// Arm cancels any pending timer and returns the token for a new one.
func (s *AutoCloseSlot) Arm() AutoCloseToken {
	s.Cancel()
	s.current++
	s.armed = true
	return s.current
}

// Cancel disarms the slot. Safe to call when nothing is pending.
func (s *AutoCloseSlot) Cancel() {
	s.armed = false
}

// Pending reports whether a timer is armed.
func (s *AutoCloseSlot) Pending() bool {
	return s.armed
}

// Fire consumes t. It returns true only for the live token, and only once.
func (s *AutoCloseSlot) Fire(t AutoCloseToken) bool {
	if !s.armed || t != s.current {
		return false
	}
	s.armed = false
	return true
}

// Apply performs the slot half of e and returns the new token when e arms.
func (s *AutoCloseSlot) Apply(e Effect) (AutoCloseToken, bool) {
	if e.Has(EffectCancelAutoClose) {
		s.Cancel()
	}
	if e.Has(EffectArmAutoClose) {
		return s.Arm(), true
	}
	return 0, false
}
