package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"recyclekiosk/internal/kiosk"
	"recyclekiosk/internal/ui/textutil"
)

// MaxActivityEntries bounds the scrollback.
const MaxActivityEntries = 200

const (
	defaultActivityWidth  = 70
	defaultActivityHeight = 6
)

// ActivityLog is the scrollback of notable kiosk events.
type ActivityLog struct {
	entries  []string
	viewport viewport.Model
	now      func() time.Time
}

// NewActivityLog creates an empty log.
func NewActivityLog() *ActivityLog {
	l := &ActivityLog{
		viewport: viewport.New(defaultActivityWidth, defaultActivityHeight),
		now:      time.Now,
	}
	l.refreshContent()
	return l
}

// SetSize resizes the viewport.
func (l *ActivityLog) SetSize(w, h int) {
	l.viewport.Width = w
	l.viewport.Height = h
	l.refreshContent()
}

// Record appends a line for ev if it is notable and reports whether it did.
// Camera frames and status answers are too frequent to keep.
func (l *ActivityLog) Record(ev kiosk.Event) bool {
	line, ok := describe(ev)
	if !ok {
		return false
	}
	line = textutil.SingleLine(line)
	l.entries = append(l.entries, fmt.Sprintf("[%s] %s", l.now().Format("15:04:05"), line))
	if n := len(l.entries); n > MaxActivityEntries {
		l.entries = append(l.entries[:0:0], l.entries[n-MaxActivityEntries:]...)
	}
	l.refreshContent()
	return true
}

// Entries returns the retained lines, oldest first.
func (l *ActivityLog) Entries() []string {
	return l.entries
}

// Offset is the index of the first visible line.
func (l *ActivityLog) Offset() int {
	return l.viewport.YOffset
}

// Update scrolls on keys and mouse wheel. The caller decides whether scrolling is allowed.
func (l *ActivityLog) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return cmd
}

// View renders the log.
func (l *ActivityLog) View() string {
	return l.viewport.View()
}

// refreshContent clips each entry to the viewport width and scrolls to the end.
func (l *ActivityLog) refreshContent() {
	rows := make([]string, len(l.entries))
	for i, e := range l.entries {
		rows[i] = textutil.Truncate(e, l.viewport.Width)
	}
	content := strings.Join(rows, "\n")
	if content == "" {
		content = Styles.Empty.Render("Sin actividad")
	}
	l.viewport.SetContent(content)
	l.viewport.GotoBottom()
}

func describe(ev kiosk.Event) (string, bool) {
	switch ev := ev.(type) {
	case kiosk.Connected:
		return "✓ Conectado al servidor", true
	case kiosk.Disconnected:
		return "✗ Desconectado: " + ev.Reason, true
	case kiosk.ConnectFailed:
		return fmt.Sprintf("✗ Fallo de conexión: %v", ev.Err), true
	case kiosk.InitialSnapshot:
		return "● Estado inicial: " + describeApp(ev.State), true
	case kiosk.MaterialDetected:
		return "● Material detectado: " + displayName(ev.Material), true
	case kiosk.WaitingForTag:
		return "● Esperando tarjeta NFC (" + displayName(ev.Material) + ")", true
	case kiosk.MaterialProcessed:
		u := ev.Result.User
		return fmt.Sprintf("✓ %s: +%d puntos (total %d)", u.Name, ev.Result.PointsEarned, u.NewTotalPoints), true
	case kiosk.TagReadError:
		return "✗ Error NFC: " + ev.Message, true
	case kiosk.BridgeStatus:
		if ev.Connected {
			return "● MQTT conectado", true
		}
		return "● MQTT desconectado", true
	case kiosk.SystemReset:
		return "● Sistema reiniciado", true
	case kiosk.Fault:
		return "✗ " + ev.Title + ": " + ev.Message, true
	}
	return "", false
}

func describeApp(s kiosk.AppState) string {
	return fmt.Sprintf("cámara %s, NFC %s, MQTT %s", onOff(s.CameraActive), onOff(s.NFCActive), onOff(s.BridgeConnected))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func displayName(id kiosk.MaterialID) string {
	if cfg, ok := kiosk.Lookup(id); ok {
		return cfg.DisplayName
	}
	return string(id)
}
