package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"recyclekiosk/internal/kiosk"
	"recyclekiosk/internal/logger"
	"recyclekiosk/internal/resetapi"
)

const loadingText = "Conectando con el servidor…"

// Link is the live backend connection.
type Link interface {
	RequestStatus() error
}

// Resetter issues the backend reset request.
type Resetter interface {
	Reset(ctx context.Context) (resetapi.Result, error)
}

// Deps are the collaborators of the root model. Any may be nil.
type Deps struct {
	Link     Link
	Resetter Resetter
	Log      logger.Logger
	Tracer   oteltrace.Tracer
}

// AppModel is the root model. State is only ever replaced through kiosk.Reduce.
type AppModel struct {
	State      kiosk.State
	AutoClose  kiosk.AutoCloseSlot
	KeyHandler *KeyHandler
	Activity   *ActivityLog
	Overlay    *Overlay // nil when no modal is shown
	Frame      *FrameInfo

	Link     Link
	Resetter Resetter
	Log      logger.Logger
	Tracer   oteltrace.Tracer

	spinner  spinner.Model
	bar      progress.Model
	frameSrc string
	width    int
	height   int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model in the loading state.
func NewAppModel(deps Deps) *AppModel {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.Tracer == nil {
		deps.Tracer = noop.NewTracerProvider().Tracer("ui")
	}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("ctrl+c", tea.Quit, "Salir")
	reg.BindWithDesc("SPC q", tea.Quit, "Salir")
	reg.BindWithDescForMode("SPC r", func() tea.Msg { return RequestResetMsg{} }, "Reiniciar", []AppMode{ModeOnline})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight))

	return &AppModel{
		State:      kiosk.NewState(),
		KeyHandler: NewKeyHandler(reg),
		Activity:   NewActivityLog(),
		Link:       deps.Link,
		Resetter:   deps.Resetter,
		Log:        deps.Log,
		Tracer:     deps.Tracer,
		spinner:    sp,
		bar: progress.New(
			progress.WithSolidFill(ColorAccent),
			progress.WithoutPercentage(),
			progress.WithWidth(panelWidth-8),
		),
	}
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, keepAliveCmd())
}

// Update implements tea.Model. A panic in any handler is recovered and
// surfaced through the error modal.
func (a *appModelAdapter) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			a.Log.Error("recovered panic in update", "panic", fmt.Sprint(r), "msg", fmt.Sprintf("%T", msg))
			model, cmd = a, a.apply(kiosk.Fault{Title: kiosk.TitleAppError, Message: kiosk.MessageUnexpected})
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil
	case kiosk.Event:
		return a, a.dispatch(msg)
	case autoCloseMsg:
		return a, a.handleAutoClose(msg)
	case keepAliveMsg:
		return a, a.handleKeepAlive()
	case statusSentMsg:
		return a, a.handleStatusSent(msg)
	case RequestResetMsg:
		return a, a.handleRequestReset()
	case resetDoneMsg:
		a.handleResetDone(msg)
		return a, nil
	case cmdPanicMsg:
		a.Log.Error("recovered panic in command", "panic", msg.Value)
		return a, a.apply(kiosk.Fault{Title: kiosk.TitleAppError, Message: kiosk.MessageUnexpected})
	case TransportStoppedMsg:
		if msg.Err != nil {
			a.Log.Error("connection loop stopped", "error", msg.Err)
		}
		return a, nil
	case spinner.TickMsg:
		var c tea.Cmd
		a.spinner, c = a.spinner.Update(msg)
		return a, c
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	}
	return a, nil
}

// dispatch traces and applies ev. Camera frames are too frequent to trace.
func (a *AppModel) dispatch(ev kiosk.Event) tea.Cmd {
	if _, frame := ev.(kiosk.CameraFrame); frame {
		return a.apply(ev)
	}
	_, span := a.Tracer.Start(context.Background(), "kiosk.event",
		oteltrace.WithAttributes(attribute.String("kiosk.event", eventName(ev))))
	defer span.End()
	cmd := a.apply(ev)
	span.SetAttributes(
		attribute.String("kiosk.modal", a.State.Modal.Kind.String()),
		attribute.Bool("kiosk.connected", a.State.Connected),
	)
	return cmd
}

// apply runs the reducer and then its effects.
func (a *AppModel) apply(ev kiosk.Event) tea.Cmd {
	prev := a.State.Modal
	next, fx := kiosk.Reduce(a.State, ev)
	a.State = next

	if f, ok := ev.(kiosk.CameraFrame); ok {
		a.noteFrame(f)
	}
	a.Activity.Record(ev)
	if next.Modal != prev {
		a.syncOverlay()
	}
	if token, armed := a.AutoClose.Apply(fx); armed {
		return autoCloseCmd(token)
	}
	return nil
}

func (a *AppModel) syncOverlay() {
	v := NewModalView(a.State.Modal)
	if v == nil {
		a.Overlay = nil
		return
	}
	a.Overlay = &Overlay{View: v, Kind: a.State.Modal.Kind}
}

// noteFrame caches the header of the latest image so View does not decode it.
func (a *AppModel) noteFrame(f kiosk.CameraFrame) {
	if f.Image == "" || f.Image == a.frameSrc {
		return
	}
	a.frameSrc = f.Image
	info, err := DecodeFrameInfo(f.Image)
	if err != nil {
		a.Log.Debug("undecodable camera frame", "error", err)
		a.Frame = nil
		return
	}
	a.Frame = &info
}

func (a *AppModel) resize(w, h int) {
	a.width, a.height = w, h
	aw, ah := w-4, h-16
	if aw < 20 {
		aw = 20
	}
	if ah < 3 {
		ah = 3
	}
	a.Activity.SetSize(aw, ah)
}

func eventName(ev kiosk.Event) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", ev), "kiosk.")
}

// View implements tea.Model. A panic while rendering shows the application
// error box instead of ending the program.
func (a *appModelAdapter) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			a.Log.Error("recovered panic in view", "panic", fmt.Sprint(r))
			out = NewErrorModal(kiosk.TitleAppError, kiosk.MessageUnexpected).View()
		}
	}()

	var base string
	if a.State.Loading {
		base = a.loadingView()
	} else {
		base = a.mainView()
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		base += "\n" + RenderKeybindHelp(a.KeyHandler, modeFor(a.State))
	} else {
		base += "\n" + idleHelp()
	}

	if a.Overlay == nil {
		return base
	}
	box := a.Overlay.View.View()
	if a.width == 0 || a.height == 0 {
		return base + "\n" + box
	}
	return Composite(base, box, a.width, a.height)
}

func (a *AppModel) loadingView() string {
	msg := a.spinner.View() + " " + Styles.Normal.Render(loadingText)
	header := renderHeader(a.State, a.width)
	if a.width == 0 || a.height < 4 {
		return header + "\n\n" + msg
	}
	return header + "\n" + lipgloss.Place(a.width, a.height-3, lipgloss.Center, lipgloss.Center, msg)
}

func (a *AppModel) mainView() string {
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCameraPanel(a.State.Camera, a.Frame),
		renderDetectionPanel(a.State.Detection, a.bar),
	)
	activity := Styles.Panel.Render(Styles.Section.Render("Actividad") + "\n" + a.Activity.View())
	return renderHeader(a.State, a.width) + "\n" + panels + "\n" + activity
}
