package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"recyclekiosk/internal/kiosk"
)

// ErrorModal shows a connection, tag or application failure.
type ErrorModal struct {
	Title   string
	Message string
}

// Ensure ErrorModal implements View.
var _ View = (*ErrorModal)(nil)

func NewErrorModal(title, message string) *ErrorModal {
	return &ErrorModal{Title: title, Message: message}
}

// Init implements View.
func (m *ErrorModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ErrorModal) Update(msg tea.Msg) (View, tea.Cmd) {
	return m, handleCloseKey(msg, kiosk.ModalError)
}

// View implements View.
func (m *ErrorModal) View() string {
	content := Styles.TitleWarning.Render("⚠ "+m.Title) + "\n\n"
	content += Styles.Normal.Render(m.Message)
	content += "\n\n" + Styles.Hint.Render(modalHelp)
	return Styles.ModalFail.Render(content)
}
