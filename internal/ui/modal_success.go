package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"recyclekiosk/internal/kiosk"
)

// SuccessModal confirms a credited deposit. It closes itself after
// kiosk.AutoCloseDelay unless something else replaces it first.
type SuccessModal struct {
	Result kiosk.ProcessingResult
}

// Ensure SuccessModal implements View.
var _ View = (*SuccessModal)(nil)

func NewSuccessModal(res kiosk.ProcessingResult) *SuccessModal {
	return &SuccessModal{Result: res}
}

// Init implements View.
func (m *SuccessModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *SuccessModal) Update(msg tea.Msg) (View, tea.Cmd) {
	return m, handleCloseKey(msg, kiosk.ModalSuccess)
}

// View implements View.
func (m *SuccessModal) View() string {
	cfg, _ := kiosk.Lookup(m.Result.Material)
	name := m.Result.User.Name
	if name == "" {
		name = m.Result.User.ID
	}
	content := Styles.TitleSuccess.Render("¡Reciclaje exitoso!") + "\n\n"
	content += iconGlyph(cfg.Icon) + "  " + materialStyle(cfg.Color).Render(cfg.DisplayName) + "\n"
	content += Styles.Normal.Render("Usuario: "+name) + "\n"
	content += Styles.Points.Render(fmt.Sprintf("+%d puntos", m.Result.PointsEarned)) + "\n"
	content += Styles.Normal.Render(fmt.Sprintf("Total: %d puntos", m.Result.User.NewTotalPoints))
	content += "\n\n" + Styles.Hint.Render(modalHelp)
	return Styles.ModalOK.Render(content)
}
