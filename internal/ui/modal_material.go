package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"recyclekiosk/internal/kiosk"
)

// MaterialModal announces a classified material and asks for the user's tag.
type MaterialModal struct {
	Material kiosk.MaterialID
	cfg      kiosk.MaterialConfig
}

// Ensure MaterialModal implements View.
var _ View = (*MaterialModal)(nil)

// NewMaterialModal creates the modal for a registered material.
func NewMaterialModal(id kiosk.MaterialID) *MaterialModal {
	cfg, _ := kiosk.Lookup(id)
	return &MaterialModal{Material: id, cfg: cfg}
}

// Init implements View.
func (m *MaterialModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *MaterialModal) Update(msg tea.Msg) (View, tea.Cmd) {
	return m, handleCloseKey(msg, kiosk.ModalMaterial)
}

// View implements View.
func (m *MaterialModal) View() string {
	content := Styles.Title.Render("Material detectado") + "\n\n"
	content += iconGlyph(m.cfg.Icon) + "  " + materialStyle(m.cfg.Color).Render(m.cfg.DisplayName) + "\n"
	content += Styles.Muted.Render(m.cfg.Description) + "\n\n"
	content += Styles.Normal.Render("Acerque su tarjeta NFC al lector") + "\n"
	content += Styles.Points.Render(fmt.Sprintf("+%d puntos", m.cfg.Points))
	content += "\n\n" + Styles.Hint.Render(modalHelp)
	return Styles.Modal.Render(content)
}
