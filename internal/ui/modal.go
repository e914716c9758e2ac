package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"recyclekiosk/internal/kiosk"
)

const modalHelp = "Enter: cerrar  Esc: cerrar todo"

// closeCmd emits the close-button event for kind.
func closeCmd(kind kiosk.ModalKind) tea.Cmd {
	return func() tea.Msg { return kiosk.CloseModal{Kind: kind} }
}

// handleCloseKey maps Enter to the modal's close button.
func handleCloseKey(msg tea.Msg, kind kiosk.ModalKind) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		return closeCmd(kind)
	}
	return nil
}

// iconGlyphs maps the registry's icon classes to terminal glyphs.
var iconGlyphs = map[string]string{
	"fas fa-bottle-water": "🧴",
	"fas fa-can-food":     "🥫",
}

func iconGlyph(class string) string {
	if g, ok := iconGlyphs[class]; ok {
		return g
	}
	return "♻"
}

// NewModalView builds the view for the state's modal slot, or nil when none is shown.
func NewModalView(m kiosk.Modal) View {
	switch m.Kind {
	case kiosk.ModalMaterial:
		return NewMaterialModal(m.Material)
	case kiosk.ModalSuccess:
		if m.Result != nil {
			return NewSuccessModal(*m.Result)
		}
	case kiosk.ModalError:
		return NewErrorModal(m.Title, m.Message)
	}
	return nil
}
