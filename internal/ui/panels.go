package ui

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"recyclekiosk/internal/kiosk"
)

const panelWidth = 34

// FrameInfo is what the terminal can show of a camera frame.
type FrameInfo struct {
	Format        string
	Width, Height int
}

var errNotDataURL = errors.New("not a base64 data URL")

// DecodeFrameInfo reads the image header out of a data URL without decoding pixels.
func DecodeFrameInfo(dataURL string) (FrameInfo, error) {
	head, data, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(head, "data:") || !strings.HasSuffix(head, ";base64") {
		return FrameInfo{}, errNotDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return FrameInfo{}, fmt.Errorf("frame: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return FrameInfo{}, fmt.Errorf("frame: %w", err)
	}
	return FrameInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func renderLamps(l kiosk.Lamps) string {
	return strings.Join([]string{
		lamp("Cámara", l.Camera),
		lamp("NFC", l.NFC),
		lamp("MQTT", l.Bridge),
	}, "  ")
}

func lamp(label string, on bool) string {
	if on {
		return Styles.LampOn.Render("● " + label)
	}
	return Styles.LampOff.Render("○ " + label)
}

func renderCameraPanel(cam kiosk.CameraView, info *FrameInfo) string {
	content := Styles.Section.Render("Cámara") + "\n"
	if cam.Frames == 0 {
		content += Styles.Empty.Render("Esperando imagen…") + "\n\n"
	} else {
		content += Styles.Normal.Render(fmt.Sprintf("Cuadro #%d", cam.Frames)) + "\n"
		if info != nil {
			content += Styles.Muted.Render(fmt.Sprintf("%s %dx%d", info.Format, info.Width, info.Height)) + "\n"
		} else {
			content += Styles.Muted.Render("imagen no disponible") + "\n"
		}
	}
	content += Styles.Points.Render(fmt.Sprintf("%.1f FPS", cam.FPS))
	return Styles.Panel.Width(panelWidth).Render(content)
}

func renderDetectionPanel(d kiosk.Detection, bar progress.Model) string {
	content := Styles.Section.Render("Detección") + "\n"
	if !d.Visible() {
		content += Styles.Empty.Render("Buscando material…") + "\n\n"
		return Styles.Panel.Width(panelWidth).Render(content)
	}
	cfg, _ := kiosk.Lookup(d.Material)
	content += iconGlyph(cfg.Icon) + " " + materialStyle(cfg.Color).Render(cfg.DisplayName) + "\n"
	if cfg.Color != "" {
		bar.FullColor = cfg.Color
	}
	content += bar.ViewAs(float64(d.Percent())/100) + " " + Styles.Normal.Render(kiosk.PercentLabel(d.Progress)) + "\n"
	content += Styles.Muted.Render("Mantenga el objeto frente a la cámara")
	return Styles.Panel.Width(panelWidth).Render(content)
}

func renderHeader(s kiosk.State, width int) string {
	title := Styles.Title.Render("♻ Kiosco de Reciclaje")
	lamps := renderLamps(s.Lamps)
	gap := width - lipgloss.Width(title) - lipgloss.Width(lamps)
	if gap < 2 {
		gap = 2
	}
	return title + strings.Repeat(" ", gap) + lamps
}
