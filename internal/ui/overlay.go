package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"recyclekiosk/internal/kiosk"
)

// Overlay is the modal currently drawn over the base screen.
type Overlay struct {
	View View
	Kind kiosk.ModalKind
}

// Update passes msg to the overlay's view and keeps the result.
func (o *Overlay) Update(msg tea.Msg) tea.Cmd {
	v, cmd := o.View.Update(msg)
	o.View = v
	return cmd
}

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Bounds returns where box lands when centred on a width x height screen.
func Bounds(box string, width, height int) Rect {
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return Rect{X: center(width, w), Y: center(height, h), W: w, H: h}
}

func center(total, size int) int {
	if total <= size {
		return 0
	}
	return (total - size) / 2
}

// Composite draws box centred over base. Cells of base under the box are
// replaced; the rest of each line is kept.
func Composite(base, box string, width, height int) string {
	r := Bounds(box, width, height)
	lines := strings.Split(base, "\n")
	for len(lines) < r.Y+r.H {
		lines = append(lines, "")
	}
	for i, row := range strings.Split(box, "\n") {
		y := r.Y + i
		line := lines[y]
		left := ansi.Truncate(line, r.X, "")
		if pad := r.X - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(line, r.X+r.W, "")
		lines[y] = left + row + right
	}
	return strings.Join(lines, "\n")
}
