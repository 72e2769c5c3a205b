package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/partman/internal/settings"
)

const minCellWidth = 3

// gridView draws one layer of the storage grid. Its shape is fixed when the
// shell starts.
type gridView struct {
	dims settings.Grid
	z    int // visible layer, 0-based
}

func newGridView(dims settings.Grid) gridView {
	return gridView{dims: dims}
}

// contains reports whether c is inside the grid.
func (g gridView) contains(c Cell) bool {
	return c.Row >= 0 && c.Row < g.dims.Rows &&
		c.Column >= 0 && c.Column < g.dims.Columns &&
		c.Z >= 0 && c.Z < g.dims.Zs
}

func (g *gridView) layerUp() {
	if g.z < g.dims.Zs-1 {
		g.z++
	}
}

func (g *gridView) layerDown() {
	if g.z > 0 {
		g.z--
	}
}

// show switches to the layer holding c.
func (g *gridView) show(c Cell) {
	if g.contains(c) {
		g.z = c.Z
	}
}

// cellWidth fits all columns into width, never going below minCellWidth.
func (g gridView) cellWidth(width int) int {
	if g.dims.Columns <= 0 {
		return minCellWidth
	}
	w := (width - (g.dims.Columns - 1)) / g.dims.Columns
	if w < minCellWidth {
		return minCellWidth
	}
	return w
}

// render draws the visible layer within width columns. labels holds the
// names of parts to highlight; focus, when inside the grid, is drawn on top.
func (g gridView) render(width int, labels map[Cell]string, focus *Cell) string {
	cw := g.cellWidth(width)

	var sb strings.Builder
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("Layer %d/%d", g.z+1, g.dims.Zs)))
	sb.WriteString("\n")

	rows := make([]string, 0, g.dims.Rows)
	for r := 0; r < g.dims.Rows; r++ {
		cells := make([]string, 0, g.dims.Columns)
		for c := 0; c < g.dims.Columns; c++ {
			cell := Cell{Row: r, Column: c, Z: g.z}
			cells = append(cells, g.renderCell(cell, cw, labels, focus))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	sb.WriteString(strings.Join(rows, "\n"))
	return sb.String()
}

func (g gridView) renderCell(cell Cell, width int, labels map[Cell]string, focus *Cell) string {
	label, hit := labels[cell]
	style := emptyCellStyle
	text := "·"
	if hit {
		style = hitCellStyle
		text = ansi.Truncate(label, width, "…")
		if text == "" {
			text = "■"
		}
	}
	if focus != nil && *focus == cell {
		style = focusCellStyle
	}
	return style.Width(width).Align(lipgloss.Center).Render(text)
}
