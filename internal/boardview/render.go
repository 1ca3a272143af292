// Package boardview renders a layout's occupancy grid with lipgloss.
// It is shared by the one-shot `board show` command and the TUI board
// view; widget body content is supplied by the caller so the renderer
// stays independent of the widget registry.
package boardview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridboard-cli/internal/model"
)

// BodyFunc supplies content lines for one widget box. band is the grid
// row relative to the widget's top row (0 for the title band), width is
// the usable content width in characters.
type BodyFunc func(inst model.WidgetInstance, band, width int) []string

type Options struct {
	// Columns of the grid; zero means the standard 4-column board.
	Columns int
	// CellWidth is the content width of one grid cell. Zero picks a
	// readable default.
	CellWidth int
	// SelectedID highlights one instance (TUI cursor).
	SelectedID string
	// Dark selects the dark palette variants.
	Dark bool
	// Body optionally renders widget content; when nil, boxes show the
	// instance id and footprint.
	Body BodyFunc
	// CategoryFor resolves a widget id to its category for border
	// coloring. When nil every widget uses the tools color.
	CategoryFor func(widgetID string) model.Category
}

const (
	defaultCellWidth = 18
	cellBodyLines    = 2 // content lines per grid row band
)

// Render draws the layout as bands of bordered boxes, one band per grid
// row. A widget spanning multiple columns renders as one wide box; a
// widget spanning multiple rows renders its title band first and
// continuation bands below it, borders matched by width.
func Render(layout *model.DashboardLayout, opts Options) string {
	cols := opts.Columns
	if cols <= 0 {
		cols = 4
	}
	cellW := opts.CellWidth
	if cellW <= 0 {
		cellW = defaultCellWidth
	}

	rows := 3 // always show a bit of empty grid
	for _, inst := range layout.Widgets {
		if bottom := inst.Y + inst.H; bottom > rows {
			rows = bottom
		}
	}

	// byOrigin[x][y] for quick "does a widget band start here" lookups.
	type bandRef struct {
		inst model.WidgetInstance
		band int
	}
	starts := map[[2]int]bandRef{}
	for _, inst := range layout.Widgets {
		for band := 0; band < inst.H; band++ {
			starts[[2]int{inst.X, inst.Y + band}] = bandRef{inst: inst, band: band}
		}
	}

	th := palette(opts.Dark)

	var bands []string
	for y := 0; y < rows; y++ {
		var boxes []string
		for x := 0; x < cols; {
			if ref, ok := starts[[2]int{x, y}]; ok && ref.inst.X == x {
				boxes = append(boxes, renderWidgetBand(ref.inst, ref.band, cellW, th, opts))
				x += max(ref.inst.W, 1)
				continue
			}
			if covered(layout, x, y) {
				// Inside a widget that started left of a clipped origin;
				// should not happen with placement-produced data, but
				// trusted batch moves can produce it. Render filler.
				boxes = append(boxes, emptyCell(cellW, th, true))
			} else {
				boxes = append(boxes, emptyCell(cellW, th, false))
			}
			x++
		}
		bands = append(bands, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, bands...)
}

func covered(layout *model.DashboardLayout, x, y int) bool {
	for _, inst := range layout.Widgets {
		if x >= inst.X && x < inst.X+inst.W && y >= inst.Y && y < inst.Y+inst.H {
			return true
		}
	}
	return false
}

func renderWidgetBand(inst model.WidgetInstance, band, cellW int, th theme, opts Options) string {
	w := max(inst.W, 1)
	// A w-cell box spans w single-cell outer widths.
	contentW := w*(cellW+2) - 2

	cat := model.CategoryTools
	if opts.CategoryFor != nil {
		cat = opts.CategoryFor(inst.WidgetID)
	}
	border := th.categoryColor(cat, opts.SelectedID == inst.ID)
	box := lipgloss.NewStyle().
		Border(bandBorder(band, inst.H)).
		BorderForeground(border).
		Width(contentW)

	var lines []string
	if band == 0 {
		title := inst.Title
		if title == "" {
			title = inst.WidgetID
		}
		lines = append(lines, th.title.Render(truncate(title, contentW)))
	}
	if opts.Body != nil {
		for _, l := range opts.Body(inst, band, contentW) {
			lines = append(lines, truncate(l, contentW))
		}
	} else if band == 0 {
		lines = append(lines, th.faint.Render(truncate(fmt.Sprintf("%s  %dx%d", inst.ID, inst.W, inst.H), contentW)))
	}
	for len(lines) < cellBodyLines {
		lines = append(lines, "")
	}
	if len(lines) > cellBodyLines {
		lines = lines[:cellBodyLines]
	}
	return box.Render(strings.Join(lines, "\n"))
}

// bandBorder opens the bottom of non-final bands and the top of
// non-first bands so a multi-row widget reads as one box.
func bandBorder(band, h int) lipgloss.Border {
	b := lipgloss.RoundedBorder()
	if h <= 1 {
		return b
	}
	if band > 0 {
		b.Top = " "
		b.TopLeft = "│"
		b.TopRight = "│"
	}
	if band < h-1 {
		b.Bottom = " "
		b.BottomLeft = "│"
		b.BottomRight = "│"
	}
	return b
}

func emptyCell(cellW int, th theme, filler bool) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.HiddenBorder()).
		Width(cellW)
	dot := th.faint.Render("·")
	if filler {
		dot = th.faint.Render("░")
	}
	lines := make([]string, cellBodyLines)
	lines[0] = dot
	return style.Render(strings.Join(lines, "\n"))
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return string(r[:w-1]) + "…"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
