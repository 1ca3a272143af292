package dashboard

import "gridboard-cli/internal/model"

const (
	// GridColumns is the fixed column count of the dashboard grid.
	GridColumns = 4

	// scanRows bounds the pre-scanned occupancy grid. Rows past this are
	// never scanned; the fallback below appends past them instead, so
	// placement can always succeed.
	scanRows = 10
)

// findPosition returns the first-fit position for a new w x h footprint
// given the existing instances: candidate top-left cells are scanned in
// row-major order (top-to-bottom, left-to-right) and the first fully
// unoccupied in-bounds rectangle wins. No repacking, no attempt to
// minimize total height.
//
// When nothing fits within the pre-scanned rows, the widget is placed
// at (0, scanRows), below everything scanned. Never fails.
func findPosition(instances []model.WidgetInstance, w, h int) (x, y int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w > GridColumns {
		w = GridColumns
	}

	var occupied [scanRows][GridColumns]bool
	for _, inst := range instances {
		for yy := inst.Y; yy < inst.Y+inst.H; yy++ {
			if yy < 0 || yy >= scanRows {
				continue
			}
			for xx := inst.X; xx < inst.X+inst.W; xx++ {
				if xx < 0 || xx >= GridColumns {
					continue
				}
				occupied[yy][xx] = true
			}
		}
	}

	for y = 0; y+h <= scanRows; y++ {
		for x = 0; x+w <= GridColumns; x++ {
			if rectFree(&occupied, x, y, w, h) {
				return x, y
			}
		}
	}
	return 0, scanRows
}

func rectFree(occupied *[scanRows][GridColumns]bool, x, y, w, h int) bool {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if occupied[yy][xx] {
				return false
			}
		}
	}
	return true
}

// Overlaps returns every pair of instances whose rectangles intersect.
// Placement never creates overlaps; batch position updates can (they
// trust the caller's geometry), and doctor reports what it finds here.
func Overlaps(instances []model.WidgetInstance) [][2]model.WidgetInstance {
	var out [][2]model.WidgetInstance
	for i := 0; i < len(instances); i++ {
		for j := i + 1; j < len(instances); j++ {
			if instances[i].Overlaps(instances[j]) {
				out = append(out, [2]model.WidgetInstance{instances[i], instances[j]})
			}
		}
	}
	return out
}
