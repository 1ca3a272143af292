package boardview

import (
	"fmt"
	"strings"

	"gridboard-cli/internal/model"
)

// BuiltinBody renders demo content for the builtin widget definitions
// from an instance's config. Unknown widget ids fall back to id +
// footprint, so third-party definitions still render a sensible box.
func BuiltinBody(inst model.WidgetInstance, band, width int) []string {
	switch inst.WidgetID {
	case "status-widget":
		return statusBody(inst, band)
	case "analytics-chart":
		return chartBody(inst, band, width)
	case "data-table":
		return tableBody(inst, band)
	case "quick-menu":
		return menuBody(inst, band)
	case "markdown-note":
		return noteBody(inst, band)
	default:
		if band == 0 {
			return []string{fmt.Sprintf("%s  %dx%d", inst.ID, inst.W, inst.H)}
		}
		return nil
	}
}

func statusBody(inst model.WidgetInstance, band int) []string {
	if band != 0 {
		return nil
	}
	label, _ := inst.Config["label"].(string)
	status, _ := inst.Config["status"].(string)
	glyph := "?"
	switch status {
	case "ok":
		glyph = "● up"
	case "warn":
		glyph = "◐ degraded"
	case "down":
		glyph = "○ down"
	}
	return []string{strings.TrimSpace(label + " " + glyph)}
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func chartBody(inst model.WidgetInstance, band, width int) []string {
	if band != 0 {
		return nil
	}
	series, _ := inst.Config["series"].([]any)
	if len(series) == 0 {
		return []string{"(no data)"}
	}
	vals := make([]float64, 0, len(series))
	maxV := 0.0
	for _, v := range series {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		vals = append(vals, f)
		if f > maxV {
			maxV = f
		}
	}
	if len(vals) == 0 || maxV == 0 {
		return []string{"(no data)"}
	}
	if len(vals) > width {
		vals = vals[len(vals)-width:]
	}
	var b strings.Builder
	for _, f := range vals {
		idx := int(f / maxV * float64(len(sparkRunes)-1))
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparkRunes[idx])
	}
	unit, _ := inst.Config["unit"].(string)
	if unit != "" {
		return []string{b.String() + " " + unit}
	}
	return []string{b.String()}
}

func tableBody(inst model.WidgetInstance, band int) []string {
	rows, _ := inst.Config["rows"].([]any)
	// One table row per band line; band 0 keeps the header row.
	idx := band * cellBodyLines
	if band == 0 {
		idx = 0
	}
	var out []string
	for i := idx; i < len(rows) && len(out) < cellBodyLines; i++ {
		row, _ := rows[i].(map[string]any)
		cols, _ := row["cols"].([]any)
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			parts = append(parts, fmt.Sprint(c))
		}
		out = append(out, strings.Join(parts, " │ "))
	}
	if band == 0 && len(out) == 0 {
		return []string{"(empty table)"}
	}
	return out
}

func menuBody(inst model.WidgetInstance, band int) []string {
	items, _ := inst.Config["items"].([]any)
	idx := band * cellBodyLines
	var out []string
	for i := idx; i < len(items) && len(out) < cellBodyLines; i++ {
		out = append(out, "› "+fmt.Sprint(items[i]))
	}
	if band == 0 && len(out) == 0 {
		return []string{"(empty menu)"}
	}
	return out
}

func noteBody(inst model.WidgetInstance, band int) []string {
	text, _ := inst.Config["text"].(string)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var clean []string
	for _, l := range lines {
		l = strings.TrimSpace(strings.TrimLeft(l, "#"))
		if l != "" {
			clean = append(clean, l)
		}
	}
	idx := band * cellBodyLines
	var out []string
	for i := idx; i < len(clean) && len(out) < cellBodyLines; i++ {
		out = append(out, clean[i])
	}
	return out
}
