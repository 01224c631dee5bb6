package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align controls horizontal placement of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// RenderTable renders an aligned table with a header separator line.
// Widths are measured with lipgloss so wide (CJK) runes and ANSI styling
// line up. align may be shorter than headers; missing entries align left.
func RenderTable(headers []string, rows [][]string, align ...Align) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	const colGap = 2
	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i < len(align) && align[i] == AlignRight {
				b.WriteString(pad + style(cell))
			} else {
				b.WriteString(style(cell))
				if i < cols-1 {
					b.WriteString(pad)
				}
			}
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

// Truncate shortens s to at most width display columns, marking the cut
// with an ellipsis.
func Truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…"
}
