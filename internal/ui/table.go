package ui

import (
	"strings"

	"checkpoint/internal/format"

	"github.com/mattn/go-runewidth"
)

var (
	tableHeader  = []string{"Name", "Check In", "Check Out"}
	tableWidths  = []int{24, 26, 26}
	tableSpacing = "  "
)

// Table renders a header, a rule, and exactly one line per row.
func Table(rows []format.Row) string {
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(tableLine(tableHeader)))
	b.WriteByte('\n')
	b.WriteString(MutedStyle.Render(strings.Repeat("─", tableWidth())))
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(tableLine(row.Cells()))
	}
	return b.String()
}

func tableLine(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		cell = strings.ReplaceAll(cell, "\n", " ")
		parts[i] = runewidth.FillRight(runewidth.Truncate(cell, tableWidths[i], "…"), tableWidths[i])
	}
	return strings.TrimRight(strings.Join(parts, tableSpacing), " ")
}

func tableWidth() int {
	w := len(tableSpacing) * (len(tableWidths) - 1)
	for _, cw := range tableWidths {
		w += cw
	}
	return w
}
