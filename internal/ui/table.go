package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FailedPrefix marks a status cell of a row whose download failed.
const FailedPrefix = "error"

// RenderTable builds a formatted table string using lipgloss.
// With color, headers are bold and rows whose last cell starts with
// FailedPrefix are red. Without color, a plain table is produced.
func RenderTable(headers []string, rows [][]string, color bool) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		BorderColumn(true).
		BorderHeader(true)

	if color {
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16a34a"))
		cellStyle := lipgloss.NewStyle()
		failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))

		t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			if row >= 0 && row < len(rows) && failed(rows[row]) {
				return failStyle
			}

			return cellStyle
		})
	}

	return t.Render()
}

func failed(row []string) bool {
	return len(row) > 0 && strings.HasPrefix(row[len(row)-1], FailedPrefix)
}
