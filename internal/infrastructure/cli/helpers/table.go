package helpers

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arf/areacheck/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	hitStyle    = cellStyle.Foreground(lipgloss.Color("#198754"))
	missStyle   = cellStyle.Foreground(lipgloss.Color("#dc3545"))
	sepStyle    = lipgloss.NewStyle().Faint(true)
)

// RenderTable writes the results table, newest row first.
func RenderTable(out io.Writer, rows []domain.TableRow) {
	io.WriteString(out, FormatTable(rows))
}

// FormatTable renders rows under the standard headers.
func FormatTable(rows []domain.TableRow) string {
	headers := domain.TableHeaders
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row.Cells() {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Padding counts toward lipgloss widths.
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	for i, h := range headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	total := len(headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range rows {
		style := missStyle
		if row.Class == domain.RowClassHit {
			style = hitStyle
		}
		cells := row.Cells()
		for i, cell := range cells {
			sb.WriteString(style.Width(widths[i]).Render(cell))
			if i < len(cells)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
