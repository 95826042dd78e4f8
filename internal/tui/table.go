package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mrz1836/agentspace/internal/domain"
)

// Minimum column widths of the workspace table.
const (
	minNameWidth     = 10
	minStatusWidth   = 9
	minWorkflowWidth = 8

	// maxCellWidth caps free-text columns; longer values are truncated.
	maxCellWidth = 40
)

// columnGap separates table columns.
const columnGap = "  "

// WorkspaceTable renders workspace summaries as an aligned table.
type WorkspaceTable struct {
	rows   []domain.Summary
	styles *TableStyles
	updated func(row domain.Summary) string
}

// NewWorkspaceTable creates a table over rows.
func NewWorkspaceTable(rows []domain.Summary) *WorkspaceTable {
	return &WorkspaceTable{
		rows:   rows,
		styles: NewTableStyles(),
		updated: updatedCell,
	}
}

// Headers returns the column headers.
func (t *WorkspaceTable) Headers() []string {
	return []string{"WORKSPACE", "STATUS", "WORKFLOW", "UPDATED"}
}

// Render writes the table to w. Widths are measured in terminal cells so
// wide runes stay aligned.
func (t *WorkspaceTable) Render(w io.Writer) error {
	headers := t.Headers()
	cells := t.plainCells()

	widths := []int{
		max(minNameWidth, runewidth.StringWidth(headers[0])),
		max(minStatusWidth, runewidth.StringWidth(headers[1])),
		max(minWorkflowWidth, runewidth.StringWidth(headers[2])),
		runewidth.StringWidth(headers[3]),
	}
	for _, row := range cells {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = min(cw, maxCellWidth)
			}
		}
	}

	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = t.styles.Header.Render(padRight(h, widths[i]))
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, columnGap), " ")); err != nil {
		return err
	}

	for i, row := range cells {
		out := make([]string, len(row))
		for j, cell := range row {
			out[j] = padRight(runewidth.Truncate(cell, widths[j], "…"), widths[j])
		}
		out[1] = t.styleStatus(t.rows[i], out[1])
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(out, columnGap), " ")); err != nil {
			return err
		}
	}
	return nil
}

// ToTableData returns unstyled headers and rows.
func (t *WorkspaceTable) ToTableData() ([]string, [][]string) {
	return t.Headers(), t.plainCells()
}

func (t *WorkspaceTable) plainCells() [][]string {
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		workflow := row.Workflow
		if workflow == "" {
			workflow = "-"
		}
		rows[i] = []string{
			row.Name,
			StatusIcon(row.Status) + " " + row.Status.String(),
			workflow,
			t.updated(row),
		}
	}
	return rows
}

func (t *WorkspaceTable) styleStatus(row domain.Summary, padded string) string {
	color, ok := t.styles.StatusColors[row.Status]
	if !ok {
		return padded
	}
	return lipgloss.NewStyle().Foreground(color).Render(padded)
}

func updatedCell(row domain.Summary) string {
	if row.UpdatedAt == nil {
		return "-"
	}
	return RelativeTime(*row.UpdatedAt)
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
