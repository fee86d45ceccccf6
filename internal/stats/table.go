package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column. Numeric columns are right-aligned.
type column struct {
	title   string
	numeric bool
}

var dictionaryColumns = []column{
	{title: "Dictionary"},
	{title: "Intervals", numeric: true},
	{title: "Time", numeric: true},
	{title: "Hits", numeric: true},
	{title: "Misses", numeric: true},
	{title: "Avg WPM", numeric: true},
	{title: "Best WPM", numeric: true},
	{title: "Accuracy", numeric: true},
}

// renderTable lays out rows under cols, one string per line with the
// header first. Missing cells render empty; extra cells are dropped.
func renderTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = displayWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			widths[i] = max(widths[i], displayWidth(cell(row, i)))
		}
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCells(cols, widths, header))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		if c.numeric {
			cells[i] = runewidth.FillLeft(cell(row, i), widths[i])
		} else {
			cells[i] = runewidth.FillRight(cell(row, i), widths[i])
		}
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// displayWidth counts terminal columns, so wide scripts in dictionary
// labels stay aligned.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
