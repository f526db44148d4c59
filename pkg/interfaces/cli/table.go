package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/partkeep/partkeep/pkg/domain/entities"
)

// writeTable renders rows in fixed-width columns separated by two spaces,
// with a dashed underline after the first (header) row. Column widths are
// computed from the widest cell in each column.
func writeTable(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no results)")
		return
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for j, cell := range row {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell + strings.Repeat(" ", widths[j]-len(cell))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
		if i == 0 {
			dashes := make([]string, len(widths))
			for j, wd := range widths {
				dashes[j] = strings.Repeat("-", wd)
			}
			fmt.Fprintln(w, strings.Join(dashes, "  "))
		}
	}
}

// partRows builds the standard listing table: header plus one row per part.
func partRows(items []entities.StoredPart) [][]string {
	rows := [][]string{{"ID", "Category", "Name", "Voltage", "Current", "Qty"}}
	for _, sp := range items {
		rows = append(rows, []string{
			strconv.FormatInt(sp.ID, 10),
			sp.Part.Category,
			sp.Part.Name,
			sp.Part.Voltage.Format(),
			sp.Part.Current.Format(),
			strconv.FormatInt(sp.Part.Quantity, 10),
		})
	}
	return rows
}
