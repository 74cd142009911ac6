package chunker

import (
	"strings"

	"docrouter/internal/models"
)

// tableChunks emits a table as atomic markdown chunks. Grids whose
// rendering exceeds maxSize are split on row boundaries with the header
// row repeated, so no chunk ever cuts through a row.
func (c *chunkBuilder) tableChunks(table models.TableGrid, maxSize int) {
	if len(table.Rows) == 0 {
		return
	}

	header := table.Rows[0]
	headerMD := renderRow(header, table.NumCols) + "\n" + renderSeparator(table.NumCols)

	var body strings.Builder
	body.WriteString(headerMD)
	flush := func() {
		c.add(body.String(), table.Page)
		body.Reset()
		body.WriteString(headerMD)
	}

	for _, row := range table.Rows[1:] {
		line := renderRow(row, table.NumCols)
		if body.Len()+len(line)+1 > maxSize && body.Len() > len(headerMD) {
			flush()
		}
		body.WriteByte('\n')
		body.WriteString(line)
	}
	if body.Len() > len(headerMD) {
		c.add(body.String(), table.Page)
	} else if len(table.Rows) == 1 {
		// Header-only grid: still worth one chunk.
		c.add(headerMD, table.Page)
	}
}

func renderRow(cells []string, numCols int) string {
	var sb strings.Builder
	sb.WriteByte('|')
	for i := 0; i < numCols; i++ {
		sb.WriteByte(' ')
		if i < len(cells) {
			sb.WriteString(strings.ReplaceAll(cells[i], "|", "\\|"))
		}
		sb.WriteString(" |")
	}
	return sb.String()
}

func renderSeparator(numCols int) string {
	var sb strings.Builder
	sb.WriteByte('|')
	for i := 0; i < numCols; i++ {
		sb.WriteString(" --- |")
	}
	return sb.String()
}
