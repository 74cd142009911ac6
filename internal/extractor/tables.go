package extractor

import (
	"strings"

	"docrouter/internal/models"
)

// minDelimitedRows is the smallest run of consecutive delimited lines that
// counts as a table rather than incidental punctuation.
const minDelimitedRows = 2

// detectDelimitedTables scans text blocks for runs of tab- or pipe-delimited
// lines and converts each run into a table grid. Formats without a native
// table structure (PDF page text, plain text) get their table channel from
// this detector.
func detectDelimitedTables(blocks []models.TextBlock) []models.TableGrid {
	var tables []models.TableGrid

	for _, block := range blocks {
		var run [][]string
		flush := func() {
			if len(run) >= minDelimitedRows {
				tables = append(tables, buildGrid(block.Page, len(tables), run))
			}
			run = nil
		}

		for _, line := range strings.Split(block.Text, "\n") {
			// Markdown alignment rows continue a run without contributing
			// a content row.
			if isAlignmentRow(line) && len(run) > 0 {
				continue
			}
			cells := splitDelimitedLine(line)
			if len(cells) >= 2 {
				run = append(run, cells)
				continue
			}
			flush()
		}
		flush()
	}
	return tables
}

// splitDelimitedLine returns the cells of a delimited line, or nil when the
// line does not look like a table row.
func splitDelimitedLine(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	var sep string
	switch {
	case strings.Count(trimmed, "|") >= 2:
		sep = "|"
		trimmed = strings.Trim(trimmed, "|")
	case strings.Count(trimmed, "\t") >= 1:
		sep = "\t"
	default:
		return nil
	}

	parts := strings.Split(trimmed, sep)
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	if len(cells) < 2 {
		return nil
	}
	return cells
}

// isAlignmentRow matches markdown separator rows like |---|:--:|.
func isAlignmentRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "-") {
		return false
	}
	return trimmed != "" && strings.Trim(trimmed, "|-: \t") == ""
}

// buildGrid assembles a TableGrid, recording the widest row as NumCols so
// the analyzer can judge row regularity.
func buildGrid(page, index int, rows [][]string) models.TableGrid {
	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	return models.TableGrid{
		Page:    page,
		Index:   index,
		Rows:    rows,
		NumRows: len(rows),
		NumCols: numCols,
	}
}
