package extractor

import (
	"fmt"

	"docrouter/internal/models"

	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

// extractXLSX reads an Excel workbook. Each sheet becomes one table grid
// plus a sheet-name text block, so spreadsheets classify as text+table.
func extractXLSX(path string) *models.RawContentBundle {
	bundle := &models.RawContentBundle{}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		bundle.AddError(models.ChannelTable, fmt.Sprintf("open xlsx: %v", err))
		return bundle
	}

	for sheetNum, sheet := range f.Sheets {
		var rows [][]string
		for _, row := range sheet.Rows {
			var cells []string
			for _, c := range row.Cells {
				cells = append(cells, c.String())
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
		if len(rows) == 0 {
			bundle.AddError(models.ChannelTable, fmt.Sprintf("sheet %q is empty", sheet.Name))
			continue
		}
		bundle.TextBlocks = append(bundle.TextBlocks, models.TextBlock{
			Text:   fmt.Sprintf("Sheet: %s", sheet.Name),
			Page:   sheetNum + 1,
			Offset: len(bundle.TextBlocks),
		})
		bundle.Tables = append(bundle.Tables, buildGrid(sheetNum+1, len(bundle.Tables), rows))
	}

	return bundle
}

// extractODS reads an OpenDocument spreadsheet via excelize, one grid per
// sheet, mirroring the XLSX path.
func extractODS(path string) *models.RawContentBundle {
	bundle := &models.RawContentBundle{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		bundle.AddError(models.ChannelTable, fmt.Sprintf("open ods: %v", err))
		return bundle
	}
	defer f.Close()

	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			bundle.AddError(models.ChannelTable, fmt.Sprintf("sheet %q: %v", sheetName, err))
			continue
		}
		var grid [][]string
		for _, row := range rows {
			if len(row) > 0 {
				grid = append(grid, row)
			}
		}
		if len(grid) == 0 {
			bundle.AddError(models.ChannelTable, fmt.Sprintf("sheet %q is empty", sheetName))
			continue
		}
		bundle.TextBlocks = append(bundle.TextBlocks, models.TextBlock{
			Text:   fmt.Sprintf("Sheet: %s", sheetName),
			Page:   sheetNum + 1,
			Offset: len(bundle.TextBlocks),
		})
		bundle.Tables = append(bundle.Tables, buildGrid(sheetNum+1, len(bundle.Tables), grid))
	}

	return bundle
}
