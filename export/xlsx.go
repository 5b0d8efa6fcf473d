package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wudi/pdffield/fields"
)

const xlsxSheet = "Felder"

// WriteXLSX renders the results as an XLSX workbook and returns its bytes.
func WriteXLSX(descs []fields.Descriptor, results []Result) ([]byte, error) {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(xlsxSheet); index == -1 {
		if _, err := f.NewSheet(xlsxSheet); err != nil {
			return nil, fmt.Errorf("create sheet: %w", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(xlsxSheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(xlsxSheet, cell, v)
	}

	for i, h := range Header(descs) {
		if err := set(i+1, 1, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for rowIdx, r := range results {
		for colIdx, v := range Row(descs, r) {
			if err := set(colIdx+1, rowIdx+2, v); err != nil {
				return nil, fmt.Errorf("write row for %s: %w", r.Document, err)
			}
		}
	}

	// The document column carries long base names.
	_ = f.SetColWidth(xlsxSheet, "A", "A", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
