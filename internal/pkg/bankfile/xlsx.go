package bankfile

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
)

const sheetName = "Payments"

// XLSX renders the same rows as CSV into a workbook.
func XLSX(batch *payment.Batch) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	header := make([]interface{}, len(tableHeader))
	for i, h := range tableHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(tableHeader), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range tableRows(batch) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		cells := row.cells()
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(tableHeader))
	if err := f.SetColWidth(sheetName, "A", lastCol, 16); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
