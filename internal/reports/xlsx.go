package reports

import (
	"fmt"
	"io"

	"shelfsmart/internal/models"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding exported movements.
const SheetName = "Movements"

// WriteXLSX writes movements as a single-sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, movements []models.StockMovement) error {
	if len(movements) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, name := range Header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Header), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, m := range movements {
		row := []any{m.MovementID, m.ItemID, m.ItemName, m.QuantityChanged, string(m.MovementType), formatTimestamp(m)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", "C", 30); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
