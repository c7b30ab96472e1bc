package reports

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"shelfsmart/internal/models"

	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Movement", 22, "C"},
	{"Item", 18, "C"},
	{"Item Name", 56, "L"},
	{"Qty", 18, "R"},
	{"Type", 26, "C"},
	{"Timestamp", 40, "C"},
}

// WritePDF renders movements as a printable A4 table.
func WritePDF(w io.Writer, title string, movements []models.StockMovement, generatedAt time.Time) error {
	if len(movements) == 0 {
		return ErrNoData
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(240, 240, 240)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("02-Jan-2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Movements: %d", len(movements)))
	pdf.Ln(10)

	header()
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, m := range movements {
		if pdf.GetY()+7 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		cells := []string{
			m.MovementID,
			m.ItemID,
			tr(m.ItemName),
			strconv.Itoa(m.QuantityChanged),
			string(m.MovementType),
			formatTimestamp(m),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(7)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}
