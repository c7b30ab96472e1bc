package reports

import (
	"fmt"
	"io"
	"strings"
	"time"

	"shelfsmart/internal/models"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts csv, xlsx or pdf in any case. An empty string means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Prefix is the download file name prefix of a report kind.
func Prefix(kind models.ReportKind) string {
	switch kind {
	case models.ReportDaily:
		return "Daily_Stock_Report"
	case models.ReportWeekly:
		return "Weekly_Stock_Report"
	default:
		return "Custom_Stock_Report"
	}
}

// Title is the heading printed on a PDF export.
func Title(kind models.ReportKind) string {
	return strings.ReplaceAll(Prefix(kind), "_", " ")
}

// FileNameFor is <prefix>_<YYYY-MM-DD>.<format> using now's UTC date.
func FileNameFor(prefix string, now time.Time, format Format) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.UTC().Format(models.DateLayout), format)
}

// Export writes movements to w in format.
func Export(w io.Writer, format Format, title string, movements []models.StockMovement, now time.Time) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, movements)
	case FormatPDF:
		return WritePDF(w, title, movements, now)
	default:
		return WriteCSV(w, movements)
	}
}
