// Package reports reads the stock movement reports served by the backend and
// exports them as CSV, XLSX or PDF files.
package reports

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"shelfsmart/internal/models"
)

// ErrNoData is returned when an export is requested for an empty report.
var ErrNoData = errors.New("no data available to download")

// Header is the fixed column order of every exported report.
var Header = []string{"MovementId", "ItemId", "ItemName", "QuantityChanged", "MovementType", "Timestamp"}

// RowError describes one report row that could not be read.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Layouts without an offset are wall-clock times in the viewer's zone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	models.DateLayout,
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ParseCSV reads a report in the local zone. See ParseCSVIn.
func ParseCSV(r io.Reader) ([]models.StockMovement, error) {
	return ParseCSVIn(r, time.Local)
}

// ParseCSVIn reads a header-row delimited report. Columns are matched by header
// name so their order does not matter. Blank lines are skipped. Timestamps
// without an offset are read as wall-clock times in loc. Rows that fail to
// parse are left out and reported together in the returned error, which wraps
// one *RowError per row; the rows that did parse are still returned.
func ParseCSVIn(r io.Reader, loc *time.Location) ([]models.StockMovement, error) {
	if loc == nil {
		loc = time.Local
	}
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		movements []models.StockMovement
		rowErrs   []error
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrs = append(rowErrs, &RowError{Line: parseErr.Line, Err: parseErr.Err})
				continue
			}
			return movements, fmt.Errorf("failed to read report: %w", err)
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)

		m := models.StockMovement{
			MovementID:   field(record, "MovementId"),
			ItemID:       field(record, "ItemId"),
			ItemName:     field(record, "ItemName"),
			MovementType: models.MovementType(strings.ToUpper(field(record, "MovementType"))),
		}
		if qty := field(record, "QuantityChanged"); qty != "" {
			n, err := strconv.Atoi(qty)
			if err != nil {
				rowErrs = append(rowErrs, &RowError{Line: line, Err: fmt.Errorf("invalid QuantityChanged %q", qty)})
				continue
			}
			m.QuantityChanged = n
		}
		raw := field(record, "Timestamp")
		ts, err := parseTimestamp(raw, loc)
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			continue
		}
		m.Timestamp = ts
		m.TimestampText = raw
		movements = append(movements, m)
	}

	return movements, errors.Join(rowErrs...)
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes movements with the fixed header. ItemName is always quoted;
// the other fields are quoted only when they contain a delimiter, a quote or a
// line break.
func WriteCSV(w io.Writer, movements []models.StockMovement) error {
	if len(movements) == 0 {
		return ErrNoData
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(Header, ","))
	for _, m := range movements {
		bw.WriteByte('\n')
		bw.WriteString(strings.Join([]string{
			quoteIfNeeded(m.MovementID),
			quoteIfNeeded(m.ItemID),
			quote(m.ItemName),
			strconv.Itoa(m.QuantityChanged),
			quoteIfNeeded(string(m.MovementType)),
			quoteIfNeeded(formatTimestamp(m)),
		}, ","))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

// formatTimestamp returns the timestamp as the report wrote it.
func formatTimestamp(m models.StockMovement) string {
	if m.TimestampText != "" {
		return m.TimestampText
	}
	if m.Timestamp.IsZero() {
		return ""
	}
	return m.Timestamp.Format(time.RFC3339)
}
