package reports

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"shelfsmart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp
1,10,Basmati Rice,20,ADDED,2025-03-20T09:00:00Z
2,10,Basmati Rice,-5,CONSUMED,2025-03-21T10:30:00Z

3,11,"Penne, Rigate",-2,consumed,2025-03-22 08:15:00
`

func TestParseCSV(t *testing.T) {
	movements, err := ParseCSVIn(strings.NewReader(sampleReport), time.UTC)

	require.NoError(t, err)
	require.Len(t, movements, 3)
	assert.Equal(t, "1", movements[0].MovementID)
	assert.Equal(t, 20, movements[0].QuantityChanged)
	assert.Equal(t, models.MovementAdded, movements[0].MovementType)
	assert.Equal(t, -5, movements[1].QuantityChanged)
	assert.Equal(t, "Penne, Rigate", movements[2].ItemName)
	assert.Equal(t, models.MovementConsumed, movements[2].MovementType)
	assert.Equal(t, time.Date(2025, 3, 22, 8, 15, 0, 0, time.UTC), movements[2].Timestamp)
}

func TestParseCSV_ZonelessTimestampsUseViewerZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	input := "MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp\n" +
		"1,10,Rice,5,ADDED,2025-03-23T01:00:00\n" +
		"2,10,Rice,-1,CONSUMED,2025-03-23T01:00:00Z\n"

	movements, err := ParseCSVIn(strings.NewReader(input), ny)

	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.True(t, time.Date(2025, 3, 23, 1, 0, 0, 0, ny).Equal(movements[0].Timestamp))
	assert.Equal(t, ny, movements[0].Timestamp.Location())
	assert.True(t, time.Date(2025, 3, 23, 1, 0, 0, 0, time.UTC).Equal(movements[1].Timestamp))
}

func TestWriteCSV_KeepsTimestampAsWritten(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	input := "MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp\n" +
		"1,10,Rice,5,ADDED,2025-03-23T01:00:00\n" +
		"2,10,Rice,-1,CONSUMED,2025-03-23 08:15:00\n"
	movements, err := ParseCSVIn(strings.NewReader(input), ny)
	require.NoError(t, err)
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, movements))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `1,10,"Rice",5,ADDED,2025-03-23T01:00:00`, lines[1])
	assert.Equal(t, `2,10,"Rice",-1,CONSUMED,2025-03-23 08:15:00`, lines[2])
}

func TestParseCSV_ColumnsMatchedByName(t *testing.T) {
	input := "ItemName,MovementType,QuantityChanged,Timestamp,ItemId,MovementId\nRice,UPDATED,3,2025-01-02,7,99\n"

	movements, err := ParseCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "99", movements[0].MovementID)
	assert.Equal(t, "7", movements[0].ItemID)
	assert.Equal(t, models.MovementUpdated, movements[0].MovementType)
}

func TestParseCSV_BadRowsReportedOthersKept(t *testing.T) {
	input := "MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp\n" +
		"1,10,Rice,lots,ADDED,2025-03-20T09:00:00Z\n" +
		"2,10,Rice,4,ADDED,yesterday\n" +
		"3,10,Rice,4,ADDED,2025-03-20T09:00:00Z\n"

	movements, err := ParseCSV(strings.NewReader(input))

	require.Len(t, movements, 1)
	assert.Equal(t, "3", movements[0].MovementID)
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Line)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseCSV_Empty(t *testing.T) {
	movements, err := ParseCSV(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, movements)

	movements, err = ParseCSV(strings.NewReader("MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp\n"))
	assert.NoError(t, err)
	assert.Empty(t, movements)
}

func TestWriteCSV(t *testing.T) {
	movements := []models.StockMovement{
		{MovementID: "1", ItemID: "10", ItemName: `12" Pizza Base`, QuantityChanged: -3, MovementType: models.MovementConsumed, Timestamp: time.Date(2025, 3, 21, 10, 30, 0, 0, time.UTC)},
		{MovementID: "2", ItemID: "a,b", ItemName: "Rice", QuantityChanged: 0, MovementType: models.MovementAdded},
	}
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, movements))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp", lines[0])
	assert.Equal(t, `1,10,"12"" Pizza Base",-3,CONSUMED,2025-03-21T10:30:00Z`, lines[1])
	assert.Equal(t, `2,"a,b","Rice",0,ADDED,`, lines[2])
}

func TestWriteCSV_ReadsBack(t *testing.T) {
	original, err := ParseCSV(strings.NewReader(sampleReport))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, original))

	parsed, err := ParseCSV(&buf)

	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestWriteCSV_NoData(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, nil)

	assert.ErrorIs(t, err, ErrNoData)
	assert.EqualError(t, err, "no data available to download")
	assert.Zero(t, buf.Len())
}
