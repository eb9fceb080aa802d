package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/powergym/internal/export"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"codeberg.org/mutker/powergym/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var exportedAt = time.Date(2025, 3, 1, 9, 30, 15, 250*int(time.Millisecond), time.UTC)

func sampleReadings() []telemetry.Reading {
	return []telemetry.Reading{
		{Name: "Treadmill", Power: 250, Energy: 125, RPM: 100, Weight: 0, IsActive: true},
		{Name: "Stationary_Bike", Power: 180.5, Energy: 135.25, RPM: 72, Weight: 12.3},
	}
}

func TestCSVExact(t *testing.T) {
	want := "Timestamp,Equipment,Power (W),Energy (Wh),RPM,Weight (kg)\n" +
		"2025-03-01T09:30:15.250Z,Treadmill,250,125,100,0\n" +
		"2025-03-01T09:30:15.250Z,Stationary_Bike,180.5,135.25,72,12.3"

	assert.Equal(t, want, export.CSV(sampleReadings(), exportedAt))
}

func TestCSVHeaderOnly(t *testing.T) {
	got := export.CSV(nil, exportedAt)

	assert.Equal(t, "Timestamp,Equipment,Power (W),Energy (Wh),RPM,Weight (kg)", got)
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestCSVConvertsToUTC(t *testing.T) {
	local := exportedAt.In(time.FixedZone("CET", 3600))

	got := export.CSV(sampleReadings()[:1], local)

	assert.Contains(t, got, "\n2025-03-01T09:30:15.250Z,")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteCSV(&buf, sampleReadings(), exportedAt))
	assert.Equal(t, export.CSV(sampleReadings(), exportedAt), buf.String())
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "powergym_data_2025-03-01.csv", export.Filename(exportedAt))
	assert.Equal(t, "powergym_data_2025-03-01.xlsx", export.WorkbookFilename(exportedAt))
}

func TestWriteWorkbook(t *testing.T) {
	points := []timeline.Point{
		{Timestamp: exportedAt.Add(-5 * time.Second), TotalPower: 400},
		{Timestamp: exportedAt, TotalPower: 430.5},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteWorkbook(&buf, sampleReadings(), points, exportedAt))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetReadings, export.SheetTimeline}, f.GetSheetList())

	readings, err := f.GetRows(export.SheetReadings)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, []string{"Timestamp", "Equipment", "Power (W)", "Energy (Wh)", "RPM", "Weight (kg)", "Status"}, readings[0])
	assert.Equal(t, "Treadmill", readings[1][1])
	assert.Equal(t, "ACTIVE", readings[1][6])
	assert.Equal(t, "IDLE", readings[2][6])

	timelineRows, err := f.GetRows(export.SheetTimeline)
	require.NoError(t, err)
	require.Len(t, timelineRows, 3)
	assert.Equal(t, "2025-03-01T09:30:15.250Z", timelineRows[2][0])
	assert.Equal(t, "430.5", timelineRows[2][1])
}
