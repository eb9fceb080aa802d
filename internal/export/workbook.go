package export

import (
	"io"
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"codeberg.org/mutker/powergym/internal/timeline"
	"github.com/xuri/excelize/v2"
)

const (
	SheetReadings = "Readings"
	SheetTimeline = "Timeline"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WorkbookFilename returns the download name for an XLSX export taken at ts
func WorkbookFilename(ts time.Time) string {
	return "powergym_data_" + ts.UTC().Format(filenameLayout) + ".xlsx"
}

// WriteWorkbook writes the latest readings and the power timeline as a
// two-sheet workbook.
func WriteWorkbook(w io.Writer, readings []telemetry.Reading, points []timeline.Point, ts time.Time) error {
	errFactory := errors.New()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetReadings); err != nil {
		return errFactory.Wrap(ErrWorkbookFailed, err)
	}
	if _, err := f.NewSheet(SheetTimeline); err != nil {
		return errFactory.Wrap(ErrWorkbookFailed, err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
	})
	if err != nil {
		return errFactory.Wrap(ErrWorkbookFailed, err)
	}

	stamp := ts.UTC().Format(TimestampLayout)
	rows := make([][]interface{}, 0, len(readings))
	for _, r := range readings {
		rows = append(rows, []interface{}{stamp, r.Name, r.Power, r.Energy, r.RPM, r.Weight, r.Status()})
	}
	columns := append(append([]string(nil), csvHeader...), "Status")
	if err := writeSheet(f, SheetReadings, columns, rows, header); err != nil {
		return err
	}

	rows = make([][]interface{}, 0, len(points))
	for _, p := range points {
		rows = append(rows, []interface{}{p.Timestamp.UTC().Format(TimestampLayout), p.TotalPower})
	}
	if err := writeSheet(f, SheetTimeline, []string{"Timestamp", "Total Power (W)"}, rows, header); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]interface{}, headerStyle int) error {
	errFactory := errors.New()

	headerRow := make([]interface{}, len(columns))
	for i, c := range columns {
		headerRow[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return errFactory.Wrap(ErrWorkbookFailed, err)
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return errFactory.Wrap(ErrWorkbookFailed, err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return errFactory.Wrap(ErrWorkbookFailed, err)
	}

	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return errFactory.Wrap(ErrWorkbookFailed, err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return errFactory.Wrap(ErrWorkbookFailed, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errFactory.Wrap(ErrWorkbookFailed, err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return errFactory.Wrap(ErrWorkbookFailed, err)
		}
	}

	return nil
}
