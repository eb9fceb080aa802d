package export

import (
	"io"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"github.com/samber/lo"
)

const (
	// TimestampLayout is UTC ISO-8601 with milliseconds
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	filenameLayout = "2006-01-02"
	CSVContentType = "text/csv"
)

var csvHeader = []string{"Timestamp", "Equipment", "Power (W)", "Energy (Wh)", "RPM", "Weight (kg)"}

// CSV renders one row per reading, all stamped with ts. Rows are joined
// with "\n" and there is no trailing newline. Fields are not quoted.
func CSV(readings []telemetry.Reading, ts time.Time) string {
	stamp := ts.UTC().Format(TimestampLayout)

	rows := make([]string, 0, len(readings)+1)
	rows = append(rows, strings.Join(csvHeader, ","))
	rows = append(rows, lo.Map(readings, func(r telemetry.Reading, _ int) string {
		return strings.Join([]string{
			stamp,
			r.Name,
			formatNumber(r.Power),
			formatNumber(r.Energy),
			formatNumber(r.RPM),
			formatNumber(r.Weight),
		}, ",")
	})...)

	return strings.Join(rows, "\n")
}

// WriteCSV writes CSV(readings, ts) to w
func WriteCSV(w io.Writer, readings []telemetry.Reading, ts time.Time) error {
	if _, err := io.WriteString(w, CSV(readings, ts)); err != nil {
		return errors.New().Wrap(ErrWriteFailed, err)
	}
	return nil
}

// Filename returns the download name for a CSV export taken at ts
func Filename(ts time.Time) string {
	return "powergym_data_" + ts.UTC().Format(filenameLayout) + ".csv"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
