package dashboard

import "codeberg.org/mutker/powergym/internal/errors"

const (
	ErrTickSkipped     = errors.ErrTickSkipped
	ErrFetchFailed     = errors.ErrorCode("dashboard_fetch_failed")
	ErrCalibrationOnly = errors.ErrorCode("dashboard_calibration_unsupported")
	ErrExportFailed    = errors.ErrExport
)
