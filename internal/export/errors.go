package export

import "codeberg.org/mutker/powergym/internal/errors"

const (
	ErrWriteFailed    = errors.ErrExport
	ErrWorkbookFailed = errors.ErrorCode("export_workbook_failed")
)
