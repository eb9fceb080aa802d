package telemetry

import "codeberg.org/mutker/powergym/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig  = errors.ErrorCode("telemetry_invalid_config")
	ErrNoCandidates   = errors.ErrorCode("telemetry_no_candidates")
	ErrInvalidTimeout = errors.ErrorCode("telemetry_invalid_timeout")

	// Discovery Errors
	ErrDeviceNotFound = errors.ErrorCode("telemetry_device_not_found")
	ErrNotConnected   = errors.ErrorCode("telemetry_not_connected")
	ErrBackoff        = errors.ErrorCode("telemetry_retry_backoff")
	ErrDiscovering    = errors.ErrorCode("telemetry_discovery_pending")

	// Fetch Errors
	ErrFetchFailed    = errors.ErrorCode("telemetry_fetch_failed")
	ErrDecodeFailed   = errors.ErrorCode("telemetry_decode_failed")
	ErrUnexpectedCode = errors.ErrorCode("telemetry_unexpected_status")

	// Operation Errors
	ErrCalibrateFailed  = errors.ErrorCode("telemetry_calibrate_failed")
	ErrOperationTimeout = errors.ErrorCode("telemetry_operation_timeout")
)
