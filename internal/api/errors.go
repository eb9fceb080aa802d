package api

import (
	"fmt"
	"net/http"

	"codeberg.org/mutker/powergym/internal/dashboard"
	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"github.com/labstack/echo/v4"
)

const (
	ErrBadRequest     = errors.ErrInvalidArgument
	ErrRewardNotFound = errors.ErrorCode("api_reward_not_found")
	ErrNotEligible    = errors.ErrorCode("api_reward_not_eligible")
)

type JSONErrorModel struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func JSONError(c echo.Context, status int, content any) error {
	data := &JSONErrorModel{Message: fmt.Sprintf("%v", content)}
	if err, ok := content.(error); ok {
		data.Code = string(errors.CodeOf(err))
	}

	return c.JSON(status, data)
}

// statusFor maps coded errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.HasCode(err, errors.ErrInsufficientPoints), errors.HasCode(err, ErrNotEligible):
		return http.StatusForbidden
	case errors.HasCode(err, ErrRewardNotFound):
		return http.StatusNotFound
	case errors.HasCode(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.HasCode(err, telemetry.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.HasCode(err, dashboard.ErrCalibrationOnly):
		return http.StatusNotImplemented
	case errors.HasCode(err, telemetry.ErrCalibrateFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
