package api

import (
	"net/http"
	"time"

	"codeberg.org/mutker/powergym/internal/session"
	"codeberg.org/mutker/powergym/internal/timeline"
	"github.com/labstack/echo/v4"
)

func (s *Server) MountDashboard() {
	s.handler.GET("/api/dashboard", s.GetDashboard)
	s.handler.GET("/api/timeline", s.GetTimeline)
	s.handler.GET("/api/history", s.GetHistory)
	s.handler.POST("/api/reset", s.ResetSession)
	s.handler.POST("/api/calibrate", s.Calibrate)
}

func (s *Server) GetDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

type TimelineRequest struct {
	Resolution string `query:"resolution" validate:"omitempty,oneof=seconds minutes"`
}

type TimelineResponse struct {
	Labels []string         `json:"labels"`
	Watts  []float64        `json:"watts"`
	Points []timeline.Point `json:"points"`
}

func (s *Server) GetTimeline(c echo.Context) error {
	var req TimelineRequest
	if err := s.bind(c, &req); err != nil {
		return JSONError(c, http.StatusBadRequest, err)
	}

	layout := timeline.LabelLayoutSeconds
	if req.Resolution == "minutes" {
		layout = timeline.LabelLayoutMinutes
	}

	points := s.dashboard.Snapshot().Timeline

	return c.JSON(http.StatusOK, TimelineResponse{
		Labels: timeline.Labels(points, layout),
		Watts:  timeline.Values(points),
		Points: points,
	})
}

type HistoryRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=10000"`
}

type HistoryEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	TotalPower    float64   `json:"total_power"`
	SessionEnergy float64   `json:"session_energy"`
	Calories      int       `json:"calories"`
	TotalPoints   int       `json:"total_points"`
	Level         string    `json:"level"`
}

type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

func (s *Server) GetHistory(c echo.Context) error {
	var req HistoryRequest
	if err := s.bind(c, &req); err != nil {
		return JSONError(c, http.StatusBadRequest, err)
	}
	if req.Limit == 0 {
		req.Limit = s.historyLimit
	}

	snapshots, err := s.dashboard.History(c.Request().Context(), req.Limit)
	if err != nil {
		return JSONError(c, statusFor(err), err)
	}

	entries := make([]HistoryEntry, 0, len(snapshots))
	for _, m := range snapshots {
		entries = append(entries, HistoryEntry{
			Timestamp:     m.Timestamp,
			TotalPower:    m.TotalPower,
			SessionEnergy: m.SessionEnergy,
			Calories:      m.Calories,
			TotalPoints:   m.TotalPoints,
			Level:         m.Level,
		})
	}

	return c.JSON(http.StatusOK, HistoryResponse{Entries: entries})
}

type ResetResponse struct {
	State session.FitnessState `json:"state"`
}

func (s *Server) ResetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, ResetResponse{State: s.dashboard.Reset()})
}

type CalibrateResponse struct {
	Message string `json:"message"`
}

func (s *Server) Calibrate(c echo.Context) error {
	if err := s.dashboard.Calibrate(c.Request().Context()); err != nil {
		return JSONError(c, statusFor(err), err)
	}

	return c.JSON(http.StatusAccepted, CalibrateResponse{
		Message: "Calibration started. Keep equipment idle for 10 seconds.",
	})
}
