package api

import (
	"bytes"
	"fmt"
	"net/http"

	"codeberg.org/mutker/powergym/internal/export"
	"github.com/labstack/echo/v4"
)

func (s *Server) MountExport() {
	s.handler.GET("/api/export/csv", s.ExportCSV)
	s.handler.GET("/api/export/xlsx", s.ExportXLSX)
}

func (s *Server) ExportCSV(c echo.Context) error {
	var buf bytes.Buffer
	name, err := s.dashboard.ExportCSV(&buf)
	if err != nil {
		return JSONError(c, http.StatusInternalServerError, err)
	}

	return attachment(c, name, export.CSVContentType, buf.Bytes())
}

func (s *Server) ExportXLSX(c echo.Context) error {
	var buf bytes.Buffer
	name, err := s.dashboard.ExportXLSX(&buf)
	if err != nil {
		return JSONError(c, http.StatusInternalServerError, err)
	}

	return attachment(c, name, export.XLSXContentType, buf.Bytes())
}

func attachment(c echo.Context, name, contentType string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, contentType, body)
}
