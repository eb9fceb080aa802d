package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/logger"
	"codeberg.org/mutker/powergym/internal/metrics"
	"codeberg.org/mutker/powergym/internal/rewards"
	"codeberg.org/mutker/powergym/internal/session"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	defaultAddr         = ":8080"
	defaultHistoryLimit = 100
	defaultTimeout      = 10 * time.Second
)

// Dashboard is what the HTTP surface reads from and triggers
type Dashboard interface {
	SourceName() string
	Snapshot() session.Snapshot
	Reset() session.FitnessState
	Rewards() (int, []rewards.Option)
	Calibrate(ctx context.Context) error
	History(ctx context.Context, limit int) ([]metrics.Snapshot, error)
	ExportCSV(w io.Writer) (string, error)
	ExportXLSX(w io.Writer) (string, error)
}

type Server struct {
	handler      *echo.Echo
	dashboard    Dashboard
	logger       logger.Logger
	validator    *validator.Validate
	addr         string
	historyLimit int
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewServer(d Dashboard, opt ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		handler:      e,
		dashboard:    d,
		logger:       logger.Default(),
		validator:    validator.New(validator.WithRequiredStructEnabled()),
		addr:         defaultAddr,
		historyLimit: defaultHistoryLimit,
		readTimeout:  defaultTimeout,
		writeTimeout: defaultTimeout,
	}

	for _, opt := range opt {
		opt(s)
	}

	e.Server.ReadTimeout = s.readTimeout
	e.Server.WriteTimeout = s.writeTimeout
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.MaxHeaderBytes = 4096

	e.Use(RequestLogger(s.logger))
	s.Mount()
	return s
}

func (s *Server) Mount() {
	s.handler.GET("/health", s.Health)
	s.MountDashboard()
	s.MountRewards()
	s.MountExport()
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.addr).Msg("API listening")

	if err := s.handler.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.New().Wrap(errors.ErrUnavailable, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}

func (s *Server) bind(c echo.Context, i interface{}) error {
	errFactory := errors.New()

	if err := c.Bind(i); err != nil {
		return errFactory.WithMessage(ErrBadRequest, "bad request")
	}
	if err := s.validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return errFactory.WithMessage(ErrBadRequest, "bad request")
		}
		return errFactory.WithMessage(ErrBadRequest, errs[0].Field()+": "+errs[0].Tag())
	}
	return nil
}

type HealthResponse struct {
	Status string `json:"status"`
	Source string `json:"source"`
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Source: s.dashboard.SourceName()})
}
