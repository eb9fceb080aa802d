package api

import (
	"time"

	"codeberg.org/mutker/powergym/internal/logger"
)

type Option func(*Server)

func Addr(listen string) Option {
	return func(s *Server) {
		s.addr = listen
	}
}

func Logger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func HistoryLimit(limit int) Option {
	return func(s *Server) {
		s.historyLimit = limit
	}
}

func Timeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}
