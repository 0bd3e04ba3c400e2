package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

type Server struct {
	httpServer *http.Server
	port       int
	log        *slog.Logger
}

func NewServer(log *slog.Logger, port int, handler http.Handler, timeouts Timeouts) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  timeouts.Read,
			WriteTimeout: timeouts.Write,
			IdleTimeout:  timeouts.Idle,
		},
		port: port,
		log:  log,
	}
}

// Run listens and serves until Stop is called. It returns nil after a clean
// shutdown.
func (s *Server) Run() error {
	const op = "http.Server.Run"

	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("http server started", slog.String("op", op), slog.String("addr", l.Addr().String()))

	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	const op = "http.Server.Stop"

	s.log.Info("stopping http server", slog.String("op", op), slog.Int("port", s.port))

	return s.httpServer.Shutdown(ctx)
}
