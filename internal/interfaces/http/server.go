package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

// Server runs the ops endpoints next to the scheduler.
type Server struct {
	srv    *http.Server
	logger logger.Interface
}

func NewServer(addr string, handler http.Handler, log logger.Interface) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// Start serves in the background. A listen failure is logged; it does not
// stop the scheduler.
func (s *Server) Start() {
	go func() {
		s.logger.Infow("ops server starting", "address", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorw("ops server failed", "address", s.srv.Addr, "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
