package httpserver

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
)

// Server wraps net/http with the service's logging. Write timeouts are left
// unset because the balance stream and signer-backed submits hold responses open.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

func New(address string, handler http.Handler, logger *log.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
			ErrorLog:          logger,
		},
		logger: logger,
	}
}

func (s *Server) Address() string {
	return s.httpServer.Addr
}

func (s *Server) Start() error {
	s.logf("server starting address=%s", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logf("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}
