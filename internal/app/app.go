package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/mufasadev/velocity-ledger/internal/config"
	apperrors "github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/rs/zerolog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

type Service struct {
	config *config.Config
	logger *zerolog.Logger
	ready  chan net.Addr
}

// NewService creates the HTTP service for the ledger API.
func NewService(cfg *config.Config) *Service {
	l := log.GetLogger()
	return &Service{config: cfg, logger: &l, ready: make(chan net.Addr, 1)}
}

// Ready yields the bound address once the listener is open.
func (s *Service) Ready() <-chan net.Addr {
	return s.ready
}

// Run serves handler until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then drains in-flight requests.
func (s *Service) Run(ctx context.Context, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", s.config.Server.Addr())
	if err != nil {
		s.logger.Error().Err(err).Msg(apperrors.ErrorFailedToRunTheServer)
		return fmt.Errorf("listen: %w", err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	s.logger.Info().Str("addr", listener.Addr().String()).Msg("Server is listening")
	s.ready <- listener.Addr()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg(apperrors.ErrorFailedToRunTheServer)
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info().Msg("Server is shutting down...")
	}

	return s.shutdown(server)
}

// shutdown stops the server without interrupting active connections.
func (s *Service) shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg(apperrors.ErrorFailedToShutdownTheServer)
		return err
	}

	s.logger.Info().Msg("Server stopped")
	return nil
}
