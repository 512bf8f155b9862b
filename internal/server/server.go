package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"sounddrop/internal/api"
	"sounddrop/internal/config"
	"sounddrop/internal/logging"
	"sounddrop/internal/store"
)

// Fetcher downloads a URL and returns the resulting history record.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*store.Record, error)
}

// Cleaner prunes or purges the download directory.
type Cleaner interface {
	PruneOlderThan(ctx context.Context) (int, error)
	PurgeAll(ctx context.Context) (int, error)
}

// StatusSource reports daemon runtime state for the status endpoint.
type StatusSource interface {
	Status(ctx context.Context) api.DaemonStatus
}

// Server hosts the HTTP API over the download service, janitor, and store.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher Fetcher
	cleaner Cleaner
	status  StatusSource
	store   *store.Store

	listener net.Listener
	server   *http.Server
}

// New assembles the HTTP server. The status source may be nil, in which case
// the status endpoint reports a minimal payload.
func New(cfg *config.Config, fetcher Fetcher, cleaner Cleaner, status StatusSource, st *store.Store, logger *slog.Logger) *Server {
	srv := &Server{
		cfg:     cfg,
		logger:  logging.WithComponent(logger, "api-server"),
		fetcher: fetcher,
		cleaner: cleaner,
		status:  status,
		store:   st,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/download", srv.handleDownload)
	mux.HandleFunc("/file/", srv.handleFile)
	mux.HandleFunc("/cleanup", srv.handleCleanup)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/history", srv.handleHistory)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	handler := srv.corsMiddleware(srv.loggingMiddleware(mux))
	srv.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	return srv
}

// Handler exposes the assembled handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the configured address and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Paths.Bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Paths.Bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop drains in-flight requests within the configured shutdown timeout.
func (s *Server) Stop() {
	if s.server != nil {
		timeout := time.Duration(s.cfg.Server.ShutdownTimeout) * time.Second
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}
