package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xcalota/panel/internal/shell/panel"
	"github.com/xcalota/panel/internal/shell/restapi"
	"github.com/xcalota/panel/internal/shell/store"
	"github.com/xcalota/panel/internal/shell/stub"
	"github.com/xcalota/panel/internal/shell/webui"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitDatabaseError   = 2
	ExitHTTPServerError = 3
	ExitAPIError        = 4
)

// =============================================================================
// Server
// =============================================================================

// Server runs one HTTP listener until a shutdown signal arrives.
type Server struct {
	name            string
	address         string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	store           store.Store // stub only
	logger          *slog.Logger
}

// NewPanelServer creates the panel web UI server.
func NewPanelServer(cfg *Config, logger *slog.Logger) (*Server, error) {
	client := newAPIClient(cfg, logger)

	p := panel.New(panel.Config{
		Client:    client,
		NoticeTTL: cfg.UI.NoticeTTL,
		Logger:    logger,
	})

	ui, err := webui.NewServer(webui.Config{APIBaseURL: client.BaseURL()}, p, logger)
	if err != nil {
		return nil, &ServerError{
			Op:       "NewPanelServer",
			Err:      err,
			ExitCode: ExitConfigError,
		}
	}

	logger.Info("panel configured",
		"api_base_url", client.BaseURL(),
		"name_field", cfg.API.NameField,
	)

	return &Server{
		name:            "panel",
		address:         cfg.Server.Address(),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		httpServer: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      ui.Routes(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger: logger,
	}, nil
}

// NewStubServer creates the stub restaurant API server.
func NewStubServer(cfg *Config, logger *slog.Logger) (*Server, error) {
	envelope, err := stub.ParseEnvelope(cfg.Stub.Envelope)
	if err != nil {
		return nil, &ServerError{Op: "NewStubServer", Err: err, ExitCode: ExitConfigError}
	}

	s, err := store.NewSQLiteStore(cfg.Stub.DSN)
	if err != nil {
		return nil, &ServerError{
			Op:       "NewStubServer",
			Err:      err,
			ExitCode: ExitDatabaseError,
		}
	}

	if cfg.Stub.SeedFile != "" {
		seed, err := stub.LoadSeed(cfg.Stub.SeedFile)
		if err != nil {
			s.Close()
			return nil, &ServerError{Op: "NewStubServer", Err: err, ExitCode: ExitConfigError}
		}
		n, err := seed.Apply(context.Background(), s)
		if err != nil {
			s.Close()
			return nil, &ServerError{Op: "NewStubServer", Err: err, ExitCode: ExitDatabaseError}
		}
		logger.Info("stub seeded", "file", cfg.Stub.SeedFile, "restaurants", n)
	}

	api := stub.NewServer(stub.Config{
		Store:        s,
		Logger:       logger,
		Envelope:     envelope,
		NameField:    cfg.Stub.NameField,
		ReadDisabled: cfg.Stub.ReadDisabled,
		FailCreate:   cfg.Stub.FailCreate,
	})

	logger.Info("stub configured",
		"envelope", envelope,
		"name_field", cfg.Stub.NameField,
		"read_disabled", cfg.Stub.ReadDisabled,
		"fail_create", cfg.Stub.FailCreate,
	)

	return &Server{
		name:            "stub",
		address:         cfg.Stub.Address(),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		httpServer: &http.Server{
			Addr:         cfg.Stub.Address(),
			Handler:      api.Routes(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		store:  s,
		logger: logger,
	}, nil
}

// Start starts the server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server",
			"server", s.name,
			"address", s.address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		s.closeStore()
		return &ServerError{
			Op:       "Start",
			Err:      err,
			ExitCode: ExitHTTPServerError,
		}
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("initiating graceful shutdown", "server", s.name)

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.closeStore()

	s.logger.Info("shutdown complete")
	return nil
}

func (s *Server) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("database close error", "error", err)
	}
}

// newAPIClient builds the restaurant API client from config.
func newAPIClient(cfg *Config, logger *slog.Logger) *restapi.HTTPClient {
	return restapi.NewHTTPClient(restapi.Config{
		BaseURL:   cfg.API.BaseURL,
		NameField: cfg.API.NameField,
		Timeout:   cfg.API.Timeout,
	}, logger)
}

// =============================================================================
// Server Error
// =============================================================================

// ServerError represents an error during server operation.
type ServerError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *ServerError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
