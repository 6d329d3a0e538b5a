package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/infrastructure"
)

// Server owns the registry's infrastructure, the mounted API, and the HTTP
// listener, and drives them through one lifecycle coordinator.
type Server struct {
	cfg     *config.Config
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}

	router := buildRouter(infra)
	modules.Mount(router)

	return &Server{
		cfg:     cfg,
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router.Handler(), infra.Logger),
	}, nil
}

// Start registers the database, the reference map check, and the listener
// with the lifecycle. Readiness is reported once every startup hook passes;
// a failed hook keeps /readyz at 503 while /healthz keeps answering.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	s.modules.Start(s.infra.Lifecycle)

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("startup failed, readiness withheld", "error", err)
			return
		}
		s.infra.Logger.Info("registry ready",
			"addr", s.cfg.Server.Addr(),
			"base_path", s.cfg.API.BasePath,
		)
	}()

	return nil
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	s.infra.Logger.Info("taxon starting",
		"version", s.cfg.Version,
		"env", s.cfg.Env(),
	)

	if err := s.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	<-ctx.Done()
	return s.Shutdown(s.cfg.ShutdownTimeoutDuration())
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return err
	}
	s.infra.Logger.Info("taxon stopped")
	return nil
}
