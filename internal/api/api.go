// Package api assembles the API module: the classification registry and the
// question and paper systems whose columns it governs.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/infrastructure"
	"github.com/JaimeStill/taxon/pkg/lifecycle"
	"github.com/JaimeStill/taxon/pkg/middleware"
	"github.com/JaimeStill/taxon/pkg/module"
)

const verifyTimeout = 10 * time.Second

// Module is the mounted API together with the runtime its startup checks need.
type Module struct {
	*module.Module
	runtime *Runtime
}

// NewModule builds the API module under cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	runtime.Logger.Info("api module built",
		"base_path", cfg.API.BasePath,
		"auth", cfg.Auth.Enabled(),
	)
	return &Module{Module: m, runtime: runtime}, nil
}

// Start registers a startup check of the reference map against the live
// schema. The service reports ready only when renames and dependency audits
// can reach every referencing column.
func (m *Module) Start(lc *lifecycle.Coordinator) {
	lc.OnStartup(func() error {
		ctx, cancel := context.WithTimeout(lc.Context(), verifyTimeout)
		defer cancel()
		return m.runtime.Engine.Verify(ctx, m.runtime.Database.Connection())
	})
}
