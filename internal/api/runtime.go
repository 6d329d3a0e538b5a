package api

import (
	"net/http"

	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/infrastructure"
	"github.com/JaimeStill/taxon/internal/references"
	"github.com/JaimeStill/taxon/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Engine     *references.Engine
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Auth:      infra.Auth,
		},
		Pagination: cfg.API.Pagination,
		Engine:     references.NewEngine(references.Default, logger),
	}
}

// Guard returns the middleware protecting mutating endpoints.
func (r *Runtime) Guard() func(http.Handler) http.Handler {
	return r.Auth.Require()
}
