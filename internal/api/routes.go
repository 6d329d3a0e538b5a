package api

import (
	"net/http"

	"github.com/JaimeStill/taxon/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Classifications.Handler().Routes(),
		domain.Questions.Handler().Routes(),
		domain.Papers.Handler().Routes(),
	)
}
