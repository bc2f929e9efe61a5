package http

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Predictor Predictor
	Artifacts ArtifactLister

	// Static serves everything no API operation matches. Nil disables it.
	Static http.Handler

	Title   string
	Version string
}

// NewRouter builds the HTTP handler: huma operations on a ServeMux, with the
// static bundle mounted at the site root.
func NewRouter(cfg RouterConfig) (http.Handler, huma.API) {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig(cfg.Title, cfg.Version)
	// Responses carry exactly the documented fields, no $schema links.
	humaConfig.CreateHooks = nil

	api := humago.New(mux, humaConfig)
	api.UseMiddleware(RequestID)

	NewPredictHandler(api, cfg.Predictor)
	NewHealthHandler(api, cfg.Artifacts)

	if cfg.Static != nil {
		// API paths hit with another method answer 404 instead of the
		// entry document.
		for p := range api.OpenAPI().Paths {
			mux.Handle(p, http.NotFoundHandler())
		}
		mux.Handle("/", cfg.Static)
	}

	return mux, api
}
