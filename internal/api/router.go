package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synapsemed/synapse/internal/search"
)

// NewRouter creates a chi router with all API routes mounted.
// events, if non-nil, is mounted at GET /events.
func NewRouter(engine *search.Engine, events http.Handler) chi.Router {
	h := NewHandler(engine)

	r := chi.NewRouter()

	r.With(RecoverJSON(searchFailed)).Get("/search", h.Search)

	r.Get("/catalog", h.Catalog)
	r.Get("/catalog/{type}/{id}", h.GetRecord)

	// Back-office stubs: validated echo, no persistence.
	r.Post("/admin/{collection}", h.AdminCreate)

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
