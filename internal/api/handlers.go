package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/synapsemed/synapse/internal/admin"
	"github.com/synapsemed/synapse/internal/apperr"
	"github.com/synapsemed/synapse/internal/metrics"
	"github.com/synapsemed/synapse/internal/models"
	"github.com/synapsemed/synapse/internal/search"
)

const searchFailed = "Failed to process search request"

// Handler holds API route handlers.
type Handler struct {
	engine *search.Engine
	now    func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(engine *search.Engine) *Handler {
	return &Handler{engine: engine, now: time.Now}
}

// Search handles GET /api/search.
//
//	@Summary		Search books, articles, drugs, and topics
//	@Tags			search
//	@Produce		json
//	@Param			q			query		string	false	"Free-text query (substring, case-insensitive)"
//	@Param			type		query		string	false	"Record type"	Enums(all, book, article, drug, topic)
//	@Param			category	query		string	false	"Category or all"
//	@Success		200			{object}	SearchResponse
//	@Failure		500			{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := search.Normalize(params.Get("q"), params.Get("type"), params.Get("category"))

	results, err := h.engine.Search(r.Context(), q)
	if err != nil {
		slog.Error("search failed", slog.String("query", q.Text), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(searchFailed))
		return
	}

	labelHits := 0
	for _, rec := range results {
		if search.LabelMatches(rec, q) {
			labelHits++
		}
	}
	metrics.ObserveSearch(q.TypeParam(), labelHits, len(results)-labelHits)

	if results == nil {
		results = []models.Record{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Catalog handles GET /api/catalog.
//
//	@Summary		Summarize the catalog collections
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	CatalogResponse
//	@Router			/catalog [get]
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Overview(r.Context())
	if err != nil {
		slog.Error("catalog failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	resp := CatalogResponse{Total: snap.Len(), Checksum: snap.Checksum()}
	for _, c := range snap.Collections() {
		cats := snap.Categories(c.Kind)
		if cats == nil {
			cats = []string{}
		}
		resp.Collections = append(resp.Collections, CollectionSummary{
			Type:       string(c.Kind),
			Collection: c.Kind.Collection(),
			Count:      len(c.Records),
			Categories: cats,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRecord handles GET /api/catalog/{type}/{id}.
//
//	@Summary		Get a single record
//	@Tags			catalog
//	@Produce		json
//	@Param			type	path		string	true	"Record type"	Enums(book, article, drug, topic)
//	@Param			id		path		int		true	"Record id"
//	@Success		200		{object}	models.Record
//	@Failure		404		{object}	errResponse
//	@Router			/catalog/{type}/{id} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "type"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be an integer"))
		return
	}
	rec, found, err := h.engine.Get(r.Context(), kind, id)
	if err != nil {
		slog.Error("get record failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// AdminCreate handles POST /api/admin/{collection}.
//
//	@Summary		Submit a draft record (echo only, not persisted)
//	@Tags			admin
//	@Accept			json,x-www-form-urlencoded,mpfd
//	@Produce		json
//	@Param			collection	path		string	true	"Collection"	Enums(books, articles, drugs, topics)
//	@Success		201			{object}	map[string]any
//	@Failure		400			{object}	errResponse
//	@Router			/admin/{collection} [post]
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "collection"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown collection"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var draft admin.Draft
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
		draft = admin.FromJSON(kind, body)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
			return
		}
		draft = admin.FromForm(kind, r.PostForm)
	default:
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
			return
		}
		draft = admin.FromForm(kind, r.PostForm)
	}

	if err := draft.Validate(); err != nil {
		if errors.Is(err, apperr.ErrInvalidRecord) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	slog.Info("admin draft echoed", slog.String("collection", kind.Collection()))
	writeJSON(w, http.StatusCreated, admin.Echo(draft, h.now()))
}
