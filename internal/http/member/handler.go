package member

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/coopledger/internal/http/api"
	"github.com/MrJamesThe3rd/coopledger/internal/member"
	"github.com/MrJamesThe3rd/coopledger/internal/viewcache"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

type Handler struct {
	svc   *member.Service
	cache viewcache.Cache
	ttl   time.Duration
}

// NewHandler serves members. The detail view is read through cache, which the
// member's stale-view signal evicts.
func NewHandler(svc *member.Service, cache viewcache.Cache, ttl time.Duration) *Handler {
	return &Handler{svc: svc, cache: cache, ttl: ttl}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/stats", h.stats)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.List(r.Context())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponseList(members))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	raw, err := api.ReadValues(w, r)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	m, err := h.svc.Create(r.Context(), raw)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, toResponse(m))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, statsResponse{
		Total:        stats.Total,
		ByStatus:     stats.ByStatus,
		TotalBalance: stats.TotalBalance,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	key := views.MemberDetail(id).Path()

	cached, ok, err := h.cache.Get(r.Context(), key)
	if err != nil {
		slog.WarnContext(r.Context(), "view cache read failed", "key", key, "error", err)
	}

	if ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		w.Write(cached)

		return
	}

	// Taken before the read so an eviction during it discards this fill.
	version, err := h.cache.Version(r.Context(), key)
	fill := err == nil

	if err != nil {
		slog.WarnContext(r.Context(), "view cache version read failed", "key", key, "error", err)
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	body, err := json.Marshal(toResponse(m))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	body = append(body, '\n')

	if fill {
		if _, err := h.cache.Fill(r.Context(), key, version, body, h.ttl); err != nil {
			slog.WarnContext(r.Context(), "view cache write failed", "key", key, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	w.Write(body)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	raw, err := api.ReadValues(w, r)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	m, err := h.svc.Update(r.Context(), id, raw)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
