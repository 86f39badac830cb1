package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/rasoisetu/marketplace/internal/redisx"
	"github.com/rasoisetu/marketplace/internal/sellers"
)

type SellersHandler struct {
	Registry *sellers.Registry
	Redis    *redis.Client // optional stats cache
}

func (h *SellersHandler) Register(r *chi.Mux) {
	r.Post("/sellers/register", h.register)
	r.Get("/sellers", h.list)
	r.Get("/sellers/stats", h.stats)
	r.Get("/sellers/{id}", h.get)
	r.Get("/sellers/status/{email}", h.statusByEmail)
	r.Patch("/sellers/{id}/status", h.setStatus)
	r.Put("/sellers/{id}/rating", h.setRating)
}

func (h *SellersHandler) register(w http.ResponseWriter, r *http.Request) {
	var in sellers.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	app, err := h.Registry.Submit(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Del(r.Context(), redisx.KeySellerStats).Err()
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *SellersHandler) list(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Registry.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sellers": apps, "count": len(apps)})
}

func (h *SellersHandler) get(w http.ResponseWriter, r *http.Request) {
	app, err := h.Registry.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *SellersHandler) statusByEmail(w http.ResponseWriter, r *http.Request) {
	app, err := h.Registry.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     app.ID,
		"name":   app.Name,
		"status": app.Status,
	})
}

func (h *SellersHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	app, err := h.Registry.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeErr(w, err)
		return
	}
	// stats are recomputed lazily; just drop the snapshot
	if h.Redis != nil {
		_ = h.Redis.Del(r.Context(), redisx.KeySellerStats).Err()
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *SellersHandler) setRating(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	app, err := h.Registry.SetRating(r.Context(), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *SellersHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeySellerStats).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}
	st, err := h.Registry.Stats(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(st); err == nil {
			_ = h.Redis.Set(ctx, redisx.KeySellerStats, b, redisx.TTLStatsCache).Err()
		}
	}
	writeJSON(w, http.StatusOK, st)
}
