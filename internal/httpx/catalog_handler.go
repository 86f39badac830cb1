package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rasoisetu/marketplace/internal/catalog"
)

type CatalogHandler struct {
	Store catalog.Store
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/catalog/items", h.listItems)
	r.Post("/catalog/items", h.putItem)
	r.Get("/catalog/items/{id}", h.getItem)
	r.Put("/catalog/items/{id}/rating", h.setRating)
	r.Get("/catalog/categories", h.categories)
	r.Get("/catalog/low-stock", h.lowStock)
}

func (h *CatalogHandler) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if v := q.Get("min_stock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "min_stock must be a non-negative integer"})
			return
		}
		f.MinStock = n
	}
	if v := q.Get("max_price"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max_price must be a non-negative integer (cents)"})
			return
		}
		f.MaxPriceCents = n
	}
	items, err := h.Store.List(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *CatalogHandler) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *CatalogHandler) putItem(w http.ResponseWriter, r *http.Request) {
	var it catalog.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	saved, err := h.Store.Put(r.Context(), it)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *CatalogHandler) setRating(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	it, err := h.Store.SetRating(r.Context(), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *CatalogHandler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Store.Categories(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *CatalogHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 10
	if v := r.URL.Query().Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "threshold must be a non-negative integer"})
			return
		}
		threshold = n
	}
	items, err := h.Store.ListLowStock(r.Context(), threshold)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items), "threshold": threshold})
}
