package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rasoisetu/marketplace/internal/catalog"
	"github.com/rasoisetu/marketplace/internal/lifecycle"
	"github.com/rasoisetu/marketplace/internal/orders"
	"github.com/rasoisetu/marketplace/internal/sellers"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps engine outcomes onto status codes: validation and
// business-rule conflicts are the caller's to fix (400), absent ids are
// 404, anything else is a server fault.
func writeErr(w http.ResponseWriter, err error) {
	var (
		ve  *lifecycle.ValidationError
		ise *catalog.InsufficientStockError
		ote *lifecycle.TransitionError[orders.Status]
		ste *lifecycle.TransitionError[sellers.Status]
	)
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.As(err, &ise):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":     err.Error(),
			"item_id":   ise.ItemID,
			"required":  ise.Required,
			"available": ise.Available,
		})
	case errors.As(err, &ote), errors.As(err, &ste), errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
