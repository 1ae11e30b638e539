package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/nakupi/internal/analytics"
	"github.com/erazemk/nakupi/internal/store"
)

// ReferenceHandler serves the lookup lists.
type ReferenceHandler struct {
	DB *sql.DB
}

// Get handles GET /api/reference.
func (h *ReferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := store.LoadReferenceData(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to load reference data", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load reference data")
		return
	}
	jsonResponse(w, http.StatusOK, ref)
}

// AnalyticsHandler serves the spending report.
type AnalyticsHandler struct {
	DB  *sql.DB
	Now func() time.Time
}

// Get handles GET /api/analytics.
func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListPurchasedItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list items for analytics", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}
	jsonResponse(w, http.StatusOK, analytics.Compute(items, h.Now()))
}
