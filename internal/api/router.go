package api

import (
	"database/sql"
	"net/http"
	"time"
)

// NewRouter creates the read-only JSON API router. now is the clock used
// for time-relative analytics; nil means time.Now.
func NewRouter(db *sql.DB, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}

	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	referenceHandler := &ReferenceHandler{DB: db}
	analyticsHandler := &AnalyticsHandler{DB: db, Now: now}

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/wishlist", itemsHandler.Wishlist)
	mux.HandleFunc("GET /api/subscriptions", itemsHandler.Subscriptions)

	mux.HandleFunc("GET /api/reference", referenceHandler.Get)

	mux.HandleFunc("GET /api/analytics", analyticsHandler.Get)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})

	return mux
}
