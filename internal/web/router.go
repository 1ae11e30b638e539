package web

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/nakupi/internal/auth"
	"github.com/erazemk/nakupi/internal/store"
	webembed "github.com/erazemk/nakupi/web"
)

// NewRouter creates the web page router with all page routes registered.
// Every route sees the session of a valid cookie; /admin routes require one.
func NewRouter(db *sql.DB, verifier *auth.Verifier, secureCookies bool) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:            db,
		Templates:     templates,
		Verifier:      verifier,
		SecureCookies: secureCookies,
		Now:           time.Now,
	}
	return s.Routes(), nil
}

// Routes builds the handler tree for the server.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	admin := func(h http.HandlerFunc) http.Handler { return RequireSession(h) }

	// Static assets and stored photos.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /images/{key}", s.ImageGet)

	// Public pages.
	mux.HandleFunc("GET /{$}", s.CatalogPage)
	mux.HandleFunc("GET /items/{id}", s.ItemDetailPage)
	mux.HandleFunc("GET /wishlist", s.WishlistPage)
	mux.HandleFunc("GET /subscriptions", s.SubscriptionsPage)
	mux.HandleFunc("GET /analytics", s.AnalyticsPage)

	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Admin.
	mux.Handle("GET /admin", admin(s.AdminPage))
	mux.Handle("POST /admin/items", admin(s.ItemCreateSubmit))
	mux.Handle("GET /admin/items/{id}", admin(s.ItemEditPage))
	mux.Handle("POST /admin/items/{id}", admin(s.ItemUpdateSubmit))
	mux.Handle("POST /admin/items/{id}/delete", admin(s.ItemDeleteSubmit))
	mux.Handle("POST /admin/images/{id}/delete", admin(s.ImageDeleteSubmit))
	mux.Handle("POST /admin/images/{id}/cover", admin(s.ImageCoverSubmit))

	mux.Handle("POST /admin/categories", admin(s.CategoryCreateSubmit))
	mux.Handle("POST /admin/categories/{id}/delete", admin(s.CategoryDeleteSubmit))
	mux.Handle("POST /admin/stores", admin(s.StoreCreateSubmit))
	mux.Handle("POST /admin/stores/{id}/delete", admin(s.StoreDeleteSubmit))
	mux.Handle("POST /admin/brands", admin(s.BrandCreateSubmit))
	mux.Handle("POST /admin/brands/{id}/delete", admin(s.BrandDeleteSubmit))
	mux.Handle("POST /admin/years", admin(s.YearCreateSubmit))
	mux.Handle("POST /admin/years/{id}/delete", admin(s.YearDeleteSubmit))

	mux.Handle("GET /admin/settings", admin(s.SettingsPage))
	mux.Handle("POST /admin/settings", admin(s.SettingsSubmit))

	return SessionMiddleware(s.Verifier)(mux)
}

// page returns the base template data for a request.
func (s *Server) page(r *http.Request, title, nav string) PageData {
	data := PageData{
		Title:   title,
		Session: auth.SessionFrom(r.Context()),
		Nav:     nav,
		Error:   r.URL.Query().Get("error"),
		Success: r.URL.Query().Get("success"),
	}

	ytd, err := store.YearToDateSpend(r.Context(), s.DB, s.now())
	if err != nil {
		slog.Error("failed to compute year-to-date spend", "error", err)
	}
	data.YTDSpend = ytd
	return data
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// ImageGet handles GET /images/{key}.
func (s *Server) ImageGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetImageBlob(r.Context(), s.DB, r.PathValue("key"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
