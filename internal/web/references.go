package web

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/nakupi/internal/auth"
	"github.com/erazemk/nakupi/internal/store"
)

// createNamed handles the add forms of categories, stores and brands.
func (s *Server) createNamed(entity string, create func(context.Context, *sql.DB, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := auth.SessionFrom(r.Context())
		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			redirectMessage(w, r, "/admin", "error", "Name is required.")
			return
		}

		if err := create(r.Context(), s.DB, name); err != nil {
			slog.Error("failed to create "+entity, "error", err)
			redirectMessage(w, r, "/admin", "error", "Failed to add "+entity+" (does it already exist?).")
			return
		}

		slog.Info(entity+" created", "user", sess.Username, entity, name)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

// deleteReference handles the delete buttons of all reference entities.
func (s *Server) deleteReference(entity string, del func(context.Context, *sql.DB, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := auth.SessionFrom(r.Context())
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := del(r.Context(), s.DB, id); err != nil {
			slog.Warn("failed to delete "+entity, "id", id, "error", err)
			redirectMessage(w, r, "/admin", "error", referenceError("delete "+entity, err))
			return
		}

		slog.Info(entity+" deleted", "user", sess.Username, "id", id)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

// CategoryCreateSubmit handles POST /admin/categories.
func (s *Server) CategoryCreateSubmit(w http.ResponseWriter, r *http.Request) {
	s.createNamed("category", func(ctx context.Context, db *sql.DB, name string) error {
		_, err := store.CreateCategory(ctx, db, name)
		return err
	})(w, r)
}

// CategoryDeleteSubmit handles POST /admin/categories/{id}/delete.
func (s *Server) CategoryDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	s.deleteReference("category", store.DeleteCategory)(w, r)
}

// StoreCreateSubmit handles POST /admin/stores.
func (s *Server) StoreCreateSubmit(w http.ResponseWriter, r *http.Request) {
	s.createNamed("store", func(ctx context.Context, db *sql.DB, name string) error {
		_, err := store.CreateStore(ctx, db, name)
		return err
	})(w, r)
}

// StoreDeleteSubmit handles POST /admin/stores/{id}/delete.
func (s *Server) StoreDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	s.deleteReference("store", store.DeleteStore)(w, r)
}

// BrandCreateSubmit handles POST /admin/brands.
func (s *Server) BrandCreateSubmit(w http.ResponseWriter, r *http.Request) {
	s.createNamed("brand", func(ctx context.Context, db *sql.DB, name string) error {
		_, err := store.CreateBrand(ctx, db, name)
		return err
	})(w, r)
}

// BrandDeleteSubmit handles POST /admin/brands/{id}/delete.
func (s *Server) BrandDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	s.deleteReference("brand", store.DeleteBrand)(w, r)
}

// YearCreateSubmit handles POST /admin/years.
func (s *Server) YearCreateSubmit(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	value, err := strconv.Atoi(strings.TrimSpace(r.FormValue("value")))
	if err != nil || value < 1900 || value > 9999 {
		redirectMessage(w, r, "/admin", "error", "Year must be a four-digit number.")
		return
	}

	if _, err := store.CreateYear(r.Context(), s.DB, value); err != nil {
		slog.Error("failed to create year", "error", err)
		redirectMessage(w, r, "/admin", "error", "Failed to add year (does it already exist?).")
		return
	}

	slog.Info("year created", "user", sess.Username, "year", value)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// YearDeleteSubmit handles POST /admin/years/{id}/delete.
func (s *Server) YearDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	s.deleteReference("year", store.DeleteYear)(w, r)
}
