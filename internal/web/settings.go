package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/nakupi/internal/auth"
	"github.com/erazemk/nakupi/internal/model"
	"github.com/erazemk/nakupi/internal/store"
)

// SettingsPage handles GET /admin/settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "settings.html", s.page(r, "Settings", "admin"))
}

// SettingsSubmit handles POST /admin/settings (password change).
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	fail := func(status int, msg string) {
		data := s.page(r, "Settings", "admin")
		data.Error = msg
		s.Templates.RenderStatus(w, status, "settings.html", data)
	}

	user, err := store.GetUser(r.Context(), s.DB, sess.UserID)
	if err != nil || user == nil {
		slog.Error("failed to load user for password change", "error", err)
		fail(http.StatusInternalServerError, "Could not load your account.")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		fail(http.StatusBadRequest, "Current password is incorrect.")
		return
	}
	if next != confirm {
		fail(http.StatusBadRequest, "New passwords do not match.")
		return
	}
	if err := model.ValidatePassword(next); err != nil {
		fail(http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		fail(http.StatusInternalServerError, "Failed to change password.")
		return
	}
	if err := store.UpdateUserPassword(r.Context(), s.DB, user.ID, hash); err != nil {
		slog.Error("failed to update password", "error", err)
		fail(http.StatusInternalServerError, "Failed to change password.")
		return
	}

	slog.Info("password changed", "user", user.Username)
	data := s.page(r, "Settings", "admin")
	data.Success = "Password changed."
	s.Templates.Render(w, "settings.html", data)
}
