package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/nakupi/internal/auth"
	"github.com/erazemk/nakupi/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.SessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", s.page(r, "Login", ""))
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		data := s.page(r, "Login", "")
		data.Error = msg
		s.Templates.RenderStatus(w, status, "login.html", data)
	}

	if username == "" || password == "" {
		fail(http.StatusBadRequest, "Enter your username and password.")
		return
	}

	user, err := store.GetUserByUsername(r.Context(), s.DB, username)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		fail(http.StatusInternalServerError, "Login failed.")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		slog.Warn("failed login", "user", username)
		fail(http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	sess, token, err := s.Verifier.Issue(user.ID, user.Username)
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		fail(http.StatusInternalServerError, "Login failed.")
		return
	}

	s.setSessionCookie(w, token, sess.ExpiresAt)
	slog.Info("user logged in", "user", user.Username)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := auth.SessionFrom(r.Context()); sess != nil {
		if err := s.Verifier.Revoke(r.Context(), sess); err != nil {
			slog.Error("failed to revoke session", "error", err)
		} else {
			slog.Info("user logged out", "user", sess.Username)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
