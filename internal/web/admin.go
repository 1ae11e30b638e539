package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/erazemk/nakupi/internal/auth"
	"github.com/erazemk/nakupi/internal/model"
	"github.com/erazemk/nakupi/internal/store"
)

// redirectMessage redirects to path with an error or success message shown
// by the target page.
func redirectMessage(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	if msg != "" {
		path += "?" + url.Values{key: {msg}}.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// AdminPage handles GET /admin.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdmin(w, r, http.StatusOK, "")
}

func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	items, err := store.ListAllItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	ref, err := store.LoadReferenceData(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to load reference data", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := s.page(r, "Admin", "admin")
	if errMsg != "" {
		data.Error = errMsg
	}

	s.Templates.RenderStatus(w, status, "admin.html", &struct {
		PageData
		Items []model.Item
		Ref   *model.ReferenceData
	}{
		PageData: data,
		Items:    items,
		Ref:      ref,
	})
}

// ItemCreateSubmit handles POST /admin/items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())

	if err := parseForm(w, r); err != nil {
		s.renderAdmin(w, r, http.StatusBadRequest, "Could not read the form: "+err.Error())
		return
	}

	in, err := parseItemForm(r)
	if err != nil {
		s.renderAdmin(w, r, http.StatusBadRequest, err.Error())
		return
	}
	images, err := formImages(r)
	if err != nil {
		s.renderAdmin(w, r, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.CreateItem(r.Context(), s.DB, in, images)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		s.renderAdmin(w, r, http.StatusInternalServerError, "Failed to save the item.")
		return
	}

	slog.Info("item created", "user", sess.Username, "item", item.Title, "images", len(images))
	redirectMessage(w, r, "/admin", "success", fmt.Sprintf("Added %q.", item.Title))
}

// ItemEditPage handles GET /admin/items/{id}.
func (s *Server) ItemEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.renderEdit(w, r, id, http.StatusOK, "")
}

func (s *Server) renderEdit(w http.ResponseWriter, r *http.Request, id int64, status int, errMsg string) {
	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}
	ref, err := store.LoadReferenceData(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to load reference data", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := s.page(r, "Edit "+item.Title, "admin")
	if errMsg != "" {
		data.Error = errMsg
	}

	s.Templates.RenderStatus(w, status, "admin_edit.html", &struct {
		PageData
		Item *model.Item
		Ref  *model.ReferenceData
	}{
		PageData: data,
		Item:     item,
		Ref:      ref,
	})
}

// ItemUpdateSubmit handles POST /admin/items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	existing, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.NotFound(w, r)
		return
	}

	if err := parseForm(w, r); err != nil {
		s.renderEdit(w, r, id, http.StatusBadRequest, "Could not read the form: "+err.Error())
		return
	}
	in, err := parseItemForm(r)
	if err != nil {
		s.renderEdit(w, r, id, http.StatusBadRequest, err.Error())
		return
	}
	images, err := formImages(r)
	if err != nil {
		s.renderEdit(w, r, id, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.UpdateItem(r.Context(), s.DB, id, in, images); err != nil {
		slog.Error("failed to update item", "error", err)
		s.renderEdit(w, r, id, http.StatusInternalServerError, "Failed to save the item.")
		return
	}

	slog.Info("item updated", "user", sess.Username, "item", in.Title, "new_images", len(images))
	redirectMessage(w, r, "/admin", "success", fmt.Sprintf("Updated %q.", in.Title))
}

// ItemDeleteSubmit handles POST /admin/items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := store.DeleteItem(r.Context(), s.DB, id); err != nil {
		slog.Error("failed to delete item", "error", err)
		redirectMessage(w, r, "/admin", "error", "Failed to delete the item.")
		return
	}

	slog.Info("item deleted", "user", sess.Username, "item_id", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ImageDeleteSubmit handles POST /admin/images/{id}/delete.
func (s *Server) ImageDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	itemID, err := store.DeleteItemImage(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to delete image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if itemID == 0 {
		http.NotFound(w, r)
		return
	}

	slog.Info("item image deleted", "user", sess.Username, "item_id", itemID, "image_id", id)
	http.Redirect(w, r, fmt.Sprintf("/admin/items/%d", itemID), http.StatusSeeOther)
}

// ImageCoverSubmit handles POST /admin/images/{id}/cover.
func (s *Server) ImageCoverSubmit(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	itemID, err := store.SetCoverImage(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to set cover image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if itemID == 0 {
		http.NotFound(w, r)
		return
	}

	slog.Info("cover image set", "user", sess.Username, "item_id", itemID, "image_id", id)
	http.Redirect(w, r, fmt.Sprintf("/admin/items/%d", itemID), http.StatusSeeOther)
}

// referenceError turns a store error from a reference mutation into the
// message shown on the admin page.
func referenceError(action string, err error) string {
	var refErr *store.ReferencedError
	if errors.As(err, &refErr) {
		return fmt.Sprintf("Cannot delete: %s.", refErr.Error())
	}
	return fmt.Sprintf("Failed to %s.", action)
}
