package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/nakupi/internal/catalog"
	"github.com/erazemk/nakupi/internal/model"
	"github.com/erazemk/nakupi/internal/store"
)

// CatalogPage handles GET /.
func (s *Server) CatalogPage(w http.ResponseWriter, r *http.Request) {
	f, err := catalog.ParseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, total, err := store.ListItemsPage(r.Context(), s.DB, f.Query())
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

	s.Templates.Render(w, "catalog.html", &struct {
		PageData
		Filter catalog.Filter
		Page   catalog.Page
		Items  []model.Item
		Ref    *model.ReferenceData
	}{
		PageData: s.page(r, "History", "history"),
		Filter:   f,
		Page:     catalog.NewPage(f.Page, total),
		Items:    items,
		Ref:      ref,
	})
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

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

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item    *model.Item
		Gallery []model.ItemImage
	}{
		PageData: s.page(r, item.Title, "history"),
		Item:     item,
		Gallery:  item.GalleryImages(),
	})
}

// WishlistPage handles GET /wishlist.
func (s *Server) WishlistPage(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListWishlist(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list wishlist", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var total model.Money
	for _, it := range items {
		total += it.Price
	}

	s.Templates.Render(w, "wishlist.html", &struct {
		PageData
		Items []model.Item
		Total model.Money
	}{
		PageData: s.page(r, "Wishlist", "wishlist"),
		Items:    items,
		Total:    total,
	})
}

// SubscriptionsPage handles GET /subscriptions.
func (s *Server) SubscriptionsPage(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListSubscriptions(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list subscriptions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var monthly model.Money
	for _, it := range items {
		monthly += it.Price
	}

	s.Templates.Render(w, "subscriptions.html", &struct {
		PageData
		Items   []model.Item
		Monthly model.Money
	}{
		PageData: s.page(r, "Subscriptions", "history"),
		Items:    items,
		Monthly:  monthly,
	})
}
