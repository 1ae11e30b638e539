package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/nakupi/internal/catalog"
	"github.com/erazemk/nakupi/internal/model"
	"github.com/erazemk/nakupi/internal/store"
)

// ItemsHandler handles item read endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type pageInfo struct {
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type listItemsResponse struct {
	Items []model.Item `json:"items"`
	Sort  string       `json:"sort"`
	Page  pageInfo     `json:"page"`
}

// List handles GET /api/items. It takes the same query parameters as the
// catalog page.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := catalog.ParseFilter(r.URL.Query())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := store.ListItemsPage(r.Context(), h.DB, f.Query())
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	page := catalog.NewPage(f.Page, total)
	jsonResponse(w, http.StatusOK, listItemsResponse{
		Items: items,
		Sort:  string(f.Sort),
		Page: pageInfo{
			Number:     page.Number,
			Size:       catalog.PageSize,
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Wishlist handles GET /api/wishlist.
func (h *ItemsHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListWishlist(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list wishlist", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list wishlist")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

type subscriptionsResponse struct {
	Items        []model.Item `json:"items"`
	MonthlyCents model.Money  `json:"monthly_cents"`
}

// Subscriptions handles GET /api/subscriptions.
func (h *ItemsHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListSubscriptions(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list subscriptions", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	var monthly model.Money
	for _, it := range items {
		monthly += it.Price
	}
	jsonResponse(w, http.StatusOK, subscriptionsResponse{Items: items, MonthlyCents: monthly})
}
