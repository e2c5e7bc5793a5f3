package api

import (
	"log/slog"
	"net/http"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	DB *db.DB
}

type statusRequest struct {
	Status string `json:"status"`
}

// Categories handles GET /api/categories.
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.Categories)
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	itemType := r.URL.Query().Get("type")
	if itemType != "" && !model.ValidItemType(itemType) {
		jsonError(w, http.StatusBadRequest, "type must be 'lost' or 'found'")
		return
	}

	items, err := viewer(r, h.DB).ListItems(r.Context(), itemType)
	if err != nil {
		storeError(w, err, "list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ItemInput
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := viewer(r, h.DB).CreateItem(r.Context(), req)
	if err != nil {
		storeError(w, err, "create item")
		return
	}

	slog.Info("item created", "user", item.UserID, "item", item.ID, "type", item.Type)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err, "get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if GetClaims(r.Context()) == nil {
		item.ContactInfo = ""
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := viewer(r, h.DB).DeleteItem(r.Context(), id); err != nil {
		storeError(w, err, "delete item")
		return
	}

	slog.Info("item deleted", "user", GetClaims(r.Context()).UserID, "item", id)
	w.WriteHeader(http.StatusNoContent)
}

// SetStatus handles PUT /api/items/{id}/status.
func (h *ItemsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidItemStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "status must be 'active' or 'resolved'")
		return
	}

	claims := GetClaims(r.Context())
	id := r.PathValue("id")
	if err := store.SetItemStatus(r.Context(), h.DB, id, claims.UserID, req.Status); err != nil {
		storeError(w, err, "update item status")
		return
	}

	slog.Info("item status changed", "user", claims.UserID, "item", id, "status", req.Status)
	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}
