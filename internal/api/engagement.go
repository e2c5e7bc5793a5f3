package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
)

// EngagementHandler handles upvote and comment endpoints.
type EngagementHandler struct {
	DB *db.DB
}

type commentRequest struct {
	Content string `json:"content"`
}

// UpvoteStatus handles GET /api/items/{id}/upvote.
func (h *EngagementHandler) UpvoteStatus(w http.ResponseWriter, r *http.Request) {
	state, err := viewer(r, h.DB).UpvoteStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "get upvote status")
		return
	}
	jsonResponse(w, http.StatusOK, state)
}

// ToggleUpvote handles POST /api/items/{id}/upvote.
func (h *EngagementHandler) ToggleUpvote(w http.ResponseWriter, r *http.Request) {
	h.changeUpvote(w, r, store.ToggleUpvote)
}

// AddUpvote handles PUT /api/items/{id}/upvote.
func (h *EngagementHandler) AddUpvote(w http.ResponseWriter, r *http.Request) {
	h.changeUpvote(w, r, store.AddUpvote)
}

// RemoveUpvote handles DELETE /api/items/{id}/upvote.
func (h *EngagementHandler) RemoveUpvote(w http.ResponseWriter, r *http.Request) {
	h.changeUpvote(w, r, store.RemoveUpvote)
}

type upvoteFunc func(ctx context.Context, conn *db.DB, itemID, userID string) (*model.UpvoteState, error)

func (h *EngagementHandler) changeUpvote(w http.ResponseWriter, r *http.Request, change upvoteFunc) {
	claims := GetClaims(r.Context())
	id := r.PathValue("id")

	state, err := change(r.Context(), h.DB, id, claims.UserID)
	if err != nil {
		storeError(w, err, "update upvote")
		return
	}

	slog.Info("upvote changed", "user", claims.UserID, "item", id, "upvoted", state.Upvoted)
	jsonResponse(w, http.StatusOK, state)
}

// ListComments handles GET /api/items/{id}/comments.
func (h *EngagementHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := store.ListComments(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err, "list comments")
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	jsonResponse(w, http.StatusOK, comments)
}

// AddComment handles POST /api/items/{id}/comments.
func (h *EngagementHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	comment, err := viewer(r, h.DB).AddComment(r.Context(), id, req.Content)
	if err != nil {
		storeError(w, err, "add comment")
		return
	}

	slog.Info("comment added", "user", comment.UserID, "item", id)
	jsonResponse(w, http.StatusCreated, comment)
}
