package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/imaging"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
)

// ProfileHandler handles the caller's profile endpoints.
type ProfileHandler struct {
	DB *db.DB
}

// Get handles GET /api/profile. A caller without a saved profile gets 404.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := viewer(r, h.DB).GetProfile(r.Context())
	if err != nil {
		storeError(w, err, "get profile")
		return
	}
	if profile == nil {
		jsonError(w, http.StatusNotFound, "profile not found")
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileInput
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := viewer(r, h.DB).UpsertProfile(r.Context(), req)
	if err != nil {
		storeError(w, err, "update profile")
		return
	}

	slog.Info("profile updated", "user", profile.ID)
	jsonResponse(w, http.StatusOK, profile)
}

// Items handles GET /api/profile/items.
func (h *ProfileHandler) Items(w http.ResponseWriter, r *http.Request) {
	items, err := viewer(r, h.DB).ListOwnItems(r.Context())
	if err != nil {
		storeError(w, err, "list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// UploadAvatar handles PUT /api/profile/avatar (multipart field "avatar").
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<16)
	file, _, err := r.FormFile("avatar")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "avatar file required")
		return
	}
	defer file.Close()

	avatar, err := imaging.ProcessAvatar(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetAvatar(r.Context(), h.DB, claims.UserID, avatar.Data, avatar.MIME); err != nil {
		storeError(w, err, "save avatar")
		return
	}

	slog.Info("avatar updated", "user", claims.UserID, "bytes", len(avatar.Data))
	profile, err := store.GetProfile(r.Context(), h.DB, claims.UserID)
	if err != nil {
		storeError(w, err, "get profile")
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

// Avatar serves a stored avatar image. It is mounted both at
// /api/profiles/{id}/avatar and at the public avatar path.
func Avatar(conn *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, mime, err := store.GetAvatar(r.Context(), conn, r.PathValue("id"))
		if err != nil {
			slog.Error("failed to load avatar", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if len(data) == 0 {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", mime)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "private, max-age=300")
		w.Write(data)
	}
}
