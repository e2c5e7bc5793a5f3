package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/questify/questify/internal/account"
	"github.com/questify/questify/internal/imaging"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
	"github.com/questify/questify/internal/view"
)

type profilePage struct {
	PageData
	Profile *model.Profile
	Items   []model.Item
	Email   string
	LoadErr string
}

// ProfilePage handles GET /profile.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	data := &profilePage{
		PageData: s.page(r, "My Profile"),
		Email:    claims.Email,
	}

	page, err := view.LoadProfile(r.Context(), s.viewer(r))
	if err != nil {
		slog.Error("failed to load profile", "user", claims.UserID, "error", err)
		data.LoadErr = view.MsgLoadProfile
	} else {
		data.Profile = page.Profile
		data.Items = page.Items
	}

	s.Templates.Render(w, "profile.html", data)
}

// ProfileSubmit handles POST /profile.
func (s *Server) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	page := &view.ProfilePage{}
	err := page.Save(r.Context(), s.viewer(r), model.ProfileInput{
		FullName: r.FormValue("full_name"),
		Username: r.FormValue("username"),
	})
	if err != nil {
		slog.Error("failed to save profile", "error", err)
		redirectNotice(w, r, "/profile", "profile-failed")
		return
	}
	slog.Info("profile updated", "user", page.Profile.ID)
	redirectNotice(w, r, "/profile", "profile-saved")
}

// AvatarSubmit handles POST /profile/avatar.
func (s *Server) AvatarSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<16)
	file, _, err := r.FormFile("avatar")
	if err != nil {
		redirectNotice(w, r, "/profile", "avatar-failed")
		return
	}
	defer file.Close()

	avatar, err := imaging.ProcessAvatar(file)
	if err != nil {
		slog.Warn("rejected avatar upload", "user", claims.UserID, "error", err)
		redirectNotice(w, r, "/profile", "avatar-failed")
		return
	}

	if err := store.SetAvatar(r.Context(), s.DB, claims.UserID, avatar.Data, avatar.MIME); err != nil {
		slog.Error("failed to save avatar", "error", err)
		redirectNotice(w, r, "/profile", "avatar-failed")
		return
	}

	slog.Info("avatar updated", "user", claims.UserID)
	redirectNotice(w, r, "/profile", "avatar-saved")
}

// PasswordSubmit handles POST /profile/password.
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	next := r.FormValue("new_password")
	if next != r.FormValue("confirm_password") {
		redirectNotice(w, r, "/profile", "password-mismatch")
		return
	}

	err := account.ChangePassword(r.Context(), s.DB, claims.UserID, r.FormValue("current_password"), next)
	var verr *model.ValidationError
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		redirectNotice(w, r, "/profile", "password-wrong")
	case errors.As(err, &verr) && verr.Field == "password":
		redirectNotice(w, r, "/profile", "password-weak")
	case errors.As(err, &verr):
		redirectNotice(w, r, "/profile", "password-wrong")
	case err != nil:
		slog.Error("failed to change password", "error", err)
		redirectNotice(w, r, "/profile", "password-failed")
	default:
		redirectNotice(w, r, "/profile", "password-changed")
	}
}

// DeleteItemSubmit handles POST /profile/items/{id}/delete.
func (s *Server) DeleteItemSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.viewer(r).DeleteItem(r.Context(), id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to delete item", "item", id, "error", err)
		}
		redirectNotice(w, r, "/profile", "delete-failed")
		return
	}
	slog.Info("item deleted", "user", GetWebClaims(r.Context()).UserID, "item", id)
	redirectNotice(w, r, "/profile", "item-deleted")
}

// ResolveItemSubmit handles POST /profile/items/{id}/resolve.
func (s *Server) ResolveItemSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.viewer(r).ResolveItem(r.Context(), id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to resolve item", "item", id, "error", err)
		}
		redirectNotice(w, r, "/profile", "resolve-failed")
		return
	}
	slog.Info("item resolved", "user", GetWebClaims(r.Context()).UserID, "item", id)
	redirectNotice(w, r, "/profile", "item-resolved")
}
