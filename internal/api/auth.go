package api

import (
	"errors"
	"net/http"

	"github.com/questify/questify/internal/account"
	"github.com/questify/questify/internal/db"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *db.DB
	JWTSecret string
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := account.Signup(r.Context(), h.DB, h.JWTSecret, req.Email, req.Password)
	if err != nil {
		storeError(w, err, "sign up")
		return
	}
	jsonResponse(w, http.StatusCreated, session)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := account.Login(r.Context(), h.DB, h.JWTSecret, req.Email, req.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		storeError(w, err, "log in")
		return
	}
	jsonResponse(w, http.StatusOK, session)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := account.Logout(r.Context(), h.DB, GetClaims(r.Context())); err != nil {
		storeError(w, err, "log out")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := account.ChangePassword(r.Context(), h.DB, claims.UserID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, account.ErrInvalidCredentials) {
		jsonError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}
	if err != nil {
		storeError(w, err, "update password")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
