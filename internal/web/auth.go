package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/questify/questify/internal/account"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
)

type authPage struct {
	PageData
	Email string
	Next  string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &authPage{
		PageData: s.page(r, "Log in"),
		Next:     localPath(r.URL.Query().Get("next"), "/"),
	})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	next := localPath(r.FormValue("next"), "/")

	session, err := account.Login(r.Context(), s.DB, s.JWTSecret, email, r.FormValue("password"))
	if err != nil {
		msg := "Invalid email or password."
		if !errors.Is(err, account.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
			msg = "Login failed. Please try again."
		}
		pd := s.page(r, "Log in")
		pd.Error = msg
		s.Templates.RenderStatus(w, http.StatusUnauthorized, "login.html", &authPage{PageData: pd, Email: email, Next: next})
		return
	}

	setAuthCookie(w, session.Token)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signup.html", &authPage{PageData: s.page(r, "Sign up")})
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		pd := s.page(r, "Sign up")
		pd.Error = msg
		s.Templates.RenderStatus(w, status, "signup.html", &authPage{PageData: pd, Email: email})
	}

	if password != r.FormValue("confirm") {
		fail(http.StatusBadRequest, "Passwords do not match.")
		return
	}

	session, err := account.Signup(r.Context(), s.DB, s.JWTSecret, email, password)
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(http.StatusBadRequest, "The "+verr.Error()+".")
		return
	case errors.Is(err, store.ErrDuplicateEmail):
		fail(http.StatusConflict, "An account with this email already exists.")
		return
	case err != nil:
		slog.Error("signup failed", "error", err)
		fail(http.StatusInternalServerError, "Sign up failed. Please try again.")
		return
	}

	setAuthCookie(w, session.Token)
	redirectNotice(w, r, "/profile", "signed-up")
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, _ := cookieClaims(r, s.JWTSecret, s.DB); claims != nil {
		if err := account.Logout(r.Context(), s.DB, claims); err != nil {
			slog.Error("failed to revoke token", "error", err)
		}
	}
	clearAuthCookie(w)
	redirectNotice(w, r, "/", "logged-out")
}
