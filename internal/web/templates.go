package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/questify/questify/internal/auth"
	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/view"
	webembed "github.com/questify/questify/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"ago": func(t time.Time) string {
			return view.Ago(t, time.Now())
		},
		"typeName": func(itemType string) string {
			switch itemType {
			case model.ItemTypeLost:
				return "Lost"
			case model.ItemTypeFound:
				return "Found"
			default:
				return itemType
			}
		},
		"statusName": func(status string) string {
			switch status {
			case model.ItemStatusActive:
				return "Active"
			case model.ItemStatusResolved:
				return "Resolved"
			default:
				return status
			}
		},
		"initial": func(s string) string {
			for _, r := range s {
				return string(r)
			}
			return "?"
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"home.html",
		"items.html",
		"contact.html",
		"comments.html",
		"post.html",
		"profile.html",
		"about.html",
		"login.html",
		"signup.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with an explicit status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Path    string
	User    *auth.Claims
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *db.DB
	Templates *Templates
	JWTSecret string
	BaseURL   string
}

// page builds the base page data for r, including any ?notice= message.
func (s *Server) page(r *http.Request, title string) PageData {
	pd := PageData{
		Title: title,
		Path:  r.URL.Path,
		User:  GetWebClaims(r.Context()),
	}
	if n, ok := notices[r.URL.Query().Get("notice")]; ok {
		if n.isError {
			pd.Error = n.message
		} else {
			pd.Success = n.message
		}
	}
	return pd
}
