package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
	"github.com/questify/questify/internal/view"
)

// cardView is a card plus what the template needs to render its actions.
type cardView struct {
	*view.Card
	ShareURL string
	Return   string
}

type homePage struct {
	PageData
	Stats   *store.ItemStats
	Recent  []cardView
	FeedErr string
}

type itemsPage struct {
	PageData
	Type       string
	Heading    string
	Subheading string
	Query      string
	Category   string
	Categories []string
	Cards      []cardView
	Total      int
	FeedErr    string
}

type itemPage struct {
	PageData
	Item    *model.Item
	Contact string
	Panel   *view.CommentsPanel
	Card    *view.Card
	Return  string
}

type postPage struct {
	PageData
	Input      model.ItemInput
	Categories []string
}

// baseURL is the configured public URL, or the one the request came in on.
func (s *Server) baseURL(r *http.Request) string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// returnPath is the current page without its notice, for card actions to
// come back to.
func returnPath(r *http.Request) string {
	q := r.URL.Query()
	q.Del("notice")
	u := url.URL{Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

// cards builds a card per item and checks the viewer's upvotes.
func (s *Server) cards(ctx context.Context, r *http.Request, gw view.Gateway, items []model.Item) []cardView {
	base := s.baseURL(r)
	back := returnPath(r)
	out := make([]cardView, 0, len(items))
	for _, c := range view.NewCards(gw, items) {
		if err := c.Init(ctx); err != nil {
			slog.Error("failed to check upvote", "item", c.Item.ID, "error", err)
		}
		out = append(out, cardView{Card: c, ShareURL: view.ItemURL(base, c.Item), Return: back})
	}
	return out
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gw := s.viewer(r)

	feed := view.NewFeed(gw, "")
	if err := feed.Load(ctx); err != nil {
		slog.Error("failed to load items", "error", err)
	}

	stats, err := store.CountItems(ctx, s.DB)
	if err != nil {
		slog.Error("failed to count items", "error", err)
		stats = &store.ItemStats{}
	}

	s.Templates.Render(w, "home.html", &homePage{
		PageData: s.page(r, "Questify"),
		Stats:    stats,
		Recent:   s.cards(ctx, r, gw, feed.Recent(6)),
		FeedErr:  feed.Err,
	})
}

// Listing returns the handler for the lost or found items page.
func (s *Server) Listing(itemType string) http.HandlerFunc {
	heading, sub := "Lost Items", "Help us reunite these items with their owners"
	if itemType == model.ItemTypeFound {
		heading, sub = "Found Items", "Items waiting to be claimed by their owners"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		gw := s.viewer(r)

		feed := view.NewFeed(gw, itemType)
		if err := feed.Load(ctx); err != nil {
			slog.Error("failed to load items", "type", itemType, "error", err)
		}

		q := r.URL.Query().Get("q")
		category := r.URL.Query().Get("category")
		if category == "" {
			category = "all"
		}
		items := view.Filter(feed.Items, q, category)

		s.Templates.Render(w, "items.html", &itemsPage{
			PageData:   s.page(r, heading),
			Type:       itemType,
			Heading:    heading,
			Subheading: sub,
			Query:      q,
			Category:   category,
			Categories: model.Categories,
			Cards:      s.cards(ctx, r, gw, items),
			Total:      len(feed.Items),
			FeedErr:    feed.Err,
		})
	}
}

// activeItem loads the item in the path, redirecting with a notice when it
// is gone.
func (s *Server) activeItem(w http.ResponseWriter, r *http.Request) *model.Item {
	item, err := store.GetItem(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil
	}
	if item == nil || item.Status != model.ItemStatusActive {
		redirectNotice(w, r, localPath(r.FormValue("return"), "/"), "not-found")
		return nil
	}
	return item
}

// UpvoteSubmit handles POST /items/{id}/upvote.
func (s *Server) UpvoteSubmit(w http.ResponseWriter, r *http.Request) {
	item := s.activeItem(w, r)
	if item == nil {
		return
	}
	back := listingReturn(r, item.Type) + "#item-" + item.ID

	card := view.NewCard(s.viewer(r), *item)
	err := card.ToggleUpvote(r.Context())
	switch {
	case errors.Is(err, model.ErrAuthRequired):
		redirectNotice(w, r, back, "auth-upvote")
	case errors.Is(err, store.ErrNotFound):
		redirectNotice(w, r, back, "not-found")
	case err != nil:
		slog.Error("failed to toggle upvote", "item", item.ID, "error", err)
		redirectNotice(w, r, back, "upvote-failed")
	case card.Upvoted:
		redirectNotice(w, r, back, "upvoted")
	default:
		redirectNotice(w, r, back, "unvoted")
	}
}

// ContactPage handles GET /items/{id}/contact.
func (s *Server) ContactPage(w http.ResponseWriter, r *http.Request) {
	item := s.activeItem(w, r)
	if item == nil {
		return
	}

	contact, err := view.NewCard(s.viewer(r), *item).RevealContact()
	if err != nil {
		redirectNotice(w, r, listingReturn(r, item.Type)+"#item-"+item.ID, "auth-contact")
		return
	}

	s.Templates.Render(w, "contact.html", &itemPage{
		PageData: s.page(r, "Contact: "+item.Title),
		Item:     item,
		Contact:  contact,
		Return:   listingReturn(r, item.Type),
	})
}

// CommentsPage handles GET /items/{id}/comments.
func (s *Server) CommentsPage(w http.ResponseWriter, r *http.Request) {
	item := s.activeItem(w, r)
	if item == nil {
		return
	}
	back := listingReturn(r, item.Type)

	card := view.NewCard(s.viewer(r), *item)
	panel, err := card.OpenComments(r.Context())
	if errors.Is(err, model.ErrAuthRequired) {
		redirectNotice(w, r, back+"#item-"+item.ID, "auth-comments")
		return
	}
	if err != nil {
		slog.Error("failed to load comments", "item", item.ID, "error", err)
	}

	s.Templates.Render(w, "comments.html", &itemPage{
		PageData: s.page(r, "Comments: "+item.Title),
		Item:     item,
		Panel:    panel,
		Card:     card,
		Return:   back,
	})
}

// CommentSubmit handles POST /items/{id}/comments.
func (s *Server) CommentSubmit(w http.ResponseWriter, r *http.Request) {
	item := s.activeItem(w, r)
	if item == nil {
		return
	}
	back := listingReturn(r, item.Type)
	commentsPage := "/items/" + item.ID + "/comments?return=" + url.QueryEscape(back)

	panel := view.NewCommentsPanel(s.viewer(r), item.ID)
	panel.Draft = r.FormValue("content")
	err := panel.Submit(r.Context())

	var verr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrAuthRequired):
		redirectNotice(w, r, back+"#item-"+item.ID, "auth-comments")
	case errors.As(err, &verr):
		redirectNotice(w, r, commentsPage, "comment-empty")
	case errors.Is(err, store.ErrNotFound):
		redirectNotice(w, r, back, "not-found")
	case err != nil:
		slog.Error("failed to add comment", "item", item.ID, "error", err)
		redirectNotice(w, r, commentsPage, "comment-failed")
	default:
		slog.Info("comment added", "user", GetWebClaims(r.Context()).UserID, "item", item.ID)
		redirectNotice(w, r, commentsPage, "commented")
	}
}

// PostPage handles GET /post.
func (s *Server) PostPage(w http.ResponseWriter, r *http.Request) {
	in := model.ItemInput{Type: model.ItemTypeLost}
	if t := r.URL.Query().Get("type"); model.ValidItemType(t) {
		in.Type = t
	}
	s.Templates.Render(w, "post.html", &postPage{
		PageData:   s.page(r, "Post an Item"),
		Input:      in,
		Categories: model.Categories,
	})
}

// PostSubmit handles POST /post.
func (s *Server) PostSubmit(w http.ResponseWriter, r *http.Request) {
	form := view.NewPostForm(s.viewer(r))
	form.Input = model.ItemInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		ImageURL:    r.FormValue("image_url"),
		Location:    r.FormValue("location"),
		ContactInfo: r.FormValue("contact_info"),
		Category:    r.FormValue("category"),
		Type:        r.FormValue("type"),
	}
	input := form.Input

	next, err := form.Submit(r.Context())
	if errors.Is(err, model.ErrAuthRequired) {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	if err != nil {
		status := http.StatusBadRequest
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			slog.Error("failed to post item", "error", err)
			status = http.StatusInternalServerError
		}
		pd := s.page(r, "Post an Item")
		pd.Error = capitalize(form.Err) + "."
		s.Templates.RenderStatus(w, status, "post.html", &postPage{
			PageData:   pd,
			Input:      input,
			Categories: model.Categories,
		})
		return
	}

	slog.Info("item created", "user", GetWebClaims(r.Context()).UserID, "type", input.Type)
	redirectNotice(w, r, next, "posted")
}

// AboutPage handles GET /about.
func (s *Server) AboutPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "about.html", &struct{ PageData }{s.page(r, "About")})
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
