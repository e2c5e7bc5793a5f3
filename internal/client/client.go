// Package client is a typed HTTP client for the Questify JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/questify/questify/internal/account"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
	"github.com/questify/questify/internal/view"
)

var (
	_ view.Gateway        = (*Client)(nil)
	_ view.ProfileGateway = (*Client)(nil)
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// Unwrap maps auth and not-found responses onto the sentinels the store uses,
// so callers handle both backends the same way.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return model.ErrAuthRequired
	case http.StatusNotFound:
		return store.ErrNotFound
	}
	return nil
}

// Client talks to one Questify server, optionally as a signed-in user.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for the server at baseURL. An empty token makes an
// anonymous client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the session token, if any.
func (c *Client) Token() string {
	return c.token
}

// Authenticated reports whether the client holds a session token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// do sends a request and decodes a JSON response into out when it is set.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

func itemPath(id string, suffix ...string) string {
	return "/api/items/" + url.PathEscape(id) + strings.Join(suffix, "")
}

// Signup creates an account and keeps its session.
func (c *Client) Signup(ctx context.Context, email, password string) (*account.Session, error) {
	return c.authenticate(ctx, "/api/auth/signup", email, password)
}

// Login signs in and keeps the session.
func (c *Client) Login(ctx context.Context, email, password string) (*account.Session, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*account.Session, error) {
	var session account.Session
	err := c.do(ctx, http.MethodPost, path, map[string]string{"email": email, "password": password}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Logout revokes the session token and forgets it.
func (c *Client) Logout(ctx context.Context) error {
	if !c.Authenticated() {
		return model.ErrAuthRequired
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// ChangePassword replaces the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	if !c.Authenticated() {
		return model.ErrAuthRequired
	}
	return c.do(ctx, http.MethodPut, "/api/auth/password", map[string]string{
		"current_password": current,
		"new_password":     next,
	}, nil)
}

// Categories returns the item categories the server accepts.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListItems returns active items of itemType ("" for all), newest first.
func (c *Client) ListItems(ctx context.Context, itemType string) ([]model.Item, error) {
	path := "/api/items"
	if itemType != "" {
		path += "?type=" + url.QueryEscape(itemType)
	}
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem returns one item, or nil when it does not exist.
func (c *Client) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	err := c.do(ctx, http.MethodGet, itemPath(id), nil, &item)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem posts a new item.
func (c *Client) CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	if !c.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	var item model.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem deletes one of the user's items.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	if !c.Authenticated() {
		return model.ErrAuthRequired
	}
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

// SetItemStatus marks one of the user's items active or resolved.
func (c *Client) SetItemStatus(ctx context.Context, id, status string) (*model.Item, error) {
	if !c.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	var item model.Item
	if err := c.do(ctx, http.MethodPut, itemPath(id, "/status"), map[string]string{"status": status}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpvoteStatus returns the user's upvote state on an item.
func (c *Client) UpvoteStatus(ctx context.Context, itemID string) (*model.UpvoteState, error) {
	return c.upvote(ctx, http.MethodGet, itemID)
}

// ToggleUpvote flips the user's upvote.
func (c *Client) ToggleUpvote(ctx context.Context, itemID string) (*model.UpvoteState, error) {
	return c.upvote(ctx, http.MethodPost, itemID)
}

// AddUpvote upvotes an item; repeating it changes nothing.
func (c *Client) AddUpvote(ctx context.Context, itemID string) (*model.UpvoteState, error) {
	return c.upvote(ctx, http.MethodPut, itemID)
}

// RemoveUpvote withdraws an upvote; repeating it changes nothing.
func (c *Client) RemoveUpvote(ctx context.Context, itemID string) (*model.UpvoteState, error) {
	return c.upvote(ctx, http.MethodDelete, itemID)
}

func (c *Client) upvote(ctx context.Context, method, itemID string) (*model.UpvoteState, error) {
	if !c.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	var state model.UpvoteState
	if err := c.do(ctx, method, itemPath(itemID, "/upvote"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ListComments returns an item's comments, newest first.
func (c *Client) ListComments(ctx context.Context, itemID string) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.do(ctx, http.MethodGet, itemPath(itemID, "/comments"), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment.
func (c *Client) AddComment(ctx context.Context, itemID, content string) (*model.Comment, error) {
	if !c.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	var comment model.Comment
	if err := c.do(ctx, http.MethodPost, itemPath(itemID, "/comments"), map[string]string{"content": content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetProfile returns the user's profile, or nil if none is saved.
func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	if !c.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	var profile model.Profile
	err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profile)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile saves the user's profile.
func (c *Client) UpsertProfile(ctx context.Context, in model.ProfileInput) (*model.Profile, error) {
	if !c.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	var profile model.Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile", in, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UploadAvatar sends an image to become the user's profile picture.
func (c *Client) UploadAvatar(ctx context.Context, filename string, image io.Reader) (*model.Profile, error) {
	if !c.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/profile/avatar", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var profile model.Profile
	if err := c.send(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListOwnItems returns every item the user posted.
func (c *Client) ListOwnItems(ctx context.Context) ([]model.Item, error) {
	if !c.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/api/profile/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
