package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/ratelimit"
	"github.com/questify/questify/internal/store"
)

type cliHarness struct {
	server  *httptest.Server
	db      *db.DB
	session string
}

func setupCLI(t *testing.T) *cliHarness {
	t.Helper()
	database := db.NewTestDB(t)
	handler, err := newHandler(database, "test-secret", "", ratelimit.New(1000, 1000))
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &cliHarness{
		server:  server,
		db:      database,
		session: filepath.Join(t.TempDir(), "session.yaml"),
	}
}

// run executes the CLI with stdin and returns what it printed.
func (h *cliHarness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", h.server.URL, "--session", h.session}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *cliHarness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, "", args...)
	require.NoError(t, err, "questify %s", strings.Join(args, " "))
	return out
}

func stubClipboard(t *testing.T, fn func(string) error) {
	t.Helper()
	prev := clipboardWriteAll
	clipboardWriteAll = fn
	t.Cleanup(func() { clipboardWriteAll = prev })
}

func TestCLIFlow(t *testing.T) {
	h := setupCLI(t)

	out := h.mustRun(t, "signup", "Alice@Example.com", "--password", "password123")
	assert.Equal(t, "Welcome to Questify, alice@example.com!\n", out)

	saved, err := loadSession(h.session)
	require.NoError(t, err)
	assert.Equal(t, h.server.URL, saved.Server)
	assert.NotEmpty(t, saved.Token)

	out = h.mustRun(t, "post", "--type", "found", "--title", "Blue Umbrella",
		"--description", "Left on the bus", "--location", "Route 12",
		"--contact", "alice@example.com", "--category", "Accessories")
	assert.Equal(t, "Posted. It is listed at "+h.server.URL+"/found\n", out)

	items, err := store.ListActiveItems(context.Background(), h.db, model.ItemTypeFound, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	id := items[0].ID

	out = h.mustRun(t, "items", "--type", "found", "--contact")
	assert.Contains(t, out, "Blue Umbrella")
	assert.Contains(t, out, "alice@example.com")

	out = h.mustRun(t, "items", "-q", "wallet")
	assert.Equal(t, "No items found.\n", out)

	out = h.mustRun(t, "upvote", id)
	assert.Equal(t, "Upvoted \"Blue Umbrella\" (1 upvotes).\n", out)

	out = h.mustRun(t, "comment", id, "Is", "this", "yours?")
	assert.Equal(t, "Comment added (1 comments).\n", out)

	out = h.mustRun(t, "comments", id)
	assert.Contains(t, out, "Anonymous (")
	assert.Contains(t, out, "Is this yours?")

	out = h.mustRun(t, "profile")
	assert.Contains(t, out, "Email:     alice@example.com")
	assert.Contains(t, out, "My items (1):")

	h.mustRun(t, "profile", "set", "--full-name", "Alice Smith", "--username", "alice")
	out = h.mustRun(t, "comments", id)
	assert.Contains(t, out, "alice (")

	out = h.mustRun(t, "upvote", id)
	assert.Equal(t, "Removed upvote from \"Blue Umbrella\" (0 upvotes).\n", out)
}

func TestCLIShare(t *testing.T) {
	h := setupCLI(t)
	h.mustRun(t, "signup", "bob@example.com", "--password", "password123")
	h.mustRun(t, "post", "--title", "Black Wallet", "--description", "Leather",
		"--location", "Park", "--contact", "555-0100", "--category", "Accessories")

	items, err := store.ListActiveItems(context.Background(), h.db, "", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	link := h.server.URL + "/lost#item-" + items[0].ID

	var copied string
	stubClipboard(t, func(s string) error {
		copied = s
		return nil
	})
	out := h.mustRun(t, "share", items[0].ID)
	assert.Equal(t, link, copied)
	assert.Equal(t, "Link copied to clipboard: "+link+"\n", out)

	stubClipboard(t, func(string) error { return errors.New("no clipboard") })
	out = h.mustRun(t, "share", items[0].ID)
	assert.Equal(t, link+"\n", out)
}

func TestCLIAuth(t *testing.T) {
	h := setupCLI(t)
	h.mustRun(t, "signup", "carol@example.com", "--password", "password123")
	h.mustRun(t, "post", "--title", "Keys", "--description", "Three keys",
		"--location", "Gym", "--contact", "555-0101", "--category", "Keys")
	items, err := store.ListActiveItems(context.Background(), h.db, "", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	out := h.mustRun(t, "logout")
	assert.Equal(t, "Logged out.\n", out)

	_, err = h.run(t, "", "upvote", items[0].ID)
	assert.EqualError(t, err, `not logged in (run "questify login" first)`)

	_, err = h.run(t, "", "items", "--contact")
	assert.EqualError(t, err, `not logged in (run "questify login" first)`)

	_, err = h.run(t, "wrong-password\n", "login", "carol@example.com")
	assert.Error(t, err)

	out, err = h.run(t, "password123\n", "login", "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Logged in as carol@example.com.\n", out)

	out = h.mustRun(t, "upvote", items[0].ID)
	assert.Contains(t, out, "(1 upvotes)")
}

func TestCLIPostValidation(t *testing.T) {
	h := setupCLI(t)
	h.mustRun(t, "signup", "dan@example.com", "--password", "password123")

	_, err := h.run(t, "", "post", "--title", "Phone", "--description", "Black",
		"--location", "Cafe", "--contact", "555", "--category", "Pets")
	assert.EqualError(t, err, "category is not a known category")

	items, err := store.ListActiveItems(context.Background(), h.db, "", 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSessionIgnoredForOtherServer(t *testing.T) {
	h := setupCLI(t)
	s := &session{Server: "http://elsewhere.example", Token: "stale"}
	require.NoError(t, s.save(h.session))

	_, err := h.run(t, "", "profile")
	assert.EqualError(t, err, `failed to load profile: not logged in (run "questify login" first)`)
}

func TestServedRoutes(t *testing.T) {
	h := setupCLI(t)
	for _, path := range []string{"/", "/lost", "/api/categories", "/static/style.css", "/static/share.js"} {
		resp, err := http.Get(h.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestSetupLoggerRoutesLevels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout, stderr bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "questify.log")
	closeLog, err := setupLogger(&stdout, &stderr, logPath)
	require.NoError(t, err)

	slog.Info("item created")
	slog.Error("request failed")
	slog.Debug("hidden")
	closeLog()

	assert.Contains(t, stdout.String(), "item created")
	assert.NotContains(t, stdout.String(), "request failed")
	assert.Contains(t, stderr.String(), "request failed")
	assert.NotContains(t, stderr.String(), "item created")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "item created")
	assert.Contains(t, string(data), "request failed")
	assert.NotContains(t, string(data), "hidden")
}
