package view

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/questify/questify/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errBoom = errors.New("boom")

// fakeGateway is an in-memory data service that counts calls.
type fakeGateway struct {
	mu sync.Mutex

	userID   string
	items    []model.Item
	upvotes  map[string]map[string]bool
	comments map[string][]model.Comment
	profile  *model.Profile
	clock    time.Time

	calls   map[string]int
	failing map[string]bool
}

func newFakeGateway(userID string) *fakeGateway {
	return &fakeGateway{
		userID:   userID,
		upvotes:  map[string]map[string]bool{},
		comments: map[string][]model.Comment{},
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		calls:    map[string]int{},
		failing:  map[string]bool{},
	}
}

func (g *fakeGateway) hit(name string) error {
	g.calls[name]++
	if g.failing[name] {
		return errBoom
	}
	return nil
}

func (g *fakeGateway) tick() time.Time {
	g.clock = g.clock.Add(time.Second)
	return g.clock
}

func (g *fakeGateway) totalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

func (g *fakeGateway) addItem(title, itemType string) model.Item {
	return g.addItemFor("owner", title, itemType)
}

func (g *fakeGateway) addItemFor(owner, title, itemType string) model.Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	it := model.Item{
		ID:          fmt.Sprintf("item-%d", len(g.items)+1),
		UserID:      owner,
		Title:       title,
		Description: "About " + title,
		Location:    "Main Square",
		ContactInfo: "555-0100",
		Category:    "Other",
		Type:        itemType,
		Status:      model.ItemStatusActive,
		CreatedAt:   g.tick(),
	}
	g.items = append(g.items, it)
	return it
}

func (g *fakeGateway) countUpvotes(itemID string) int {
	return len(g.upvotes[itemID])
}

func (g *fakeGateway) Authenticated() bool { return g.userID != "" }

func (g *fakeGateway) ListItems(ctx context.Context, itemType string) ([]model.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ListItems"); err != nil {
		return nil, err
	}
	var out []model.Item
	for _, it := range g.items {
		if it.Status != model.ItemStatusActive || (itemType != "" && it.Type != itemType) {
			continue
		}
		it.Upvotes = g.countUpvotes(it.ID)
		it.Comments = len(g.comments[it.ID])
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (g *fakeGateway) UpvoteStatus(ctx context.Context, itemID string) (*model.UpvoteState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("UpvoteStatus"); err != nil {
		return nil, err
	}
	return &model.UpvoteState{Upvoted: g.upvotes[itemID][g.userID], Upvotes: g.countUpvotes(itemID)}, nil
}

func (g *fakeGateway) ToggleUpvote(ctx context.Context, itemID string) (*model.UpvoteState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ToggleUpvote"); err != nil {
		return nil, err
	}
	if g.userID == "" {
		return nil, model.ErrAuthRequired
	}
	if g.upvotes[itemID] == nil {
		g.upvotes[itemID] = map[string]bool{}
	}
	if g.upvotes[itemID][g.userID] {
		delete(g.upvotes[itemID], g.userID)
	} else {
		g.upvotes[itemID][g.userID] = true
	}
	return &model.UpvoteState{Upvoted: g.upvotes[itemID][g.userID], Upvotes: g.countUpvotes(itemID)}, nil
}

func (g *fakeGateway) ListComments(ctx context.Context, itemID string) ([]model.Comment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ListComments"); err != nil {
		return nil, err
	}
	src := g.comments[itemID]
	out := make([]model.Comment, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (g *fakeGateway) AddComment(ctx context.Context, itemID, content string) (*model.Comment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("AddComment"); err != nil {
		return nil, err
	}
	c := model.Comment{
		ID:        fmt.Sprintf("c-%d", len(g.comments[itemID])+1),
		ItemID:    itemID,
		UserID:    g.userID,
		Content:   content,
		CreatedAt: g.tick(),
	}
	g.comments[itemID] = append(g.comments[itemID], c)
	return &c, nil
}

func (g *fakeGateway) CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	g.mu.Lock()
	if err := g.hit("CreateItem"); err != nil {
		g.mu.Unlock()
		return nil, err
	}
	g.mu.Unlock()
	it := g.addItemFor(g.userID, in.Title, in.Type)
	return &it, nil
}

func (g *fakeGateway) GetProfile(ctx context.Context) (*model.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("GetProfile"); err != nil {
		return nil, err
	}
	return g.profile, nil
}

func (g *fakeGateway) UpsertProfile(ctx context.Context, in model.ProfileInput) (*model.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("UpsertProfile"); err != nil {
		return nil, err
	}
	g.profile = &model.Profile{ID: g.userID, FullName: in.FullName, Username: in.Username}
	return g.profile, nil
}

func (g *fakeGateway) ListOwnItems(ctx context.Context) ([]model.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ListOwnItems"); err != nil {
		return nil, err
	}
	var out []model.Item
	for _, it := range g.items {
		if it.UserID == g.userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (g *fakeGateway) DeleteItem(ctx context.Context, itemID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("DeleteItem"); err != nil {
		return err
	}
	for i, it := range g.items {
		if it.ID == itemID && it.UserID == g.userID {
			g.items = append(g.items[:i], g.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}
