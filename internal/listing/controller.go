package listing

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/feed"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/store"
)

// ErrSuperseded is returned by Load when a newer load was issued before this
// one finished. Its response has been discarded.
var ErrSuperseded = errors.New("load superseded by a newer request")

// Fetcher performs one request against one backend route.
type Fetcher[T any] func(ctx context.Context, query url.Values) (models.Page[T], error)

type Endpoint[T any] struct {
	Name  string
	Fetch Fetcher[T]
}

type PageStyle int

const (
	// WindowStyle shows five 0-based pages around the current one.
	WindowStyle PageStyle = iota
	// EllipsisStyle shows 1-based pages with gaps, as the admin lists do.
	EllipsisStyle
)

type Config[T store.Keyed, C Criteria] struct {
	// Name labels log lines.
	Name string
	// Endpoints are tried in order; a 403 or 404 moves on to the next one.
	Endpoints []Endpoint[T]
	State     *State[C]
	PageStyle PageStyle

	// Store, when set, receives every fetched row and drives Watch.
	Store store.Store[T]
	// Feed, when set, gets every applied page.
	Feed *feed.Latest[models.Page[T]]

	// Demo is served only when DemoEnabled is set and every endpoint failed.
	Demo        func(query url.Values) models.Page[T]
	DemoEnabled bool
}

// Snapshot is a consistent copy of a controller's view state.
type Snapshot[T any] struct {
	Items         []T
	TotalElements int64
	TotalPages    int
	Size          int
	// Number is the 0-based page index.
	Number   int
	First    bool
	Last     bool
	Loading  bool
	Error    string
	Err      error
	Demo     bool
	Endpoint string
	// Pages holds the visible page numbers in Style; Ellipsis entries mark
	// gaps.
	Pages []int
	Style PageStyle
}

// DisplayPage is the 1-based page number.
func (s Snapshot[T]) DisplayPage() int { return s.Number + 1 }

// Controller loads and holds one paged list. It is safe for concurrent use;
// requests run outside the lock.
type Controller[T store.Keyed, C Criteria] struct {
	cfg Config[T, C]

	mu       sync.Mutex
	state    *State[C]
	page     models.Page[T]
	loading  bool
	errMsg   string
	err      error
	demo     bool
	endpoint string
	issued   uint64
}

func NewController[T store.Keyed, C Criteria](cfg Config[T, C]) *Controller[T, C] {
	if cfg.Name == "" {
		cfg.Name = "list"
	}
	return &Controller[T, C]{cfg: cfg, state: cfg.State}
}

// Load fetches the page described by the current state.
func (c *Controller[T, C]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.loading = true
	c.errMsg = ""
	c.err = nil
	query := c.state.Query()
	c.mu.Unlock()

	page, endpoint, demo, err := c.fetch(ctx, query)

	c.mu.Lock()
	if seq != c.issued {
		c.mu.Unlock()
		log.Printf("level=debug component=listing list=%s msg=\"discarded stale response\" seq=%d", c.cfg.Name, seq)
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		c.err = err
		c.errMsg = apiclient.UserMessage(err)
		c.mu.Unlock()
		return err
	}
	if verr := page.Valid(); verr != nil {
		log.Printf("level=warn component=listing list=%s endpoint=%s msg=\"inconsistent page\" err=%v", c.cfg.Name, endpoint, verr)
	}
	page.Content = append([]T(nil), page.Content...)
	c.page = page
	c.demo = demo
	c.endpoint = endpoint
	c.mu.Unlock()

	if c.cfg.Store != nil && !demo {
		if err := c.cfg.Store.Put(ctx, page.Content...); err != nil {
			log.Printf("level=warn component=listing list=%s msg=\"store write failed\" err=%v", c.cfg.Name, err)
		}
	}
	if c.cfg.Feed != nil {
		published := page
		published.Content = append([]T(nil), page.Content...)
		c.cfg.Feed.Publish(published)
	}
	return nil
}

func (c *Controller[T, C]) fetch(ctx context.Context, query url.Values) (models.Page[T], string, bool, error) {
	var lastErr error
	for i, ep := range c.cfg.Endpoints {
		page, err := ep.Fetch(ctx, query)
		if err == nil {
			return page, ep.Name, false, nil
		}
		lastErr = err
		status := apiclient.StatusOf(err)
		if status != http.StatusForbidden && status != http.StatusNotFound {
			break
		}
		if i < len(c.cfg.Endpoints)-1 {
			log.Printf("level=info component=listing list=%s endpoint=%s status=%d msg=\"falling back to %s\"",
				c.cfg.Name, ep.Name, status, c.cfg.Endpoints[i+1].Name)
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no endpoints configured")
	}

	if c.cfg.DemoEnabled && c.cfg.Demo != nil && apiclient.StatusOf(lastErr) != http.StatusUnauthorized {
		log.Printf("level=warn component=listing list=%s msg=\"serving demo data\" err=%v", c.cfg.Name, lastErr)
		return c.cfg.Demo(query), "demo", true, nil
	}
	return models.Page[T]{}, "", false, lastErr
}

// Configure edits the state without loading. Callers changing several
// settings at once follow it with a single Load.
func (c *Controller[T, C]) Configure(edit func(*State[C])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	edit(c.state)
}

// ApplyFilters edits the criteria, returns to the first page and loads.
func (c *Controller[T, C]) ApplyFilters(ctx context.Context, edit func(*C)) error {
	c.mu.Lock()
	if edit != nil {
		edit(&c.state.Criteria)
	}
	c.state.ResetPage()
	c.mu.Unlock()
	return c.Load(ctx)
}

// ClearFilters restores the screen defaults and loads.
func (c *Controller[T, C]) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	c.state.Clear()
	c.mu.Unlock()
	return c.Load(ctx)
}

// GoToPage loads the 0-based page n. Outside [0, totalPages-1] it does
// nothing.
func (c *Controller[T, C]) GoToPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if n < 0 || n > c.page.TotalPages-1 {
		c.mu.Unlock()
		return nil
	}
	c.state.Pagination.Page = n
	c.mu.Unlock()
	return c.Load(ctx)
}

// GoToDisplayPage loads the 1-based page n. Outside [1, totalPages] it does
// nothing.
func (c *Controller[T, C]) GoToDisplayPage(ctx context.Context, n int) error {
	if n < 1 {
		return nil
	}
	return c.GoToPage(ctx, n-1)
}

func (c *Controller[T, C]) NextPage(ctx context.Context) error {
	c.mu.Lock()
	next := c.state.Pagination.Page + 1
	c.mu.Unlock()
	return c.GoToPage(ctx, next)
}

func (c *Controller[T, C]) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	prev := c.state.Pagination.Page - 1
	c.mu.Unlock()
	return c.GoToPage(ctx, prev)
}

// SetPageSize changes the page size, returns to the first page and loads.
func (c *Controller[T, C]) SetPageSize(ctx context.Context, size int) error {
	c.mu.Lock()
	ok := c.state.SetPageSize(size)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.Load(ctx)
}

// Sort sorts by field, flipping direction when it already sorts by field.
func (c *Controller[T, C]) Sort(ctx context.Context, field string) error {
	c.mu.Lock()
	c.state.Sort(field)
	c.mu.Unlock()
	return c.Load(ctx)
}

func (c *Controller[T, C]) Criteria() C {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Criteria
}

func (c *Controller[T, C]) Pagination() Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Pagination
}

// Query is the query the next Load would send.
func (c *Controller[T, C]) Query() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Query()
}

func (c *Controller[T, C]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.page.Content))
	copy(items, c.page.Content)
	snap := Snapshot[T]{
		Items:         items,
		TotalElements: c.page.TotalElements,
		TotalPages:    c.page.TotalPages,
		Size:          c.page.Size,
		Number:        c.page.Number,
		First:         c.page.First,
		Last:          c.page.Last,
		Loading:       c.loading,
		Error:         c.errMsg,
		Err:           c.err,
		Demo:          c.demo,
		Endpoint:      c.endpoint,
		Style:         c.cfg.PageStyle,
	}
	switch c.cfg.PageStyle {
	case EllipsisStyle:
		snap.Pages = EllipsisPages(c.page.Number+1, c.page.TotalPages)
	default:
		snap.Pages = WindowPages(c.page.Number, c.page.TotalPages)
	}
	return snap
}

// Item returns the loaded row with the given key.
func (c *Controller[T, C]) Item(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.page.Content {
		if item.Key() == key {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Patch replaces the loaded row with item's key in place. Order, length and
// the other rows are untouched. It reports whether a row matched.
func (c *Controller[T, C]) Patch(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.page.Content {
		if c.page.Content[i].Key() == item.Key() {
			c.page.Content[i] = item
			return true
		}
	}
	return false
}

// Remove drops the loaded row with the given key, keeping the others in
// order.
func (c *Controller[T, C]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.page.Content {
		if c.page.Content[i].Key() == key {
			c.page.Content = append(c.page.Content[:i:i], c.page.Content[i+1:]...)
			if c.page.TotalElements > 0 {
				c.page.TotalElements--
			}
			return true
		}
	}
	return false
}

// Watch applies store changes to the loaded rows until ctx is done: updates
// are patched in, deletions removed, and an invalidated row triggers a reload.
func (c *Controller[T, C]) Watch(ctx context.Context) error {
	if c.cfg.Store == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	for change := range c.cfg.Store.Watch(ctx) {
		switch change.Kind {
		case store.Updated:
			if c.Patch(change.Value) {
				c.publish()
			}
		case store.Deleted:
			if c.Remove(change.Key) {
				c.publish()
			}
		case store.Invalidated:
			if _, held := c.Item(change.Key); !held {
				continue
			}
			if err := c.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) && ctx.Err() == nil {
				log.Printf("level=warn component=listing list=%s msg=\"reload after invalidation failed\" err=%v", c.cfg.Name, err)
			}
		}
	}
	return ctx.Err()
}

// publish offers the held page to the Feed after a row edit.
func (c *Controller[T, C]) publish() {
	if c.cfg.Feed == nil {
		return
	}
	c.mu.Lock()
	page := c.page
	page.Content = append([]T(nil), c.page.Content...)
	c.mu.Unlock()
	c.cfg.Feed.Publish(page)
}
