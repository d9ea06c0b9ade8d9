package listing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/feed"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/store"
	"github.com/shopspring/decimal"
)

func account(id, status string) models.Account {
	return models.Account{ID: id, Balance: decimal.NewFromInt(100), Status: models.AccountStatus(status)}
}

func statusErr(code int) error {
	e := &apiclient.Error{Status: code}
	apiclient.Normalize(e)
	return e
}

// recordingEndpoint serves fixed results and records every query it got.
type recordingEndpoint[T any] struct {
	mu      sync.Mutex
	queries []url.Values
	page    models.Page[T]
	err     error
}

func (r *recordingEndpoint[T]) fetch(_ context.Context, query url.Values) (models.Page[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	if r.err != nil {
		return models.Page[T]{}, r.err
	}
	return r.page, nil
}

func (r *recordingEndpoint[T]) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func (r *recordingEndpoint[T]) last() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries[len(r.queries)-1]
}

func newTransactionController(endpoints ...Endpoint[models.Transaction]) *Controller[models.Transaction, TransactionFilter] {
	return NewController(Config[models.Transaction, TransactionFilter]{
		Name:      "transactions",
		Endpoints: endpoints,
		State:     NewState(TransactionFilter{}, Pagination{Size: 10, SortBy: "operationDate", SortDir: Desc}, ParamNames{}),
	})
}

func TestLoadAccountsPage(t *testing.T) {
	ep := &recordingEndpoint[models.Account]{page: models.Page[models.Account]{
		Content: []models.Account{account("A1", "ACTIVATED")}, TotalElements: 1, TotalPages: 1, Number: 0, Size: 10,
	}}
	ctrl := NewController(Config[models.Account, AccountSearchParams]{
		Endpoints: []Endpoint[models.Account]{{Name: "admin", Fetch: ep.fetch}},
		State:     NewState(AccountSearchParams{}, Pagination{Size: 10}, AccountParamNames),
	})

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := ctrl.Snapshot()
	if len(snap.Items) != 1 || snap.Loading || snap.Error != "" || snap.Err != nil {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Endpoint != "admin" || snap.Demo {
		t.Errorf("unexpected source %s demo=%v", snap.Endpoint, snap.Demo)
	}
}

func TestFilterRoundTrip(t *testing.T) {
	ep := &recordingEndpoint[models.Transaction]{page: models.Page[models.Transaction]{TotalPages: 5, Size: 10}}
	ctrl := newTransactionController(Endpoint[models.Transaction]{Name: "general", Fetch: ep.fetch})
	ctx := context.Background()

	_ = ctrl.Load(ctx)
	_ = ctrl.GoToPage(ctx, 3)
	_ = ctrl.Sort(ctx, "amount")
	if err := ctrl.ApplyFilters(ctx, func(f *TransactionFilter) { f.Status = models.TransactionPending }); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if q := ep.last(); q.Get("status") != "PENDING" || q.Get("page") != "0" {
		t.Errorf("applying a filter must return to page 0, got %v", q)
	}

	if err := ctrl.ClearFilters(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	q := ep.last()
	if q.Has("status") || q.Get("page") != "0" || q.Get("sortBy") != "operationDate" || q.Get("sortDir") != "desc" {
		t.Errorf("clearing must restore the defaults, got %v", q)
	}
}

func TestGoToPageOutOfRangeIsNoop(t *testing.T) {
	ep := &recordingEndpoint[models.Transaction]{page: models.Page[models.Transaction]{
		Content: []models.Transaction{{ID: "T1"}}, TotalPages: 3, Size: 10, Number: 0,
	}}
	ctrl := newTransactionController(Endpoint[models.Transaction]{Name: "general", Fetch: ep.fetch})
	ctx := context.Background()
	_ = ctrl.Load(ctx)
	before := ctrl.Snapshot()

	for _, n := range []int{-1, 3, 99} {
		if err := ctrl.GoToPage(ctx, n); err != nil {
			t.Fatalf("GoToPage(%d) returned %v", n, err)
		}
	}
	if err := ctrl.GoToDisplayPage(ctx, 0); err != nil {
		t.Fatalf("GoToDisplayPage(0) returned %v", err)
	}
	_ = ctrl.PrevPage(ctx)

	if ep.calls() != 1 {
		t.Errorf("expected no extra requests, got %d calls", ep.calls())
	}
	after := ctrl.Snapshot()
	if after.Number != before.Number || len(after.Items) != len(before.Items) || ctrl.Pagination().Page != 0 {
		t.Errorf("state changed: before %+v after %+v", before, after)
	}
}

func TestFallbackChain(t *testing.T) {
	tests := []struct {
		name          string
		primaryErr    error
		generalErr    error
		wantGeneral   int
		wantErrStatus int
		wantEndpoint  string
	}{
		{name: "403 falls back once", primaryErr: statusErr(http.StatusForbidden), wantGeneral: 1, wantEndpoint: "general"},
		{name: "404 falls back once", primaryErr: statusErr(http.StatusNotFound), wantGeneral: 1, wantEndpoint: "general"},
		{name: "fallback failure surfaces", primaryErr: statusErr(http.StatusForbidden), generalErr: statusErr(http.StatusInternalServerError), wantGeneral: 1, wantErrStatus: 500},
		{name: "500 does not fall back", primaryErr: statusErr(http.StatusInternalServerError), wantGeneral: 0, wantErrStatus: 500},
		{name: "401 does not fall back", primaryErr: statusErr(http.StatusUnauthorized), wantGeneral: 0, wantErrStatus: 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &recordingEndpoint[models.Transaction]{err: tt.primaryErr}
			general := &recordingEndpoint[models.Transaction]{err: tt.generalErr, page: models.Page[models.Transaction]{
				Content: []models.Transaction{{ID: "T1"}}, TotalPages: 1, Size: 10,
			}}
			ctrl := newTransactionController(
				Endpoint[models.Transaction]{Name: "customer", Fetch: primary.fetch},
				Endpoint[models.Transaction]{Name: "general", Fetch: general.fetch},
			)

			err := ctrl.Load(context.Background())
			if primary.calls() != 1 || general.calls() != tt.wantGeneral {
				t.Fatalf("expected 1/%d calls, got %d/%d", tt.wantGeneral, primary.calls(), general.calls())
			}
			snap := ctrl.Snapshot()
			if tt.wantErrStatus != 0 {
				if apiclient.StatusOf(err) != tt.wantErrStatus || snap.Error == "" {
					t.Errorf("expected status %d surfaced, got %v (%q)", tt.wantErrStatus, err, snap.Error)
				}
				return
			}
			if err != nil || snap.Endpoint != tt.wantEndpoint || len(snap.Items) != 1 {
				t.Errorf("unexpected result err=%v snap=%+v", err, snap)
			}
		})
	}
}

func TestDemoData(t *testing.T) {
	demoPage := func(url.Values) models.Page[models.Account] {
		return models.Page[models.Account]{Content: []models.Account{account("D1", "ACTIVATED")}, TotalPages: 1, Size: 10}
	}
	tests := []struct {
		name     string
		enabled  bool
		err      error
		wantDemo bool
	}{
		{name: "disabled never serves demo", enabled: false, err: statusErr(http.StatusInternalServerError)},
		{name: "enabled serves demo on server error", enabled: true, err: statusErr(http.StatusInternalServerError), wantDemo: true},
		{name: "enabled serves demo when unreachable", enabled: true, err: statusErr(0), wantDemo: true},
		{name: "never on unauthorized", enabled: true, err: statusErr(http.StatusUnauthorized)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := &recordingEndpoint[models.Account]{err: tt.err}
			mem := store.NewMemoryStore[models.Account]()
			ctrl := NewController(Config[models.Account, AccountSearchParams]{
				Endpoints:   []Endpoint[models.Account]{{Name: "admin", Fetch: ep.fetch}},
				State:       NewState(AccountSearchParams{}, Pagination{Size: 10}, AccountParamNames),
				Store:       mem,
				Demo:        demoPage,
				DemoEnabled: tt.enabled,
			})
			err := ctrl.Load(context.Background())
			snap := ctrl.Snapshot()
			if snap.Demo != tt.wantDemo {
				t.Fatalf("expected demo=%v, got %v (err %v)", tt.wantDemo, snap.Demo, err)
			}
			if tt.wantDemo {
				if err != nil || len(snap.Items) != 1 || snap.Items[0].ID != "D1" {
					t.Errorf("unexpected demo result %v %+v", err, snap)
				}
				if _, ok, _ := mem.Get(context.Background(), "D1"); ok {
					t.Error("demo rows must not reach the store")
				}
				return
			}
			if err == nil || len(snap.Items) != 0 {
				t.Errorf("expected the error surfaced, got %v %+v", err, snap)
			}
		})
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	call := 0
	fetch := func(ctx context.Context, query url.Values) (models.Page[models.Transaction], error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return models.Page[models.Transaction]{Content: []models.Transaction{{ID: "OLD"}}, TotalPages: 1, Size: 10}, nil
		}
		return models.Page[models.Transaction]{Content: []models.Transaction{{ID: "NEW"}}, TotalPages: 1, Size: 10}, nil
	}
	ctrl := newTransactionController(Endpoint[models.Transaction]{Name: "general", Fetch: fetch})
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() { firstErr <- ctrl.Load(ctx) }()
	<-entered

	if err := ctrl.ApplyFilters(ctx, func(f *TransactionFilter) { f.Search = "new" }); err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	close(release)

	if err := <-firstErr; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	snap := ctrl.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "NEW" || snap.Loading {
		t.Errorf("stale response leaked: %+v", snap)
	}
}

func TestPatchAndRemoveKeepOrder(t *testing.T) {
	ep := &recordingEndpoint[models.Account]{page: models.Page[models.Account]{
		Content:       []models.Account{account("A1", "ACTIVATED"), account("A2", "ACTIVATED"), account("A3", "CREATED")},
		TotalElements: 3, TotalPages: 1, Size: 10,
	}}
	ctrl := NewController(Config[models.Account, AccountSearchParams]{
		Endpoints: []Endpoint[models.Account]{{Name: "admin", Fetch: ep.fetch}},
		State:     NewState(AccountSearchParams{}, Pagination{Size: 10}, AccountParamNames),
	})
	_ = ctrl.Load(context.Background())

	if !ctrl.Patch(account("A2", "SUSPENDED")) {
		t.Fatal("patch did not match")
	}
	if ctrl.Patch(account("A9", "SUSPENDED")) {
		t.Fatal("patch matched an unknown row")
	}
	items := ctrl.Snapshot().Items
	if ids := []string{items[0].ID, items[1].ID, items[2].ID}; ids[0] != "A1" || ids[1] != "A2" || ids[2] != "A3" {
		t.Fatalf("order changed: %v", ids)
	}
	if items[0].Status != models.AccountActivated || items[1].Status != models.AccountSuspended || items[2].Status != models.AccountCreated {
		t.Errorf("unexpected statuses %+v", items)
	}

	if !ctrl.Remove("A1") {
		t.Fatal("remove did not match")
	}
	snap := ctrl.Snapshot()
	if len(snap.Items) != 2 || snap.Items[0].ID != "A2" || snap.TotalElements != 2 {
		t.Errorf("unexpected snapshot after remove %+v", snap)
	}
}

func TestPatchLeavesFetchedPagesAlone(t *testing.T) {
	updates := feed.NewLatest[models.Page[models.Account]]()
	ep := &recordingEndpoint[models.Account]{page: models.Page[models.Account]{
		Content:       []models.Account{account("A1", "ACTIVATED"), account("A2", "ACTIVATED")},
		TotalElements: 2, TotalPages: 1, Size: 10,
	}}
	ctrl := NewController(Config[models.Account, AccountSearchParams]{
		Endpoints: []Endpoint[models.Account]{{Name: "admin", Fetch: ep.fetch}},
		State:     NewState(AccountSearchParams{}, Pagination{Size: 10}, AccountParamNames),
		Feed:      updates,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	pages := updates.Subscribe(ctx)
	read := make(chan struct{})
	go func() {
		defer close(read)
		page := <-pages
		for i := 0; i < 100; i++ {
			for _, a := range page.Content {
				_ = a.Status
			}
		}
	}()
	for i := 0; i < 100; i++ {
		ctrl.Patch(account("A1", "SUSPENDED"))
	}
	<-read

	if page, _ := updates.Value(); page.Content[0].Status != models.AccountActivated {
		t.Errorf("patch leaked into the published page: %+v", page.Content[0])
	}
	if ep.page.Content[0].Status != models.AccountActivated {
		t.Errorf("patch leaked into the fetched page: %+v", ep.page.Content[0])
	}
	if item, _ := ctrl.Item("A1"); item.Status != models.AccountSuspended {
		t.Errorf("row not patched: %+v", item)
	}
}

func TestWatchAppliesStoreChanges(t *testing.T) {
	mem := store.NewMemoryStore[models.Account]()
	updates := feed.NewLatest[models.Page[models.Account]]()
	ep := &recordingEndpoint[models.Account]{page: models.Page[models.Account]{
		Content:       []models.Account{account("A1", "ACTIVATED"), account("A2", "ACTIVATED")},
		TotalElements: 2, TotalPages: 1, Size: 10,
	}}
	ctrl := NewController(Config[models.Account, AccountSearchParams]{
		Endpoints: []Endpoint[models.Account]{{Name: "admin", Fetch: ep.fetch}},
		State:     NewState(AccountSearchParams{}, Pagination{Size: 10}, AccountParamNames),
		Store:     mem,
		Feed:      updates,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, ok, _ := mem.Get(ctx, "A2"); !ok {
		t.Fatal("loaded rows must be recorded in the store")
	}

	pages := updates.Subscribe(ctx)
	<-pages // replay of the loaded page

	done := make(chan error, 1)
	go func() { done <- ctrl.Watch(ctx) }()

	// The watcher subscribes asynchronously; keep updating until it lands.
	deadline := time.After(2 * time.Second)
	for {
		_ = mem.Update(ctx, account("A2", "SUSPENDED"))
		select {
		case page := <-pages:
			if page.Content[1].Status != models.AccountSuspended {
				t.Fatalf("unexpected published page %+v", page)
			}
			cancel()
			if err := <-done; !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			if item, _ := ctrl.Item("A2"); item.Status != models.AccountSuspended {
				t.Errorf("row not patched: %+v", item)
			}
			return
		case <-deadline:
			t.Fatal("watch never applied the update")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatchReloadsInvalidatedRows(t *testing.T) {
	mem := store.NewMemoryStore[models.Account]()
	ep := &recordingEndpoint[models.Account]{page: models.Page[models.Account]{
		Content: []models.Account{account("A1", "ACTIVATED")}, TotalElements: 1, TotalPages: 1, Size: 10,
	}}
	ctrl := NewController(Config[models.Account, AccountSearchParams]{
		Endpoints: []Endpoint[models.Account]{{Name: "admin", Fetch: ep.fetch}},
		State:     NewState(AccountSearchParams{}, Pagination{Size: 10}, AccountParamNames),
		Store:     mem,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = ctrl.Load(ctx)

	go func() { _ = ctrl.Watch(ctx) }()

	deadline := time.After(2 * time.Second)
	for ep.calls() < 2 {
		_ = mem.Invalidate(ctx, "A9")
		_ = mem.Invalidate(ctx, "A1")
		select {
		case <-deadline:
			t.Fatal("invalidating a held row never reloaded")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
