package main

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
)

func accountsController(queries *[]url.Values, total int) *listing.Controller[models.Account, listing.AccountSearchParams] {
	fetch := func(_ context.Context, query url.Values) (models.Page[models.Account], error) {
		*queries = append(*queries, query)
		all := make([]models.Account, total)
		for i := range all {
			all[i] = models.Account{ID: "A" + strconv.Itoa(i+1)}
		}
		page, _ := strconv.Atoi(query.Get("page"))
		size, _ := strconv.Atoi(query.Get("size"))
		return models.NewPage(all, page, size), nil
	}
	return listing.NewController(listing.Config[models.Account, listing.AccountSearchParams]{
		Endpoints: []listing.Endpoint[models.Account]{{Name: "admin", Fetch: fetch}},
		State:     listing.NewState(listing.AccountSearchParams{}, listing.Pagination{Size: 10}, listing.AccountParamNames),
	})
}

func TestLoadListSendsOneRequest(t *testing.T) {
	var queries []url.Values
	ctrl := accountsController(&queries, 25)

	err := loadList(context.Background(), ctrl, listFlags{page: 2, size: 20, sort: "balance"}, func(p *listing.AccountSearchParams) {
		p.Status = "ACTIVATED"
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("expected one request, got %d: %v", len(queries), queries)
	}
	q := queries[0]
	if q.Get("page") != "1" || q.Get("size") != "20" || q.Get("sortBy") != "balance" || q.Get("sortOrder") != "asc" || q.Get("status") != "ACTIVATED" {
		t.Errorf("unexpected query %v", q)
	}
	if snap := ctrl.Snapshot(); snap.DisplayPage() != 2 || len(snap.Items) != 5 {
		t.Errorf("unexpected snapshot page=%d items=%d", snap.DisplayPage(), len(snap.Items))
	}
}

func TestLoadListReportsPageOutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		wantCalls int
		wantErr   string
	}{
		{name: "past the last page", page: 5, wantCalls: 1, wantErr: "the list has 3 page(s)"},
		{name: "zero", page: 0, wantCalls: 0, wantErr: "counted from 1"},
		{name: "last page", page: 3, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var queries []url.Values
			ctrl := accountsController(&queries, 25)
			err := loadList(context.Background(), ctrl, listFlags{page: tt.page}, nil)
			if len(queries) != tt.wantCalls {
				t.Errorf("expected %d requests, got %d", tt.wantCalls, len(queries))
			}
			switch {
			case tt.wantErr == "" && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
