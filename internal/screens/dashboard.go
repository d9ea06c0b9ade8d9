package screens

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/demo"
	"github.com/eaglebank/console/internal/export"
	"github.com/eaglebank/console/internal/models"
	"golang.org/x/sync/errgroup"
)

type DashboardData struct {
	Stats        models.DashboardStats
	Accounts     models.AccountsSummary
	Transactions models.TransactionsSummary
	Demo         bool
}

// Dashboard loads the three admin aggregates concurrently.
type Dashboard struct {
	deps Deps

	mu      sync.Mutex
	data    DashboardData
	loaded  bool
	loading bool
	errMsg  string
}

func NewDashboard(d Deps) *Dashboard {
	return &Dashboard{deps: d.withDefaults()}
}

func (s *Dashboard) Load(ctx context.Context) (DashboardData, error) {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	var data DashboardData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.deps.Bank.DashboardStats(gctx)
		if err != nil {
			return fmt.Errorf("failed to load dashboard stats: %w", err)
		}
		data.Stats = *stats
		return nil
	})
	g.Go(func() error {
		summary, err := s.deps.Bank.AccountsSummary(gctx)
		if err != nil {
			return fmt.Errorf("failed to load accounts summary: %w", err)
		}
		data.Accounts = *summary
		return nil
	})
	g.Go(func() error {
		summary, err := s.deps.Bank.TransactionsSummary(gctx)
		if err != nil {
			return fmt.Errorf("failed to load transactions summary: %w", err)
		}
		data.Transactions = *summary
		return nil
	})
	err := g.Wait()

	if err != nil && s.deps.DemoMode && apiclient.StatusOf(err) != http.StatusUnauthorized {
		log.Printf("level=warn component=screens screen=dashboard msg=\"serving demo data\" err=%v", err)
		data = DashboardData{Stats: demo.Stats(), Demo: true}
		err = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = apiclient.UserMessage(err)
		return s.data, err
	}
	s.data = data
	s.loaded = true
	return data, nil
}

// Data returns the last loaded aggregates and the current error message.
func (s *Dashboard) Data() (DashboardData, bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.loaded, s.errMsg
}

// ExportReport writes the metric report built from the loaded stats; nothing
// is fetched.
func (s *Dashboard) ExportReport(w io.Writer) error {
	data, loaded, _ := s.Data()
	if !loaded {
		return fmt.Errorf("dashboard not loaded")
	}
	return export.Report(w, data.Stats)
}
