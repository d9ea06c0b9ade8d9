package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/config"
	"github.com/eaglebank/console/internal/events"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/redis"
	"github.com/eaglebank/console/internal/screens"
	"github.com/eaglebank/console/internal/session"
	"github.com/eaglebank/console/internal/store"
	"github.com/google/uuid"
)

const (
	sessionKeyPrefix = "eaglebank:session:"
	accountKeyPrefix = "eaglebank:accounts:"
	accountCacheTTL  = time.Hour
)

// App holds everything one console command needs.
type App struct {
	cfg    config.Config
	out    io.Writer
	source string

	nav      *navigator
	session  *session.Manager
	bank     *apiclient.Client
	redis    *redis.Client
	accounts store.Store[models.Account]
	emitter  events.Emitter
}

func newApp(ctx context.Context, cfg config.Config, out io.Writer, needRedis bool) (*App, error) {
	a := &App{
		cfg:     cfg,
		out:     out,
		source:  "console-" + uuid.NewString(),
		nav:     newNavigator(out),
		emitter: events.Nop{},
	}

	if cfg.UsesRedis() || needRedis {
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.emitter = events.NewPublisher(client.Client, a.source)
	}

	var tokens session.Store
	switch cfg.TokenStore {
	case config.TokenStoreRedis:
		tokens = session.NewRedisStore(a.redis.Client, sessionKeyPrefix)
	case config.TokenStoreMemory:
		tokens = session.NewMemoryStore()
	default:
		tokens = session.NewFileStore(cfg.TokenFile)
	}
	a.session = session.NewManager(tokens, a.nav)

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: session.NewTransport(http.DefaultTransport, a.session),
	}
	a.bank = apiclient.NewClient(cfg.BankAPIURL, httpClient)

	if cfg.StoreBackend == "redis" {
		a.accounts = store.NewRedisStore[models.Account](a.redis.Client, accountKeyPrefix, accountCacheTTL)
	} else {
		a.accounts = store.NewMemoryStore[models.Account]()
	}
	return a, nil
}

func (a *App) Close() {
	if a.redis == nil {
		return
	}
	if err := a.redis.Close(); err != nil {
		log.Printf("level=warn component=console msg=\"failed to close redis\" err=%v", err)
	}
}

func (a *App) deps() screens.Deps {
	return screens.Deps{
		Bank:           a.bank,
		Accounts:       a.accounts,
		Emitter:        a.emitter,
		Notifier:       newBanner(a.out),
		Navigator:      a.nav,
		DemoMode:       a.cfg.DemoMode,
		StatusFallback: listing.ParseFallbackPolicy(a.cfg.StatusFallback),
		PageSize:       a.cfg.PageSize,
		RedirectDelay:  a.cfg.RedirectDelay,
		DailyLimit:     a.cfg.DailyLimit(),
		// A command runs to completion, so the redirect waits in place.
		After: func(d time.Duration, f func()) {
			time.Sleep(d)
			f()
		},
	}
}

// profile returns the signed-in user, or an error telling the user to log in.
func (a *App) profile(ctx context.Context) (*models.AuthResponse, error) {
	if _, err := a.session.Valid(ctx); err != nil {
		if errors.Is(err, session.ErrSessionExpired) {
			a.session.Expire(ctx)
		}
		return nil, fmt.Errorf("%w: run `eaglebank login`", err)
	}
	return a.session.Profile(ctx)
}

func (a *App) isAdmin(ctx context.Context) (bool, error) {
	p, err := a.profile(ctx)
	if err != nil {
		return false, err
	}
	return p.Role == models.RoleAdmin, nil
}
