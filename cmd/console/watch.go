package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eaglebank/console/internal/events"
	"github.com/eaglebank/console/internal/feed"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/screens"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep a list on screen and refresh it when other consoles change it",
	}
	cmd.AddCommand(newWatchAccountsCmd(opts))
	return cmd
}

func newWatchAccountsCmd(opts *rootOptions) *cobra.Command {
	var (
		filters accountFilterFlags
		paging  listFlags
	)
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Follow the account list through redis stream events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, true)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			admin, err := app.isAdmin(ctx)
			if err != nil {
				return err
			}
			if admin {
				s := screens.NewAdminAccounts(app.deps())
				if err := loadList(ctx, s.Controller, paging, filters.apply); err != nil {
					return userError(err)
				}
				return watchAccounts(ctx, app, s.Controller, s.Updates)
			}
			s := screens.NewCustomerAccounts(app.deps())
			if err := loadList(ctx, s.Controller, paging, nil); err != nil {
				return userError(err)
			}
			return watchAccounts(ctx, app, s.Controller, s.Updates)
		},
	}
	cmd.Flags().StringVar(&filters.search, "search", "", "match id or customer")
	cmd.Flags().StringVar(&filters.status, "status", "", "account status")
	cmd.Flags().StringVar(&filters.typ, "type", "", "account type")
	paging.register(cmd)
	return cmd
}

// watchAccounts feeds stream events into the shared store, lets the list
// apply them and re-renders every page it publishes, until ctx is done.
func watchAccounts[C listing.Criteria](
	ctx context.Context,
	app *App,
	ctrl *listing.Controller[models.Account, C],
	updates *feed.Latest[models.Page[models.Account]],
) error {
	sub := events.NewSubscriber(app.redis.Client, events.SubscriberConfig{
		Group:    app.source,
		Consumer: app.source,
		Handler:  events.StoreSync(app.source, app.accounts),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sub.Start(gctx) })
	g.Go(func() error { return ctrl.Watch(gctx) })
	g.Go(func() error {
		for range updates.Subscribe(gctx) {
			fmt.Fprintf(app.out, "\n-- %s --\n", time.Now().Format(time.TimeOnly))
			if err := renderAccounts(app.out, ctrl.Snapshot(), app.cfg.Currency); err != nil {
				return err
			}
		}
		return nil
	})
	err := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := sub.Close(closeCtx); cerr != nil {
		log.Printf("level=warn component=console msg=\"failed to remove consumer group\" err=%v", cerr)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
