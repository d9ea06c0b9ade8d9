package main

import (
	"errors"
	"strings"

	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/screens"
	"github.com/spf13/cobra"
)

var errAdminOnly = errors.New("this list is only available to administrators")

func newCustomersCmd(opts *rootOptions) *cobra.Command {
	var (
		search string
		paging listFlags
	)
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			admin, err := app.isAdmin(ctx)
			if err != nil {
				return err
			}
			if !admin {
				return errAdminOnly
			}
			s := screens.NewCustomers(app.deps())
			err = loadList(ctx, s.Controller, paging, func(c *listing.CustomerCriteria) { c.Search = search })
			if err != nil {
				return userError(err)
			}
			return renderCustomers(opts.out, s.Snapshot())
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match name or email")
	paging.register(cmd)
	return cmd
}

func newUsersCmd(opts *rootOptions) *cobra.Command {
	var (
		search string
		role   string
		paging listFlags
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List login accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			admin, err := app.isAdmin(ctx)
			if err != nil {
				return err
			}
			if !admin {
				return errAdminOnly
			}
			s := screens.NewUsers(app.deps())
			err = loadList(ctx, s.Controller, paging, func(c *listing.UserCriteria) {
				c.Search = search
				c.Role = models.Role(strings.ToUpper(role))
			})
			if err != nil {
				return userError(err)
			}
			return renderUsers(opts.out, s.Snapshot())
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match username or email")
	cmd.Flags().StringVar(&role, "role", "", "ADMIN or CUSTOMER")
	paging.register(cmd)
	return cmd
}
