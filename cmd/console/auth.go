package main

import (
	"fmt"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/screens"
	"github.com/eaglebank/console/internal/validation"
	"github.com/spf13/cobra"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var form validation.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if errs := validation.ValidateRequest(form); errs != nil {
				return screens.ValidationErrors(errs)
			}
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.bank.Login(cmd.Context(), apiclient.LoginRequest{Username: form.Username, Password: form.Password})
			if err != nil {
				return userError(err)
			}
			if err := app.session.Login(cmd.Context(), *resp); err != nil {
				return fmt.Errorf("failed to store session: %w", err)
			}
			fmt.Fprintf(opts.out, "Signed in as %s (%s).\n", resp.Username, resp.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.session.Logout(cmd.Context())
		},
	}
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var form validation.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer login and sign in with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if errs := validation.ValidateRequest(form); errs != nil {
				return screens.ValidationErrors(errs)
			}
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.bank.Register(cmd.Context(), apiclient.RegisterRequest{
				Username: form.Username,
				Email:    form.Email,
				Password: form.Password,
				Name:     form.Name,
			})
			if err != nil {
				return userError(err)
			}
			if err := app.session.Login(cmd.Context(), *resp); err != nil {
				return fmt.Errorf("failed to store session: %w", err)
			}
			fmt.Fprintf(opts.out, "Welcome, %s. You are signed in.\n", resp.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "username")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&form.Name, "name", "", "full name")
	return cmd
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "%s <%s> %s\n", p.Username, p.Email, p.Role)
			return nil
		},
	}
}
