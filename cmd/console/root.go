package main

import (
	"context"
	"fmt"
	"io"

	"github.com/eaglebank/console/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootOptions struct {
	envDir string
	out    io.Writer
}

// flagKeys maps persistent flags onto the config keys they override.
var flagKeys = map[string]string{
	"api-url":         "BANK_API_URL",
	"demo":            "DEMO_MODE",
	"status-fallback": "STATUS_FALLBACK",
	"page-size":       "PAGE_SIZE",
	"token-store":     "TOKEN_STORE",
	"store":           "STORE_BACKEND",
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}
	root := &cobra.Command{
		Use:          "eaglebank",
		Short:        "Terminal console for the digital banking API",
		SilenceUsage: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envDir, "env-dir", ".", "directory holding an optional .env file")
	flags.String("api-url", "", "banking API base URL")
	flags.Bool("demo", false, "show demo data when the API cannot serve a list")
	flags.String("status-fallback", "", "status route fallback: strict or legacy")
	flags.Int("page-size", 0, "rows per page")
	flags.String("token-store", "", "where the session token lives: file, redis or memory")
	flags.String("store", "", "shared account store: memory or redis")

	root.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newRegisterCmd(opts),
		newWhoamiCmd(opts),
		newAccountsCmd(opts),
		newTransactionsCmd(opts),
		newCreditCmd(opts),
		newDebitCmd(opts),
		newTransferCmd(opts),
		newDashboardCmd(opts),
		newCustomersCmd(opts),
		newUsersCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

// loadConfig reads the environment with changed flags taking precedence.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := viper.BindPFlag(key, f); err != nil {
				return config.Config{}, fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
	}
	return config.LoadConfig(o.envDir)
}

// app builds the wiring for one command run. Callers must Close it.
func (o *rootOptions) app(cmd *cobra.Command, needRedis bool) (*App, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return newApp(ctx, cfg, o.out, needRedis)
}
