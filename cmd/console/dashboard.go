package main

import (
	"fmt"
	"io"

	"github.com/eaglebank/console/internal/presentation"
	"github.com/eaglebank/console/internal/screens"
	"github.com/spf13/cobra"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var (
		toCSV  bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the administrator dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.profile(ctx); err != nil {
				return err
			}
			s := screens.NewDashboard(app.deps())
			data, err := s.Load(ctx)
			if err != nil {
				return userError(err)
			}
			if toCSV || output != "" {
				f, err := createExport(output, "bank-report")
				if err != nil {
					return err
				}
				defer f.Close()
				if err := s.ExportReport(f); err != nil {
					return err
				}
				fmt.Fprintf(opts.out, "Report exported to %s.\n", f.Name())
				return nil
			}
			return renderDashboard(opts.out, data, app.cfg.Currency)
		},
	}
	cmd.Flags().BoolVar(&toCSV, "export", false, "write the metric report to CSV")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file to write; implies --export")
	return cmd
}

func renderDashboard(out io.Writer, data screens.DashboardData, currency string) error {
	renderBanners(out, data.Demo, "")
	tw := newTable(out)
	s := data.Stats
	fmt.Fprintf(tw, "Customers\t%d\n", s.TotalCustomers)
	fmt.Fprintf(tw, "Accounts\t%d\n", s.TotalAccounts)
	fmt.Fprintf(tw, "Transactions\t%d\n", s.TotalTransactions)
	fmt.Fprintf(tw, "Total balance\t%s\n", presentation.FormatMoney(s.TotalBalance, currency, currency))
	fmt.Fprintf(tw, "Active accounts\t%d\n", s.ActiveAccounts)
	fmt.Fprintf(tw, "Suspended accounts\t%d\n", s.SuspendedAccounts)
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(data.Transactions.Daily) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	tw = newTable(out)
	fmt.Fprintln(tw, "DAY\tCOUNT\tVOLUME")
	for _, d := range data.Transactions.Daily {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Date, d.Count, presentation.FormatAmount(d.Amount))
	}
	return tw.Flush()
}
