package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/export"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/screens"
	"github.com/eaglebank/console/internal/store"
	"github.com/spf13/cobra"
)

type listFlags struct {
	page int
	size int
	sort string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page to show, counted from 1")
	cmd.Flags().IntVar(&f.size, "size", 0, "rows per page")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort field; naming the current field flips the direction")
}

// loadList applies edit and the paging flags, then loads once. A page past
// the end is reported rather than shown as the first one.
func loadList[T store.Keyed, C listing.Criteria](ctx context.Context, ctrl *listing.Controller[T, C], f listFlags, edit func(*C)) error {
	if f.page < 1 {
		return fmt.Errorf("page %d is out of range: pages are counted from 1", f.page)
	}
	ctrl.Configure(func(s *listing.State[C]) {
		if edit != nil {
			edit(&s.Criteria)
		}
		s.ResetPage()
		if f.size > 0 {
			s.SetPageSize(f.size)
		}
		if f.sort != "" {
			s.Sort(f.sort)
		}
		s.Pagination.Page = f.page - 1
	})
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if total := ctrl.Snapshot().TotalPages; f.page > 1 && f.page > total {
		return fmt.Errorf("page %d is out of range: the list has %d page(s)", f.page, total)
	}
	return nil
}

// userError turns API failures into the message a user should read.
func userError(err error) error {
	if err == nil || screens.IsValidation(err) {
		return err
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return errors.New(apiclient.UserMessage(err))
	}
	return err
}

// createExport opens name for writing, or a timestamped file when name is
// empty.
func createExport(name, prefix string) (*os.File, error) {
	if name == "" {
		name = export.Filename(prefix, time.Now())
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	return f, nil
}
