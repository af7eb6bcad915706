package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/forgo/vidgram/internal/model"
	"github.com/forgo/vidgram/internal/service"
)

// pageOptions controls how much of a collection a command loads
type pageOptions struct {
	pages int
	all   bool
}

func (o *pageOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.pages, "pages", 1, "Number of pages to load")
	cmd.Flags().BoolVar(&o.all, "all", false, "Load every page")
	cmd.MarkFlagsMutuallyExclusive("pages", "all")
}

func (o *pageOptions) validate() error {
	if !o.all && o.pages < 1 {
		return fmt.Errorf("%w: --pages must be at least 1, got %d", model.ErrValidationFailed, o.pages)
	}
	return nil
}

// collectionView is the JSON shape of a listed collection
type collectionView struct {
	Items     []model.AnnotatedItem `json:"items"`
	Offset    int                   `json:"offset"`
	Exhausted bool                  `json:"exhausted"`
}

// loadPages pages through loader until the requested page count or the end
func loadPages(ctx context.Context, a *app, loader *service.Loader, opts pageOptions) (service.LoadResult, error) {
	var res service.LoadResult
	for i := 0; opts.all || i < opts.pages; i++ {
		var err error
		res, err = loader.LoadNext(ctx, a.session, loader.Cursor())
		if err != nil {
			return res, err
		}
		if res.Exhausted {
			break
		}
	}
	return res, nil
}

// listCollection loads a collection and prints it with the viewer's relationships
func listCollection(ctx context.Context, cmd *cobra.Command, a *app, newLoader func(viewerID string) *service.Loader, opts pageOptions) error {
	viewer, err := a.viewer()
	if err != nil {
		return err
	}

	res, err := loadPages(ctx, a, newLoader(viewer.ID), opts)
	if err != nil {
		return err
	}
	if err := a.tracker.Reconcile(ctx, a.session); err != nil {
		a.logger.Warn("relationships unavailable", slog.String("error", err.Error()))
	}
	items := a.tracker.Annotate(res.Items)

	if isJSON(cmd) {
		return printJSON(a.out, collectionView{Items: items, Offset: res.Cursor.Offset, Exhausted: res.Exhausted})
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rel := string(it.Relationship)
		if it.IsSelf {
			rel = "you"
		}
		rows = append(rows, []string{it.ID, it.Name, string(it.Visibility), rel})
	}
	if err := printTable(a.out, []string{"ID", "NAME", "ACCOUNT", "RELATIONSHIP"}, rows); err != nil {
		return err
	}
	if !res.Exhausted {
		_, err = fmt.Fprintf(cmd.ErrOrStderr(), "More available: rerun with --pages %d or --all\n", opts.pages+1)
	}
	return err
}

func newUsersCmd(a *app) *cobra.Command {
	var opts pageOptions

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the user directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return a.run(cmd.Context(), func(ctx context.Context) error {
				return listCollection(ctx, cmd, a, func(string) *service.Loader {
					return service.NewUsersLoader(a.api, service.LoaderConfig{PageSize: a.cfg.Paging.PageSize, Logger: a.logger})
				}, opts)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newFollowersCmd(a *app) *cobra.Command {
	var opts pageOptions

	cmd := &cobra.Command{
		Use:   "followers [user-id]",
		Short: "List a user's followers (yours by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return a.run(cmd.Context(), func(ctx context.Context) error {
				return listCollection(ctx, cmd, a, func(viewerID string) *service.Loader {
					return service.NewFollowersLoader(a.api, ownerArg(args, viewerID), service.LoaderConfig{PageSize: a.cfg.Paging.PageSize, Logger: a.logger})
				}, opts)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newFollowingCmd(a *app) *cobra.Command {
	var opts pageOptions

	cmd := &cobra.Command{
		Use:   "following [user-id]",
		Short: "List the users a user follows (you by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return a.run(cmd.Context(), func(ctx context.Context) error {
				return listCollection(ctx, cmd, a, func(viewerID string) *service.Loader {
					return service.NewFollowingLoader(a.api, ownerArg(args, viewerID), service.LoaderConfig{PageSize: a.cfg.Paging.PageSize, Logger: a.logger})
				}, opts)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func ownerArg(args []string, viewerID string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return viewerID
}
