package cli

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/catalog"
	"github.com/badtechnologies/bpm/pkg/errors"
	"github.com/badtechnologies/bpm/pkg/portal"
)

func (c *CLI) searchCommand() *cobra.Command {
	var local, noCache bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the package library",
		Long: `Search packages by id, name or author.

By default the packages API at --api-url is queried. With --local the
package library (or the --catalog seed file) is read directly.`,
		Example: `  bpm search
  bpm search shell
  bpm search --local --catalog packages.toml bad`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			return c.runSearch(cmd.Context(), query, local, noCache)
		},
	}

	cmd.Flags().String(keyAPIURL, "", "packages API base URL")
	cmd.Flags().BoolVar(&local, "local", false, "search without a packages API")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass cached manifests")
	c.bindFlags(cmd)
	return cmd
}

func (c *CLI) runSearch(ctx context.Context, query string, local, noCache bool) error {
	fetcher, cleanup, err := c.searchFetcher(ctx, local, noCache)
	if err != nil {
		return err
	}
	defer cleanup()

	page := portal.NewPage(fetcher, query, portal.WithLogger(c.Logger))
	spinner := newSpinnerWithContext(ctx, c.errOut, portal.MsgLoading)
	spinner.Start()
	page.Mount(ctx)
	spinner.Stop()
	defer page.Unmount()

	c.printView(page.View())
	if st := page.Status(); st.Phase == portal.Failed {
		return st.Err
	}
	return nil
}

// searchFetcher returns the fetcher behind `bpm search`: the packages API,
// or with local an in-process catalog loaded on first use.
func (c *CLI) searchFetcher(ctx context.Context, local, noCache bool) (portal.Fetcher, func(), error) {
	if !local {
		apiURL := c.config().APIURL
		if err := errors.ValidateURL(apiURL); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid --api-url %q", apiURL)
		}
		return portal.NewHTTPFetcher(apiURL), func() {}, nil
	}

	load, cleanup, err := c.catalogLoader(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	cat := catalog.New(nil)
	var once sync.Once
	var loadErr error

	f := portal.FetcherFunc(func(ctx context.Context, path string) ([]bpl.Package, error) {
		query, err := portal.QueryFromRequestPath(path)
		if err != nil {
			return nil, err
		}
		once.Do(func() { loadErr = cat.Refresh(ctx, load) })
		if loadErr != nil {
			return nil, loadErr
		}
		return cat.Search(query), nil
	})
	return f, cleanup, nil
}

// catalogLoader loads the configured seed file, or the whole package
// library when no seed file is set.
func (c *CLI) catalogLoader(ctx context.Context, noCache bool) (catalog.Loader, func(), error) {
	if path := c.config().Catalog; path != "" {
		return func(context.Context) ([]bpl.Package, error) {
			return catalog.LoadFile(path)
		}, func() {}, nil
	}

	lib, cc, err := c.newLibrary(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	load := func(ctx context.Context) ([]bpl.Package, error) {
		return catalog.LoadRemote(ctx, lib, noCache, c.Logger)
	}
	return load, func() { cc.Close() }, nil
}
