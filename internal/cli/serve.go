package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/badtechnologies/bpm/pkg/api"
	"github.com/badtechnologies/bpm/pkg/cache"
	"github.com/badtechnologies/bpm/pkg/catalog"
	"github.com/badtechnologies/bpm/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the packages API and portal",
		Long: `Serve the packages API (/api/packages) and the package portal (/packages).

The catalog is loaded from --catalog when set, otherwise from the package
library, and reloaded every --refresh interval.`,
		Example: `  bpm serve
  bpm serve --addr :9000 --catalog packages.toml
  BPM_CACHE=redis bpm serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), interval)
		},
	}

	cmd.Flags().String(keyAddr, "", "listen address")
	cmd.Flags().Bool(keyPretty, false, "indent rendered HTML")
	cmd.Flags().DurationVar(&interval, "refresh", 15*time.Minute, "catalog reload interval (0 disables)")
	c.bindFlags(cmd)
	return cmd
}

func (c *CLI) runServe(ctx context.Context, interval time.Duration) error {
	cfg := c.config()

	load, cleanup, err := c.catalogLoader(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	cat := catalog.New(nil)
	prog := newProgress(c.Logger)
	if err := cat.Refresh(ctx, load); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d packages", cat.Len()))
	if interval > 0 {
		go cat.Watch(ctx, interval, load, c.Logger)
	}

	searchCache, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer searchCache.Close()

	observability.LogHooks{Logger: c.Logger}.Install()
	defer observability.Reset()

	srv := api.New(api.Options{
		Catalog: cat,
		Cache:   searchCache,
		Keyer:   cache.NewScopedKeyer(nil, cfg.Repo+":"),
		Logger:  c.Logger,
		Pretty:  cfg.Pretty,
	})

	c.printSuccess("Serving %d packages on %s", cat.Len(), cfg.Addr)
	c.printNextStep("Open the portal", portalURL(cfg.Addr))
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func portalURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/packages"
}
