package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/errors"
)

func (c *CLI) installCommand() *cobra.Command {
	var yes, noCache bool

	cmd := &cobra.Command{
		Use:     "install <package>...",
		Aliases: []string{"i"},
		Short:   "Install packages and their requirements",
		Long: `Install packages from the package library into the exec directory.

Requirements are resolved level by level, so installing a package also
installs everything it requires. Packages that cannot be found are reported
and skipped.`,
		Example: `  bpm install hello
  bpm install -y hello bdsh-utils`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInstall(cmd.Context(), args, yes, noCache)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass cached manifests")
	return cmd
}

func (c *CLI) runInstall(ctx context.Context, ids []string, yes, noCache bool) error {
	lib, cc, err := c.newLibrary(ctx, noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	spinner := newSpinnerWithContext(ctx, c.errOut, "Resolving packages...")
	spinner.Start()
	prog := newProgress(c.Logger)
	res, err := bpl.NewResolver(lib.Source(noCache), c.Logger).Resolve(ctx, ids)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d packages", len(res.Packages)))

	for _, f := range res.Failures {
		c.printWarning("%s, skipping", failureMessage(f))
	}
	if len(res.Packages) == 0 {
		c.printInfo("Nothing to install")
		return nil
	}

	c.printInfo("The following packages will be installed:")
	for _, p := range res.Packages {
		c.printDetail("%s by %s", p.Label(), p.Author)
	}
	ok, err := c.confirm("Proceed with installation?", yes)
	if err != nil {
		return err
	}
	if !ok {
		c.printInfo("Installation cancelled")
		return nil
	}

	dir := c.config().ExecDir
	installer := &bpl.Installer{Dir: dir, Source: lib, Logger: c.Logger}
	results, err := installer.Install(ctx, res.Packages)
	if err != nil {
		return err
	}

	installed := 0
	for _, r := range results {
		switch r.Status {
		case bpl.StatusInstalled:
			installed++
			c.printSuccess("Installed %s", r.Package.Label())
			c.printFile(r.Path)
		case bpl.StatusNoBinary:
			c.printDetail("%s has no binary, skipping", r.Package.Label())
		case bpl.StatusFailed:
			c.printError("Could not install %s: %s", r.Package.Label(), errors.UserMessage(r.Err))
		}
	}
	c.printInfo("%d of %d packages installed into %s", installed, len(results), dir)
	return nil
}

func failureMessage(f bpl.Failure) string {
	if errors.Is(f.Err, errors.ErrCodePackageNotFound) {
		return errors.UserMessage(f.Err)
	}
	return fmt.Sprintf("%s: %s", f.ID, errors.UserMessage(f.Err))
}
