package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/errors"
)

func (c *CLI) removeCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "remove <package>...",
		Aliases:           []string{"rm", "uninstall"},
		Short:             "Remove installed packages",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeInstalled,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRemove(args, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *CLI) runRemove(ids []string, yes bool) error {
	c.printInfo("The following packages will be removed:")
	for _, id := range ids {
		c.printDetail("%s", id)
	}
	ok, err := c.confirm("Proceed with removal?", yes)
	if err != nil {
		return err
	}
	if !ok {
		c.printInfo("Removal cancelled")
		return nil
	}

	for _, r := range bpl.Remove(c.config().ExecDir, ids) {
		switch {
		case r.Err == nil:
			c.printSuccess("Removed %s", r.ID)
		case stderrors.Is(r.Err, bpl.ErrNotInstalled):
			c.printWarning("%s: Could not find package, skipping", r.ID)
		default:
			c.printError("Could not remove %s: %s", r.ID, errors.UserMessage(r.Err))
		}
	}
	return nil
}
