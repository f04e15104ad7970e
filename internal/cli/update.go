package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitbump/pkg/errors"
)

// updateOpts holds the flags of the update command.
type updateOpts struct {
	dryRun      bool
	interactive bool
}

// updateCommand creates the update command, which resolves and installs
// newer release tags in one npm invocation.
func (c *CLI) updateCommand(flags *runFlags) *cobra.Command {
	var opts updateOpts

	cmd := &cobra.Command{
		Use:   "update [dependency...]",
		Short: "Install the newest release tag of git dependencies",
		Long: `Resolve git-pinned dependencies and reinstall every one with a newer release
tag in a single package-manager call. Nothing is installed if any dependency
fails to resolve, unless --keep-going is set.

Examples:
  gitbump update                 # Update everything
  gitbump update widget          # Update one dependency
  gitbump update -i              # Pick updates interactively
  gitbump update --dry-run       # Show what would be installed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUpdate(cmd, flags, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "resolve only, do not install")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose which updates to install")
	return cmd
}

func (c *CLI) runUpdate(cmd *cobra.Command, flags *runFlags, opts updateOpts, names []string) error {
	r, err := c.resolve(cmd, flags, names)
	if err != nil {
		return err
	}

	for _, f := range r.Failed {
		printWarning("%s: %s", f.Spec.Name, errors.UserMessage(f.Err))
	}
	if len(r.Updates) == 0 {
		printSuccess("All %d git dependencies are up to date", len(r.Current))
		return nil
	}

	if opts.interactive {
		chosen, err := selectUpdates(r.Updates)
		if err != nil {
			return err
		}
		if len(chosen) == 0 {
			printInfo("Nothing selected")
			return nil
		}
		r.Updates = chosen
	}

	fmt.Fprintln(stdout, renderUpdates(r.Updates))
	if opts.dryRun {
		printInfo("Dry run, would install: %s", strings.Join(r.Locators(), " "))
		return nil
	}

	if err := r.runner.Install(cmd.Context(), r.settings.dir, r.Result); err != nil {
		return err
	}
	printSuccess("Installed %d updates", len(r.Updates))
	return nil
}
