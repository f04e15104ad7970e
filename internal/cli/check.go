package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitbump/pkg/pipeline"
	"github.com/matzehuels/gitbump/pkg/update"
)

// checkCommand creates the check command, which reports available updates
// without installing anything.
func (c *CLI) checkCommand(flags *runFlags) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "check [dependency...]",
		Short: "List git dependencies with a newer release tag",
		Long: `List git-pinned dependencies that have a newer release tag upstream.

With no arguments every dependency in package.json is checked.

Examples:
  gitbump check                       # Everything in package.json
  gitbump check widget gadget         # Only these two
  gitbump check --tag-source github   # List tags through the GitHub API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.resolve(cmd, flags, args)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(r.Result)
			}
			printResult(r.Result)
			if len(r.Updates) > 0 {
				printNewline()
				printNextStep("Install them with", "gitbump update")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	return cmd
}

// run is a finished resolution together with what produced it.
type run struct {
	*pipeline.Result
	runner   *pipeline.Runner
	settings *settings
}

// resolve loads settings and runs resolution behind a spinner.
func (c *CLI) resolve(cmd *cobra.Command, flags *runFlags, names []string) (*run, error) {
	ctx := cmd.Context()
	s, err := loadSettings(cmd, flags)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, s)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spinner *Spinner
	if logger.GetLevel() > LogDebug {
		spinner = newSpinner(ctx, os.Stderr, "Checking git dependencies...")
		spinner.Start()
	}
	res, err := runner.Resolve(ctx, names, s.dir, s.opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}

	prog.done("resolved dependencies")
	return &run{Result: res, runner: runner, settings: s}, nil
}

// jsonResult is the --json form of a pipeline.Result.
type jsonResult struct {
	RunID   string          `json:"run_id"`
	Updates []update.Update `json:"updates"`
	Current []string        `json:"current"`
	Skipped []string        `json:"skipped"`
	Failed  []jsonFailure   `json:"failed,omitempty"`
}

type jsonFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

func writeJSON(res *pipeline.Result) error {
	out := jsonResult{
		RunID:   res.RunID,
		Updates: res.Updates,
		Current: []string{},
		Skipped: []string{},
	}
	if out.Updates == nil {
		out.Updates = []update.Update{}
	}
	for _, s := range res.Current {
		out.Current = append(out.Current, s.Name)
	}
	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, s.Name)
	}
	for _, f := range res.Failed {
		out.Failed = append(out.Failed, jsonFailure{Name: f.Spec.Name, Error: f.Err.Error()})
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
