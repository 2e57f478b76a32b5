package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/listkit/pkg/diff"
	"github.com/go-drift/listkit/pkg/listtest"
)

// replayOptions holds the flags for the replay subcommand.
type replayOptions struct {
	File  string
	Quiet bool
}

func addReplay(topLevel *cobra.Command) {
	opts := &replayOptions{}

	c := &cobra.Command{
		Use:   "replay",
		Short: "Verify that a scenario's script reproduces its new state.",
		Long: `Replay computes the operation script between the scenario's states,
applies it to the old state through the reference interpreter, and
checks that the result matches the new state exactly. A divergence
means the script, the interpreter, or the scenario is inconsistent.`,
		Example: `  listkit replay -f scenario.yaml
  listkit replay -f scenario.yaml --quiet`,
		RunE: func(c *cobra.Command, _ []string) error {
			return runReplay(c, opts)
		},
	}

	c.Flags().StringVarP(&opts.File, "file", "f", "", "Path to the scenario YAML file.")
	c.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress the script; print the verdict only.")

	topLevel.AddCommand(c)
}

func runReplay(c *cobra.Command, opts *replayOptions) error {
	path, err := scenarioPath(opts.File)
	if err != nil {
		return err
	}
	sc, err := listtest.LoadScenario(path)
	if err != nil {
		return err
	}
	prev, next, err := sc.Snapshots()
	if err != nil {
		return err
	}

	w := c.OutOrStdout()
	ops, err := listtest.CheckRoundTrip(prev, next)
	if err != nil {
		_, _ = deleteColor.Fprintf(w, "✗ %s: %v\n", sc.Name, err)
		return fmt.Errorf("replay diverged for scenario %q", sc.Name)
	}

	if !opts.Quiet && len(ops) > 0 {
		printScript(w, ops)
		fmt.Fprintln(w)
	}
	_, _ = insertColor.Fprintf(w, "✓ %s: %d operations verified\n", sc.Name, diff.Tally(ops).Total())
	return nil
}
