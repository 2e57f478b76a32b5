// Package cmd implements the listkit CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (diff, replay, ui, version). Every
// subcommand works on a scenario file: the YAML document understood by
// pkg/listtest, holding an old and a new sectioned-list state with stable
// row identifiers.
package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// New constructs the root command with every subcommand attached.
func New() *cobra.Command {
	var noColor bool

	topLevel := &cobra.Command{
		Use:   "listkit",
		Short: "Inspect, verify, and replay sectioned-list update scripts.",
		Long: `listkit computes the operation script that carries one sectioned-list
state to another: section inserts, deletes, and moves, row edits, paired
row moves, and in-place refreshes, emitted in the order a display surface
must apply them.

Scenario files are YAML documents holding an old and a new state; rows
carry stable identifiers so edits and moves can be told apart. See the
pkg/listtest package for the format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if viper.GetBool("no-color") {
				color.NoColor = true
			}
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}

	topLevel.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output.")

	viper.SetEnvPrefix("LISTKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("no-color", topLevel.PersistentFlags().Lookup("no-color"))

	addDiff(topLevel)
	addReplay(topLevel)
	addUI(topLevel)
	addVersion(topLevel)

	return topLevel
}

// scenarioPath resolves the scenario file for a subcommand: the --file flag
// wins, then the LISTKIT_SCENARIO environment variable.
func scenarioPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := viper.GetString("scenario"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no scenario file given: pass --file or set LISTKIT_SCENARIO")
}
