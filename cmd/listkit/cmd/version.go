package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func addVersion(topLevel *cobra.Command) {
	var (
		shortened = false
		output    = "yaml"
	)

	c := &cobra.Command{
		Use:   "version",
		Short: "Print the listkit version.",
		Example: `  listkit version
  listkit version -o json
  listkit version -s`,
		Run: func(c *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, output)
			fmt.Fprint(c.OutOrStdout(), resp)
		},
	}

	c.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	c.Flags().StringVarP(&output, "output", "o", "yaml", "Output format. One of 'yaml' or 'json'.")

	topLevel.AddCommand(c)
}
