package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/go-drift/listkit/pkg/diff"
	"github.com/go-drift/listkit/pkg/listtest"
	"github.com/go-drift/listkit/pkg/section"
)

// diffOptions holds the flags for the diff subcommand.
type diffOptions struct {
	File    string
	Unified bool
	Summary bool
}

func addDiff(topLevel *cobra.Command) {
	opts := &diffOptions{}

	c := &cobra.Command{
		Use:   "diff",
		Short: "Print the operation script between a scenario's two states.",
		Example: `  listkit diff -f scenario.yaml
  listkit diff -f scenario.yaml --unified
  listkit diff -f scenario.yaml --summary`,
		RunE: func(c *cobra.Command, _ []string) error {
			return runDiff(c, opts)
		},
	}

	c.Flags().StringVarP(&opts.File, "file", "f", "", "Path to the scenario YAML file.")
	c.Flags().BoolVar(&opts.Unified, "unified", false, "Also print a unified diff of the rendered states.")
	c.Flags().BoolVar(&opts.Summary, "summary", false, "Also print a per-effect operation count table.")

	topLevel.AddCommand(c)
}

func runDiff(c *cobra.Command, opts *diffOptions) error {
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
	ops := diff.Compute(prev, next)

	w := c.OutOrStdout()
	_, _ = color.New(color.Bold, color.Underline).Fprintln(w, sc.Name)
	if sc.Description != "" {
		_, _ = color.New(color.Faint).Fprintln(w, sc.Description)
	}
	fmt.Fprintln(w)

	if len(ops) == 0 {
		_, _ = color.New(color.Faint).Fprintln(w, "states already agree; nothing to apply")
	} else {
		printScript(w, ops)
	}

	if opts.Summary {
		fmt.Fprintln(w)
		printSummary(w, ops)
	}
	if opts.Unified {
		fmt.Fprintln(w)
		if err := printUnified(w, prev, next); err != nil {
			return err
		}
	}
	return nil
}

var (
	deleteColor  = color.New(color.FgRed)
	insertColor  = color.New(color.FgGreen)
	moveColor    = color.New(color.FgYellow)
	refreshColor = color.New(color.FgCyan)
)

// opColor picks the display color for an operation. Move halves render in
// the move color regardless of whether they delete or insert.
func opColor(op diff.Op[string]) *color.Color {
	if op.Reason.Kind == diff.ReasonMove {
		return moveColor
	}
	switch op.Kind {
	case diff.OpSectionDelete, diff.OpRowDelete:
		return deleteColor
	case diff.OpSectionInsert, diff.OpRowInsert:
		return insertColor
	case diff.OpSectionMove:
		return moveColor
	default:
		return refreshColor
	}
}

func printScript(w io.Writer, ops []diff.Op[string]) {
	for _, op := range ops {
		_, _ = opColor(op).Fprintln(w, op.String())
	}
}

func printSummary(w io.Writer, ops []diff.Op[string]) {
	stats := diff.Tally(ops)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("EFFECT", "COUNT")
	for _, row := range []struct {
		effect string
		count  int
	}{
		{"section deletes", stats.SectionDeletes},
		{"section inserts", stats.SectionInserts},
		{"section moves", stats.SectionMoves},
		{"row deletes", stats.RowDeletes},
		{"row inserts", stats.RowInserts},
		{"row moves", stats.RowMoves},
		{"row refreshes", stats.RowRefreshes},
		{"header refreshes", stats.HeaderRefreshes},
		{"footer refreshes", stats.FooterRefreshes},
	} {
		if row.count == 0 {
			continue
		}
		tbl.AddRow(row.effect, strconv.Itoa(row.count))
	}
	tbl.AddRow("total", strconv.Itoa(stats.Total()))

	fmt.Fprintln(w, tbl)
}

// printUnified renders both states as text and prints a unified diff, the
// way one would eyeball two directory listings.
func printUnified(w io.Writer, prev, next section.Snapshot[string]) error {
	unified := difflib.UnifiedDiff{
		A:        difflib.SplitLines(diff.StateOf(prev).String()),
		B:        difflib.SplitLines(diff.StateOf(next).String()),
		FromFile: "old",
		ToFile:   "new",
		Context:  3,
	}
	body, err := difflib.GetUnifiedDiffString(unified)
	if err != nil {
		return fmt.Errorf("render unified diff: %w", err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			_, _ = insertColor.Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			_, _ = deleteColor.Fprintln(w, line)
		case strings.HasPrefix(line, "@@"):
			_, _ = refreshColor.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
	return nil
}
