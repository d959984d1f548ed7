package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/pkg/graph"
	"github.com/kintreehq/kintree/pkg/pipeline"
)

// layoutCommand creates the layout command for computing tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		collapsed string
		noCache   bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json|tree.ged]",
		Short: "Compute box positions for a family tree",
		Long: `Compute box positions for a family tree.

The layout command reads a tree file (JSON, or GEDCOM by extension) and
computes a position for every visible person: one generation per row,
married partners adjacent, the eldest sibling leftmost, and no
overlapping boxes. The output is a layout.json file that can be turned
into an image with 'kintree render'.

Persons listed with --collapsed keep their box but hide all of their
descendants.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, collapsed, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&collapsed, "collapsed", "", "comma-separated person IDs whose descendants are hidden")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output, collapsed string, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	opts := pipeline.Options{
		TreePath:  input,
		Collapsed: parseCollapsed(collapsed),
		Refresh:   refresh,
		Logger:    loggerFromContext(ctx),
	}

	tree, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(tree.Persons), len(l.Positions), cacheHit)
	printNewline()
	printNextStep("Render", "kintree render "+input)

	return nil
}
