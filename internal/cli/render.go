package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file path, or base path when multiple formats are requested
	formats   []string
	collapsed string
	showEdges bool // draw lineage and marriage connectors in the SVG
	detailed  bool // gender and birth year in DOT labels
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command for generating tree images.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		showEdges: true,
	}

	cmd := &cobra.Command{
		Use:   "render [tree.json|tree.ged]",
		Short: "Render a family tree to SVG, PNG, DOT, or JSON",
		Long: `Render a family tree to one or more output formats.

svg draws the computed layout directly: one box per person, lineage and
marriage connectors between them. png and dot hand the family graph to
Graphviz for a structural node-link view. json writes the raw layout.

Multiple formats can be produced in one run:

  kintree render family.ged -f svg,png,json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&formatsStr, "formats", "f", "svg", "comma-separated output formats: svg, png, dot, json")
	cmd.Flags().StringVar(&opts.collapsed, "collapsed", "", "comma-separated person IDs whose descendants are hidden")
	cmd.Flags().BoolVar(&opts.showEdges, "edges", opts.showEdges, "draw lineage and marriage connectors (svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include gender and birth year in node labels (dot, png)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		TreePath:  input,
		Collapsed: parseCollapsed(opts.collapsed),
		Formats:   opts.formats,
		ShowEdges: opts.showEdges,
		Detailed:  opts.detailed,
		Refresh:   opts.refresh,
		Logger:    loggerFromContext(ctx),
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Render complete")
	for _, format := range opts.formats {
		path := outputPath(base, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.PersonCount, len(result.Layout.Positions), result.CacheInfo.RenderHit)

	return nil
}

// outputPath derives the output filename for a format. When a single
// format is requested and the base already carries the right extension,
// the base is used as-is.
func outputPath(base, format string, multi bool) string {
	ext := "." + format
	if !multi && strings.HasSuffix(base, ext) {
		return base
	}
	return base + ext
}
