package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osduviz/schemagraph/pkg/graph"
	"github.com/osduviz/schemagraph/pkg/pipeline"
	"github.com/osduviz/schemagraph/pkg/schema"
)

// extractCommand creates the extract command for building graphs from schemas.
func (c *CLI) extractCommand() *cobra.Command {
	var (
		schemaDir string
		output    string
		filter    string
		legacy    bool
		noLayout  bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "extract [schema.json]",
		Short: "Extract a relationship graph from an OSDU schema",
		Long: `Extract a relationship graph from an OSDU schema.

The extract command reads one schema document and a directory of sibling
schemas (used to resolve $ref targets and related entities), and writes
the resulting node/edge graph as JSON.

By default the ERD view is built and node positions are computed. Use
--legacy for the flat per-kind view, or --no-layout to skip positioning.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd.Context(), args[0], schemaDir, output, filter, legacy, noLayout, noCache)
		},
	}

	cmd.Flags().StringVarP(&schemaDir, "schemas", "s", "", "directory of sibling schemas for reference resolution")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "case-insensitive property/relation display filter")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "build the flat per-kind view instead of the ERD view")
	cmd.Flags().BoolVar(&noLayout, "no-layout", false, "skip position assignment")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExtract(ctx context.Context, schemaPath, schemaDir, output, filter string, legacy, noLayout, noCache bool) error {
	doc, err := schema.LoadFile(schemaPath)
	if err != nil {
		return err
	}

	ix, err := c.loadIndex(schemaDir)
	if err != nil {
		return err
	}

	opts := pipeline.Defaults()
	opts.ERDView = !legacy
	opts.Filter = filter
	opts.Layout = !noLayout

	prog := newProgress(c.Logger)
	result, err := c.newRunner(noCache).Execute(ctx, doc, ix, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Extracted %d nodes, %d edges", len(result.Graph.Nodes), len(result.Graph.Edges)))

	if output == "" {
		output = strings.TrimSuffix(schemaPath, ".json") + ".graph.json"
	}
	if err := graph.WriteFile(result.Graph, output); err != nil {
		return err
	}
	printSuccess("Wrote %s", output)
	return nil
}

// loadIndex builds the schema index, tolerating an absent directory: an
// empty index just means every reference resolves to a ghost node.
func (c *CLI) loadIndex(dir string) (*schema.Index, error) {
	if dir == "" {
		c.Logger.Debug("no schema directory given, references will be unresolved")
		return schema.NewIndex(nil), nil
	}
	ix, err := schema.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded schema index", "dir", dir, "schemas", ix.Len())
	return ix, nil
}
