package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osduviz/schemagraph/pkg/graph"
	"github.com/osduviz/schemagraph/pkg/render"
)

// renderCommand creates the render command for exporting graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render an extracted graph as DOT, SVG, or PNG",
		Long: `Render an extracted graph as DOT, SVG, or PNG.

The render command takes a graph.json file and emits a Graphviz DOT
document, or renders it directly to SVG/PNG. Graphs that already carry
positions (from 'extract' or 'layout') keep them pinned in the output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], output, format, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include categories and property counts in labels")

	return cmd
}

func (c *CLI) runRender(input, output, format string, detailed bool) error {
	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}

	dot := render.ToDOT(g, render.Options{Detailed: detailed})

	var data []byte
	switch strings.ToLower(format) {
	case "dot":
		data = []byte(dot)
	case "svg":
		if data, err = render.RenderSVG(dot); err != nil {
			return err
		}
	case "png":
		if data, err = render.RenderPNG(dot); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want dot, svg, or png)", format)
	}

	if output == "" {
		output = strings.TrimSuffix(input, ".graph.json")
		output = strings.TrimSuffix(output, ".json") + "." + strings.ToLower(format)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}
	printSuccess("Wrote %s", output)
	return nil
}
