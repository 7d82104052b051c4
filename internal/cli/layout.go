package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/errors"
)

// layoutOpts holds the flags of the layout command.
type layoutOpts struct {
	output  string
	expand  string
	graph   bool
	noCache bool
}

// layoutCommand creates the layout command, which writes positions instead
// of a picture.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [payload.json]",
		Short: "Compute node positions and edge routes as JSON",
		Long: `Layout runs the layout for a diagram payload and writes the result
(node boxes, edge routes and, for trees, the layer assignment) as JSON.

With --graph the merged graph is written next to it, which is useful after
--expand to capture the neighborhoods that were fetched.`,
		Example: `  argmap layout debate.json
  argmap layout debate.json --expand RA:17 --graph -o out/debate`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePayloads,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().StringVar(&opts.expand, "expand", "", "comma-separated node ids to expand first")
	cmd.Flags().BoolVar(&opts.graph, "graph", false, "also write the merged graph")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	ws, err := c.openDiagram(ctx, input, opts.noCache, nil)
	spinner.Stop()
	if err != nil {
		return err
	}
	defer ws.Close()
	d := ws.diagram

	if err := c.expandAll(ctx, d, splitList(opts.expand)); err != nil {
		return err
	}

	r := d.Layout()
	if r == nil {
		if n, ok := d.Notice(); ok {
			return errors.New(errors.ErrCodeLayout, "%s", n.Message)
		}
		return errors.New(errors.ErrCodeLayout, "no layout available")
	}

	base := basePath(opts.output, input)
	layoutPath := base + ".layout.json"
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(layoutPath, data); err != nil {
		return err
	}

	printSuccess("Layout computed")
	printStats(d.Graph(), string(r.Strategy))
	printFile(layoutPath)

	if opts.graph {
		graphPath := base + ".graph.json"
		data, err := argument.MarshalGraph(d.Graph())
		if err != nil {
			return err
		}
		if err := writeFile(graphPath, data); err != nil {
			return err
		}
		printFile(graphPath)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
