package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/argmap/pkg/diagram"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/render"
	"github.com/matzehuels/argmap/pkg/viewport"
)

// Output formats supported by render.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output  string
	formats string
	expand  string
	selectN string
	hover   string
	width   float64
	height  float64
	minimap bool
	scale   float64
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: formatSVG, scale: 2}

	cmd := &cobra.Command{
		Use:   "render [payload.json]",
		Short: "Lay out an argument diagram and write it as SVG, PNG or PDF",
		Long: `Render reads a diagram payload (an AIF graph or a premise/conclusion tree),
lays it out and writes the picture that fits the whole diagram on the canvas.

Nodes listed in --expand are expanded in order before rendering, using the
configured argument source.`,
		Example: `  argmap render debate.json
  argmap render debate.json -f svg,png -o out/debate
  argmap render debate.json --expand RA:17,RA:23 --select I:3`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePayloads,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("minimap") {
				c.cfg.Canvas.Minimap = opts.minimap
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "comma-separated output formats: svg, png, pdf")
	cmd.Flags().StringVar(&opts.expand, "expand", "", "comma-separated node ids to expand before rendering")
	cmd.Flags().StringVar(&opts.selectN, "select", "", "node id to draw as selected")
	cmd.Flags().StringVar(&opts.hover, "hover", "", "node id to draw as hovered")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height in pixels (default from config)")
	cmd.Flags().BoolVar(&opts.minimap, "minimap", true, "draw the minimap")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	ws, err := c.openDiagram(ctx, input, opts.noCache, func(o *diagram.Options) {
		o.Canvas = canvasFrom(o.Canvas, opts.width, opts.height)
	})
	if err != nil {
		return err
	}
	defer ws.Close()
	d := ws.diagram

	if err := c.expandAll(ctx, d, splitList(opts.expand)); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	d.RefreshSummaries(ctx)
	d.Select(opts.selectN)
	d.Hover(opts.hover)
	if d.Layout() == nil {
		printWarning("%s", render.PlaceholderMsg)
	}

	svg := d.SVG()
	base := basePath(opts.output, input)
	var written []string
	for _, f := range formats {
		data, err := convert(ctx, svg, f, opts.scale)
		if err != nil {
			return err
		}
		path := base + "." + f
		if err := writeFile(path, data); err != nil {
			return err
		}
		written = append(written, path)
	}

	g := d.Graph()
	strategy := ""
	if r := d.Layout(); r != nil {
		strategy = string(r.Strategy)
	}
	prog.done("Rendered "+filepath.Base(input), "nodes", d.Graph().NodeCount())
	printSuccess("Rendered %s", input)
	printStats(g, strategy)
	for _, p := range written {
		printFile(p)
	}
	return nil
}

// expandAll expands ids in order, stopping on a blocking notice.
func (c *CLI) expandAll(ctx context.Context, d *diagram.Diagram, ids []string) error {
	for _, id := range ids {
		spinner := newSpinnerWithContext(ctx, "Expanding "+id+"...")
		spinner.Start()
		n, ok := d.Expand(ctx, id)
		spinner.Stop()
		if spinner.Cancelled() {
			return ctx.Err()
		}
		if !ok {
			c.Logger.Debug("expanded", "node", id, "nodes", d.Graph().NodeCount())
			continue
		}
		logNotice(c.Logger, n)
		printNotice(n)
		if n.Level == errors.LevelBlocking {
			return errors.New(n.Code, "expand %s: %s", id, n.Message)
		}
	}
	return nil
}

func canvasFrom(base viewport.Canvas, width, height float64) viewport.Canvas {
	if width > 0 {
		base.Width = width
	}
	if height > 0 {
		base.Height = height
	}
	return base
}

func parseFormats(s string) ([]string, error) {
	formats := splitList(strings.ToLower(s))
	if len(formats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no output format given")
	}
	for _, f := range formats {
		switch f {
		case formatSVG, formatPNG, formatPDF:
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (must be svg, png or pdf)", f)
		}
	}
	return formats, nil
}

func convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case formatPNG:
		return render.ToPNG(ctx, svg, scale)
	case formatPDF:
		return render.ToPDF(ctx, svg)
	default:
		return svg, nil
	}
}

// basePath returns the output path without extension. With no output the
// input path is reused; a known extension on output is dropped.
func basePath(output, input string) string {
	p := output
	if p == "" {
		p = input
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".json", "." + formatSVG, "." + formatPNG, "." + formatPDF:
		return strings.TrimSuffix(p, filepath.Ext(p))
	}
	return p
}
