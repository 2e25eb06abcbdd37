package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/pipeline"
)

// renderFlags holds the command-line flags shared by render and export.
type renderFlags struct {
	output    string
	dataset   string
	search    string
	nodeTypes string
	edgeTypes string
	formats   string
	width     float64
	height    float64
	focus     string
	shape     string
	spread    bool
	labels    bool
	scale     float64
	detailed  bool
	noCache   bool
	refresh   bool
}

// bindFilterFlags registers the filter and layout flags on cmd.
func (f *renderFlags) bindFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "dataset id recorded in exports (default: input file name)")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "keep nodes whose label or id contains this text")
	cmd.Flags().StringVar(&f.nodeTypes, "node-types", "", "entity types to keep (comma-separated)")
	cmd.Flags().StringVar(&f.edgeTypes, "edge-types", "", "relation types to keep (comma-separated)")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "canvas width")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "canvas height")
	cmd.Flags().StringVar(&f.focus, "focus", "", "expand the neighborhood of this node id")
	cmd.Flags().StringVar(&f.shape, "shape", "", "focus shape: circle (default), left-arrow, right-arrow, follow-line")
	cmd.Flags().BoolVar(&f.spread, "spread", false, "spread connected nodes across the canvas")
}

// options converts flags into pipeline options.
func (f *renderFlags) options(input string) pipeline.Options {
	dataset := f.dataset
	if dataset == "" && input != "" {
		dataset = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return pipeline.Options{
		Dataset:   dataset,
		Search:    f.search,
		NodeTypes: parseList(f.nodeTypes),
		EdgeTypes: parseList(f.edgeTypes),
		Width:     f.width,
		Height:    f.height,
		Focus:     f.focus,
		Shape:     f.shape,
		Spread:    f.spread,
		Formats:   parseFormats(f.formats),
		Labels:    f.labels,
		Scale:     f.scale,
		Detailed:  f.detailed,
		Refresh:   f.refresh,
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{labels: true, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a knowledge-graph snapshot",
		Long: `Render filters and lays out a knowledge-graph snapshot and draws it.

Output formats: svg (default), png, pdf, json, dot, graphviz.
With several formats, --output is treated as a base path and each
format gets its own extension.`,
		Example: `  # Render an SVG next to the input
  kgviz render graph.json

  # Only authors and brands mentioning "acme", as SVG and PNG
  kgviz render graph.json -s acme --node-types author,brand -f svg,png -o out/acme

  # Expand a node's neighborhood into a left arrow
  kgviz render graph.json --focus author:alice --shape left-arrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(args[0])
			c.applyConfig(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], flags, opts)
		},
	}

	flags.bindFilterFlags(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot, graphviz (comma-separated)")
	cmd.Flags().BoolVar(&flags.labels, "labels", flags.labels, "draw node labels")
	cmd.Flags().Float64Var(&flags.scale, "scale", flags.scale, "PNG pixel ratio")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "label DOT edges with their relation type")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render even when cached artifacts exist")

	return cmd
}

// runRender loads input, runs the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, flags renderFlags, opts pipeline.Options) error {
	data, err := loadGraph(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded graph", "path", input, "nodes", data.NodeCount(), "edges", data.EdgeCount())

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, data, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, flags.output, input)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(paths)))

	printSuccess("Rendered %s", input)
	for _, p := range paths {
		printFile(p)
	}
	nodes, edges, isolated := result.Scene.Counts()
	printStats(nodes, edges, isolated, result.CacheInfo.RenderHit)
	if result.Stats.Filter.DroppedNodes > 0 {
		printDetail("%d of %d nodes filtered out in %s",
			result.Stats.Filter.DroppedNodes, result.Stats.NodesIn,
			result.Stats.FilterTime.Round(time.Microsecond))
	}
	printNextStep("Explore interactively", appName+" explore "+input)
	return nil
}

// loadGraph reads a snapshot and rejects structurally invalid data.
func loadGraph(path string) (graph.Data, error) {
	data, err := graph.ReadFile(path)
	if err != nil {
		return graph.Data{}, err
	}
	if err := graph.Validate(data); err != nil {
		return graph.Data{}, err
	}
	return data, nil
}

// writeArtifacts writes one file per format and returns the paths written
// in format order. A single format with an explicit output path is written
// to that path verbatim.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	if len(formats) == 1 && output != "" && !strings.HasSuffix(output, string(os.PathSeparator)) {
		data, ok := artifacts[formats[0]]
		if !ok {
			return nil, fmt.Errorf("missing %s artifact", formats[0])
		}
		if err := writeFile(output, data); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("missing %s artifact", format)
		}
		path := base + pipeline.Extension(format)
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
// An output ending in a path separator names a directory for the input's stem.
func basePath(output, input string) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	if output == "" {
		return stem
	}
	if strings.HasSuffix(output, string(os.PathSeparator)) {
		return filepath.Join(output, filepath.Base(stem))
	}
	if strings.HasSuffix(output, pipeline.Extension(pipeline.FormatGraphviz)) {
		return strings.TrimSuffix(output, pipeline.Extension(pipeline.FormatGraphviz))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
