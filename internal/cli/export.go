package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgviz/pkg/export"
)

// exportCommand creates the export command, which writes the JSON export
// document of the filtered, laid-out graph.
func (c *CLI) exportCommand() *cobra.Command {
	var flags renderFlags
	var dir string

	cmd := &cobra.Command{
		Use:   "export [graph.json]",
		Short: "Export the laid-out graph as JSON",
		Long: `Export filters and lays out a snapshot and writes
knowledge-graph-<dataset>.json with positions, counts and the applied query.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := flags.options(args[0])
			c.applyConfig(cmd, &opts)

			data, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			scene, err := runner.Layout(ctx, data, opts, nil)
			if err != nil {
				return err
			}
			path, err := export.ExportJSON(scene, export.Options{
				Dataset: opts.Dataset,
				Query:   opts.Query(),
				Width:   opts.Width,
				Height:  opts.Height,
				Stats:   data.Stats,
			}, dir)
			if err != nil {
				return err
			}

			nodes, edges, isolated := scene.Counts()
			printSuccess("Exported %s", args[0])
			printFile(path)
			printStats(nodes, edges, isolated, false)
			return nil
		},
	}

	flags.bindFilterFlags(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the export into")

	return cmd
}
