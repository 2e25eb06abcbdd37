package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgviz/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Show prints the defaults merged with --config, suitable as a starting
point for a config file:

  kgviz config show > kgviz.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(cmd.OutOrStdout(), c.cfg)
		},
	})
	return cmd
}
