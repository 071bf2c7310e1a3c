package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/globalconfig"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Loading performs a pending migration; note where the values came from.
			migrating, err := globalconfig.NeedsMigration()
			if err != nil {
				return err
			}

			cfg, err := globalconfig.LoadOrCreate()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}

			if path, err := globalconfig.GetConfigPath(); err == nil {
				fmt.Fprintf(out, "# %s\n", path)
			}
			if migrating {
				fmt.Fprintf(out, "# imported from %s\n", globalconfig.LegacySettingsFileName)
			}
			_, err = out.Write(data)
			return err
		},
	}
}
