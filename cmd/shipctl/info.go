package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/shipctl/pkg/project"
)

func newInfoCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show what is in the project folder",
		Long: `List the project files shipctl knows about (project.markers in the config)
and whether each is present.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := globalconfig.LoadOrCreate()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if dir == "" {
				dir = cfg.ProjectPath
			}
			if dir == "" {
				return globalconfig.ErrNotInitialized
			}

			info := project.Inspect(dir, cfg.Project.Markers)
			fmt.Fprint(cmd.OutOrStdout(), info.Render())
			if !info.Exists {
				return exitWith(ExitError)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Project folder (default: configured project_path)")

	return cmd
}
