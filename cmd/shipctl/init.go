package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/shipctl/pkg/project"
	"github.com/jaspreet-dot-casa/shipctl/pkg/utils"
)

func newInitCmd() *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize shipctl with the bot project path",
		Long: `Initialize shipctl by setting the project path in ~/.config/shipctl/config.yaml.

The project path is the folder deploys run in. Without an argument, shipctl
walks up from the current directory looking for bot.py or shipctl.yaml.

Examples:
  shipctl init                 # Find the project from here
  shipctl init .               # Use current directory
  shipctl init ~/code/fc-bot   # Use absolute path
  shipctl init . --service fc-bot-staging`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, service)
		},
	}

	cmd.Flags().StringVarP(&service, "service", "s", "", "Railway service to deploy (default: keep the configured one)")

	return cmd
}

func runInit(cmd *cobra.Command, args []string, service string) error {
	out := cmd.OutOrStdout()

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		root, err := project.FindRoot()
		if err != nil {
			return fmt.Errorf("%w; pass the project path explicitly", err)
		}
		path = root
	}

	if path == "." {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	cfg, err := globalconfig.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.SetProjectPath(path); err != nil {
		return err
	}

	if service != "" {
		service = utils.SanitizeServiceName(service)
		if err := utils.ValidateServiceName(service); err != nil {
			return fmt.Errorf("invalid --service: %w", err)
		}
		cfg.Deploy.Service = service
	}

	info := project.Inspect(cfg.ProjectPath, cfg.Project.Markers)
	for _, m := range info.Missing() {
		fmt.Fprintf(out, "Warning: %s not found in %s\n", m.Path, cfg.ProjectPath)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := globalconfig.GetConfigPath()
	if err != nil {
		configPath = "~/.config/shipctl/config.yaml"
	}
	fmt.Fprintf(out, "Initialized shipctl with project path: %s\n", cfg.ProjectPath)
	fmt.Fprintf(out, "Deploy service: %s\n", cfg.Deploy.Service)
	fmt.Fprintf(out, "Config saved to: %s\n", configPath)

	return nil
}
