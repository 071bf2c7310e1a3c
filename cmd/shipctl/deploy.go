package main

import (
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/ops"
)

func newDeployCmd(root *rootOptions) *cobra.Command {
	var o ops.DeployOverrides

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the bot with the Railway CLI",
		Long: `Enter the project folder and run "railway up --service <name>".

The project's .env file is loaded into the CLI's environment. When the CLI
exits non-zero shipctl exits with the same code, unless
deploy.propagate_exit_code is false in the config.

Examples:
  shipctl deploy
  shipctl deploy --service fc-bot-staging
  shipctl deploy --dir ~/code/fc-bot --env-file .env.staging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, root, o)
		},
	}

	cmd.Flags().StringVarP(&o.Dir, "dir", "d", "", "Project folder (default: configured project_path)")
	cmd.Flags().StringVarP(&o.Service, "service", "s", "", "Service name to deploy")
	cmd.Flags().StringVar(&o.CLI, "cli", "", "Deployment CLI executable")
	cmd.Flags().StringVar(&o.EnvFile, "env-file", "", "Env file loaded into the CLI's environment")

	return cmd
}

func runDeploy(cmd *cobra.Command, root *rootOptions, o ops.DeployOverrides) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	defer s.Close()

	opts, err := s.svc.DeployOptions(o)
	if err != nil {
		return err
	}

	res, err := s.svc.Deploy(cmd.Context(), opts, printEvents(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err != nil {
		// The failure has been printed as a progress event.
		return exitWith(ExitError)
	}
	return exitWith(s.svc.ExitCode(res.Err()))
}
