package main

import (
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/ops"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var o ops.BuildOverrides

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Package the admin panel into one executable",
		Long: `Run "pyinstaller --onefile --noconsole cheshire_admin_gui.py".

PyInstaller is probed first; if the probe fails it is installed with pip.
A failed install is reported and the build is attempted anyway. The build
runs in the configured project folder, or the current directory when
shipctl has not been initialized.

Examples:
  shipctl build
  shipctl build --console
  shipctl build --source tools/other_gui.py --skip-install`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, root, o)
		},
	}

	cmd.Flags().StringVarP(&o.Dir, "dir", "d", "", "Folder containing the source (default: configured project_path)")
	cmd.Flags().StringVar(&o.Source, "source", "", "Script to package")
	cmd.Flags().BoolVar(&o.Console, "console", false, "Keep the console window (omit --noconsole)")
	cmd.Flags().BoolVar(&o.SkipInstall, "skip-install", false, "Never install the packaging tool")

	return cmd
}

func runBuild(cmd *cobra.Command, root *rootOptions, o ops.BuildOverrides) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.svc.Build(cmd.Context(), s.svc.BuildOptions(o), printEvents(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err != nil {
		return exitWith(ExitError)
	}
	return exitWith(s.svc.ExitCode(res.Err()))
}
