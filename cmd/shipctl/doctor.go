package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/doctor"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the deploy and build tools are installed",
		Long: `Check for the Railway CLI, Python, pip and PyInstaller.

With --fix, the platform install command of every missing tool is run and
the checks are repeated. Exits 1 while a tool is still missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, doctor.NewChecker(), doctor.NewFixer(), fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Install missing tools")

	return cmd
}

func runDoctor(cmd *cobra.Command, checker *doctor.Checker, fixer *doctor.Fixer, fix bool) error {
	out := cmd.OutOrStdout()
	groups := checker.CheckAllAsync(cmd.Context())
	printGroups(out, groups)

	if fix {
		fixable := doctor.Fixable(groups)
		for _, check := range fixable {
			fmt.Fprintf(out, "\n==> %s: %s\n    %s\n", check.Name, check.FixCommand.Description, check.FixCommand.Command)
			err := fixer.RunFix(cmd.Context(), check.FixCommand, func(line string) {
				fmt.Fprintf(out, "    %s\n", line)
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Fix for %s failed: %v\n", check.Name, err)
			}
		}
		if len(fixable) > 0 {
			fmt.Fprintln(out)
			groups = checker.CheckAllAsync(cmd.Context())
			printGroups(out, groups)
		}
	}

	summary := doctor.GetSummary(groups)
	fmt.Fprintf(out, "\n%d/%d tools ready.\n", summary.OK, summary.Total)
	if doctor.HasIssues(groups) {
		if !fix && len(doctor.Fixable(groups)) > 0 {
			fmt.Fprintln(out, "Run 'shipctl doctor --fix' to install the missing tools.")
		}
		return exitWith(ExitError)
	}
	return nil
}

func printGroups(w io.Writer, groups []doctor.CheckGroup) {
	for _, group := range groups {
		fmt.Fprintf(w, "%s\n", group.Name)
		for _, check := range group.Checks {
			fmt.Fprintf(w, "  %s %-12s %s\n", check.Status.Mark(), check.Name, check.Message)
		}
	}
}
