package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/app"
	doctorview "github.com/jaspreet-dot-casa/shipctl/pkg/app/views/doctor"
	historyview "github.com/jaspreet-dot-casa/shipctl/pkg/app/views/history"
	projectview "github.com/jaspreet-dot-casa/shipctl/pkg/app/views/project"
)

func newPanelCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Open the full-screen deploy and build panel",
		Long: `Open a full-screen panel with three tabs:

  1 Project  folder contents, [d] deploy, [b] build, live tool output
  2 History  recent runs
  3 Doctor   tool checks and installs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel(root)
		},
	}
}

func runPanel(root *rootOptions) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	defer s.Close()

	projectTab := projectview.New(s.svc, s.store)
	m := app.New(s.svc.Config().ProjectPath).WithTabs(
		projectTab,
		historyview.New(s.store),
		doctorview.New(),
	)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	projectTab.Shutdown()
	if err != nil {
		return fmt.Errorf("panel error: %w", err)
	}
	return nil
}
