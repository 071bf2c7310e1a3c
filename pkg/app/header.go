package app

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const headerHeight = 3

// Title is shown at the left of the header.
const Title = "shipctl"

var (
	headerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	titleStyle = AccentStyle.Bold(true).Padding(0, 1)

	tabStyle       = DimStyle.Padding(0, 1)
	activeTabStyle = SelectedRowStyle.Foreground(lipgloss.Color("39")).Padding(0, 1)
)

// headerInfo is what the header shows besides the tabs.
type headerInfo struct {
	projectDir string
	running    bool
}

// renderHeader draws "shipctl  1 Project  2 History  3 Doctor ... fc-bot".
// The right side turns into a run indicator while a tool is running.
func renderHeader(tabs []Tab, active, width int, info headerInfo) string {
	labels := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		meta := tab.Meta()
		label := meta.Key + " " + meta.Name
		if i == active {
			labels = append(labels, activeTabStyle.Render(label))
		} else {
			labels = append(labels, tabStyle.Render(label))
		}
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render(Title), " ", strings.Join(labels, " "))

	var right string
	switch {
	case info.running:
		right = WarningStyle.Render("● running")
	case info.projectDir != "":
		right = DimStyle.Render(filepath.Base(info.projectDir))
	default:
		right = ErrorStyle.Render("not initialized")
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return headerBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
