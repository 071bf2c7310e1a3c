package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	tabs := []Tab{
		newMockTab(TabProject, "Project", "1", ""),
		newMockTab(TabDoctor, "Doctor", "3", ""),
	}

	header := renderHeader(tabs, 0, 120, headerInfo{projectDir: "/srv/fc-bot"})

	assert.Contains(t, header, Title)
	assert.Contains(t, header, "1 Project")
	assert.Contains(t, header, "3 Doctor")
	assert.Contains(t, header, "fc-bot")
	assert.NotContains(t, header, "/srv")
}

func TestRenderHeader_States(t *testing.T) {
	running := renderHeader(nil, 0, 100, headerInfo{projectDir: "/srv/fc-bot", running: true})
	assert.Contains(t, running, "● running")
	assert.NotContains(t, running, "fc-bot")

	assert.Contains(t, renderHeader(nil, 0, 100, headerInfo{}), "not initialized")
}

func TestRenderHeader_Narrow(t *testing.T) {
	tabs := []Tab{newMockTab(TabProject, "Project", "1", "")}

	assert.NotPanics(t, func() { renderHeader(tabs, 0, 10, headerInfo{projectDir: "/x"}) })
}
