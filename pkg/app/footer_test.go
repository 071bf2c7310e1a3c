package app

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestGlobalBindings(t *testing.T) {
	bindings := GlobalBindings()

	var descs []string
	for _, b := range bindings {
		descs = append(descs, b.Help().Desc)
	}
	assert.Equal(t, []string{"tabs", "next tab", "quit"}, descs)
}

func TestHelpText(t *testing.T) {
	km := DefaultProjectKeyMap()

	text := HelpText([]key.Binding{km.Deploy, km.Rescan})
	assert.Contains(t, text, "d deploy")
	assert.Contains(t, text, "r rescan")

	assert.Equal(t, "", HelpText(nil))
}

func TestHelpText_SkipsDisabled(t *testing.T) {
	km := DefaultProjectKeyMap()
	km.Build.SetEnabled(false)

	text := HelpText([]key.Binding{km.Deploy, km.Build})
	assert.Contains(t, text, "deploy")
	assert.NotContains(t, text, "build")
}

func TestRenderFooter(t *testing.T) {
	km := DefaultProjectKeyMap()
	footer := renderFooter([]key.Binding{km.Deploy, km.Build}, 100)

	assert.Contains(t, footer, "deploy")
	assert.Contains(t, footer, "build")
	assert.Contains(t, footer, "1-3 tabs")
	assert.Contains(t, footer, "quit")
}

func TestRenderFooter_NoTabBindings(t *testing.T) {
	footer := renderFooter(nil, 100)

	assert.Contains(t, footer, "quit")
	assert.Contains(t, footer, "tabs")
}

func TestRenderQuitPrompt(t *testing.T) {
	prompt := renderQuitPrompt(100)

	assert.Contains(t, prompt, "A run is in progress.")
	assert.Contains(t, prompt, "q quit anyway")
}
