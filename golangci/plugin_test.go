package golangci

import (
	"testing"

	"github.com/golangci/plugin-module-register/register"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginBuildsAnalyzer(t *testing.T) {
	p, err := New(map[string]any{"stale": true, "suffix": ".gen.go"})
	require.NoError(t, err)

	plugin := p.(*Plugin)
	assert.True(t, plugin.settings.Stale)
	assert.Equal(t, ".gen.go", plugin.settings.Suffix)

	analyzers, err := p.BuildAnalyzers()
	require.NoError(t, err)
	require.Len(t, analyzers, 1)
	assert.Equal(t, "errgen", analyzers[0].Name)
	assert.Equal(t, register.LoadModeSyntax, p.GetLoadMode())
}

func TestPluginNilSettings(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, Settings{}, p.(*Plugin).settings)
}
