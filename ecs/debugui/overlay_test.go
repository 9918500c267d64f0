package debugui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firebitsbr/singularity/ecs"
	"github.com/firebitsbr/singularity/ecs/debugui"
)

func TestOverlayUIKeepsLatestOverlay(t *testing.T) {
	storage := ecs.NewStorage()
	ui := &debugui.OverlayUI{}
	assert.Nil(t, ui.Current())

	root, err := ui.BuildUI(storage)
	require.NoError(t, err)
	first := ui.Current()
	require.NotNil(t, first)
	assert.NotNil(t, first.Browser)
	assert.NotNil(t, first.Inspector)
	assert.NotNil(t, first.Performance)

	children := 0
	for id := range storage.Entities() {
		if parent := ecs.Get[ecs.Parent](storage, id); parent != nil && parent.Entity == root {
			children++
		}
	}
	assert.Equal(t, 3, children)

	require.NoError(t, ecs.DeleteSubtree(root, storage))
	_, err = ui.BuildUI(storage)
	require.NoError(t, err)
	assert.NotSame(t, first, ui.Current())
}
