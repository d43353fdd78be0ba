package mapsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutalocal/planner-api/internal/types"
)

func TestStateEngineSnapshot(t *testing.T) {
	engine := NewStateEngine()
	layer := NewLayer(engine, testConfig, testLogger())
	layer.EngineReady()

	a := routeItem("A", "cafe", -33.4372, -70.6506)
	b := routeItem("B", "park", -33.4330, -70.6100)
	layer.Reconcile([]types.RouteItem{a, b})

	state := engine.Snapshot()
	require.Len(t, state.Markers, 2)
	assert.Equal(t, 1, state.Markers[0].Label)
	assert.Equal(t, 2, state.Markers[1].Label)
	assert.Len(t, state.Line, 2)
	assert.Equal(t, ViewFitBounds, state.ViewKind)
	require.NotNil(t, state.Region)
	assert.Equal(t, testConfig.FitPadding, state.Padding)

	// Reorder swaps labels but keeps both markers.
	layer.Reconcile([]types.RouteItem{b, a})
	state = engine.Snapshot()
	require.Len(t, state.Markers, 2)
	assert.Equal(t, "B", firstWord(state.Markers[0].Popup))
}

func TestStateEngineEmptyView(t *testing.T) {
	engine := NewStateEngine()
	layer := NewLayer(engine, testConfig, testLogger())
	layer.EngineReady()

	layer.Reconcile(nil)
	state := engine.Snapshot()
	assert.Empty(t, state.Markers)
	assert.Empty(t, state.Line)
	assert.Equal(t, ViewCenter, state.ViewKind)
	require.NotNil(t, state.Center)
	assert.Equal(t, testConfig.DefaultCenter, *state.Center)
	assert.Equal(t, testConfig.DefaultZoom, state.Zoom)
}

func firstWord(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i]
		}
	}
	return s
}
