package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRulesDerivedConstants(t *testing.T) {
	cfg := Config{SlippageTicks: 0.5, CommissionPerSide: 1.25}

	es, err := buildRules("ES", cfg)
	require.NoError(t, err)
	assert.Equal(t, 50.0, es.Multiplier)
	assert.Equal(t, 12.50, es.TickValue)
	// 0.5 ticks * $12.50 / $50 per point = 0.125 points
	assert.InDelta(t, 0.125, es.SlippagePoints, 1e-9)
	assert.InDelta(t, 2.50, es.CommissionRoundTurn, 1e-9)

	nq, err := buildRules("NQ", cfg)
	require.NoError(t, err)
	assert.Equal(t, 20.0, nq.Multiplier)
	assert.InDelta(t, 0.125, nq.SlippagePoints, 1e-9)
}

func TestBuildRulesUnknownSymbol(t *testing.T) {
	_, err := buildRules("CL", Config{SlippageTicks: 0.5, CommissionPerSide: 1.25})
	require.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestAvailableAssetsStableOrder(t *testing.T) {
	assert.Equal(t, []string{"ES", "NQ"}, AvailableAssets())
	for _, symbol := range AvailableAssets() {
		if _, ok := assetCatalog[symbol]; !ok {
			t.Fatalf("available asset %s missing from catalog", symbol)
		}
	}
}
