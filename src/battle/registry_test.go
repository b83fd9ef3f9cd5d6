package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZocoMacc/PaperDuel/src/marketdata"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	provider := &stubProvider{
		series: map[string]*marketdata.Series{
			"ES": flatSeries("ES", 4500, 10),
			"NQ": flatSeries("NQ", 15000, 10),
		},
		rules: map[string]*marketdata.AssetRules{
			"ES": esRules(0),
			"NQ": nqRules(0),
		},
	}
	return NewRegistry(provider, []string{"ES", "NQ"}, DefaultSettings())
}

func TestRegistryCreateAndGet(t *testing.T) {
	registry := testRegistry(t)

	b, err := registry.Create("ES", []string{"user_1", "user_2"})
	require.NoError(t, err)
	require.NotEmpty(t, b.ID())
	assert.Equal(t, 10, b.TotalBars())

	got, err := registry.Get(b.ID())
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryFreshIDPerBattle(t *testing.T) {
	registry := testRegistry(t)

	b1, err := registry.Create("ES", []string{"user_1"})
	require.NoError(t, err)
	b2, err := registry.Create("NQ", []string{"user_1"})
	require.NoError(t, err)

	assert.NotEqual(t, b1.ID(), b2.ID())
	assert.Equal(t, 2, registry.Len())
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := testRegistry(t)

	_, err := registry.Get("no-such-battle")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryCreateUnknownPrimary(t *testing.T) {
	registry := testRegistry(t)

	_, err := registry.Create("CL", []string{"user_1"})
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, 0, registry.Len())
}
