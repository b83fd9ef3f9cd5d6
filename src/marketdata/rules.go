package marketdata

import "errors"

var ErrUnknownSymbol = errors.New("unknown asset symbol")

// AssetRules holds the static financial constants for one symbol.
// Shared by reference across all battles trading that symbol.
type AssetRules struct {
	Symbol              string  `json:"symbol"`
	Multiplier          float64 `json:"multiplier"`
	TickValue           float64 `json:"tick_value"`
	SlippagePoints      float64 `json:"slippage_points"`
	CommissionRoundTurn float64 `json:"commission_round_turn"`
}

type assetConfig struct {
	multiplier float64
	tickValue  float64
	dataFile   string
}

// CME index futures traded by the duels. The data file is relative to
// the configured data directory.
var assetCatalog = map[string]assetConfig{
	"ES": {multiplier: 50.0, tickValue: 12.50, dataFile: "es_minute.csv"},
	"NQ": {multiplier: 20.0, tickValue: 5.00, dataFile: "nq_minute.csv"},
}

// AvailableAssets returns every symbol the engine knows rules for, in a
// stable order.
func AvailableAssets() []string {
	return []string{"ES", "NQ"}
}

// buildRules derives the per-symbol trading constants: slippage in price
// units is slippage_ticks * tick_value / multiplier, commission is the
// per-side constant doubled for a round turn.
func buildRules(symbol string, cfg Config) (*AssetRules, error) {
	asset, ok := assetCatalog[symbol]
	if !ok {
		return nil, ErrUnknownSymbol
	}

	slippageDollar := cfg.SlippageTicks * asset.tickValue
	return &AssetRules{
		Symbol:              symbol,
		Multiplier:          asset.multiplier,
		TickValue:           asset.tickValue,
		SlippagePoints:      slippageDollar / asset.multiplier,
		CommissionRoundTurn: cfg.CommissionPerSide * 2.0,
	}, nil
}
