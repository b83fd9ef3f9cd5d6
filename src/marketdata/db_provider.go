package marketdata

import (
	"context"
	"fmt"
	"sync"
)

// BarFetcher pulls a full ascending series for one symbol from a
// backing store. Implemented by repository.BarRepository.
type BarFetcher interface {
	FetchBars(ctx context.Context, symbol string) ([]Bar, error)
}

// DBProvider serves series from a bar store instead of CSV files.
// Rules still come from the static asset catalog.
type DBProvider struct {
	cfg     Config
	fetcher BarFetcher

	mu     sync.Mutex
	series map[string]*Series
	rules  map[string]*AssetRules
}

func NewDBProvider(cfg Config, fetcher BarFetcher) *DBProvider {
	return &DBProvider{
		cfg:     cfg,
		fetcher: fetcher,
		series:  make(map[string]*Series),
		rules:   make(map[string]*AssetRules),
	}
}

func (p *DBProvider) Load(symbol string) (*Series, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.series[symbol]; ok {
		return s, nil
	}

	if _, ok := assetCatalog[symbol]; !ok {
		return nil, ErrUnknownSymbol
	}

	bars, err := p.fetcher.FetchBars(context.Background(), symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no stored bars for %s", symbol)
	}

	s := NewSeries(symbol, bars)
	p.series[symbol] = s
	return s, nil
}

func (p *DBProvider) Rules(symbol string) (*AssetRules, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.rules[symbol]; ok {
		return r, nil
	}

	r, err := buildRules(symbol, p.cfg)
	if err != nil {
		return nil, err
	}

	p.rules[symbol] = r
	return r, nil
}
