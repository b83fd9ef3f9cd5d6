package marketdata

import (
	"path/filepath"
	"sync"
)

// Provider yields the two collaborator contracts the battle engine
// consumes: an ordered, indexable bar series per symbol and the static
// trading constants per symbol.
type Provider interface {
	Load(symbol string) (*Series, error)
	Rules(symbol string) (*AssetRules, error)
}

// FileProvider serves series from CSV files in a data directory.
// Loaded series are cached and shared by reference across battles.
type FileProvider struct {
	cfg Config

	mu     sync.Mutex
	series map[string]*Series
	rules  map[string]*AssetRules
}

func NewFileProvider(cfg Config) *FileProvider {
	return &FileProvider{
		cfg:    cfg,
		series: make(map[string]*Series),
		rules:  make(map[string]*AssetRules),
	}
}

func (p *FileProvider) Load(symbol string) (*Series, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.series[symbol]; ok {
		return s, nil
	}

	asset, ok := assetCatalog[symbol]
	if !ok {
		return nil, ErrUnknownSymbol
	}

	s, err := LoadCSV(symbol, filepath.Join(p.cfg.DataDir, asset.dataFile))
	if err != nil {
		return nil, err
	}

	p.series[symbol] = s
	return s, nil
}

func (p *FileProvider) Rules(symbol string) (*AssetRules, error) {
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
