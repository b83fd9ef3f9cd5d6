package battle

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/ZocoMacc/PaperDuel/src/marketdata"
)

// Registry is the process-wide mapping from battle id to Battle.
// Creation and lookup only; there is no eviction policy, so long-lived
// processes grow with every duel started. Its lock is independent of
// the per-battle locks: lookup never contends with battle mutation.
type Registry struct {
	mu      sync.RWMutex
	battles map[string]*Battle

	provider marketdata.Provider
	symbols  []string
	settings Settings
}

// NewRegistry builds a registry that creates battles over every symbol
// in symbols (traders may switch assets before opening a position, so
// all of them load up front).
func NewRegistry(provider marketdata.Provider, symbols []string, settings Settings) *Registry {
	return &Registry{
		battles:  make(map[string]*Battle),
		provider: provider,
		symbols:  append([]string(nil), symbols...),
		settings: settings,
	}
}

// Create starts a new battle under a fresh unique identifier and
// registers it.
func (r *Registry) Create(primarySymbol string, userIDs []string) (*Battle, error) {
	id := uuid.NewString()

	b, err := NewBattle(id, r.provider, primarySymbol, r.symbols, userIDs, r.settings)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.battles[id] = b
	r.mu.Unlock()

	logger.WithFields(logger.Fields{
		"battle_id":  id,
		"primary":    primarySymbol,
		"users":      userIDs,
		"total_bars": b.TotalBars(),
	}).Info("battle created")

	return b, nil
}

// Get looks up a battle by id.
func (r *Registry) Get(id string) (*Battle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.battles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, nil
}

// Len reports the number of registered battles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.battles)
}
