package stream

import (
	"sync"

	"github.com/ZocoMacc/PaperDuel/src/battle"
)

// Subscription receives snapshots for one battle. Slow consumers drop
// messages instead of blocking the publisher.
type Subscription struct {
	C chan battle.Snapshot
}

// Hub fans battle snapshots out to spectator connections, keyed by
// battle id. Publishing never blocks the engine path.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

func (h *Hub) Subscribe(battleID string, buffer int) *Subscription {
	sub := &Subscription{C: make(chan battle.Snapshot, buffer)}

	h.mu.Lock()
	if h.subs[battleID] == nil {
		h.subs[battleID] = make(map[*Subscription]struct{})
	}
	h.subs[battleID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) Unsubscribe(battleID string, sub *Subscription) {
	h.mu.Lock()
	if battleSubs, ok := h.subs[battleID]; ok {
		delete(battleSubs, sub)
		if len(battleSubs) == 0 {
			delete(h.subs, battleID)
		}
	}
	h.mu.Unlock()
	close(sub.C)
}

// Publish delivers a snapshot to every subscriber of the battle,
// dropping it for subscribers whose buffer is full.
func (h *Hub) Publish(battleID string, snap battle.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[battleID] {
		select {
		case sub.C <- snap:
		default:
		}
	}
}
