package market

import (
	"sort"
	"sync"
	"time"

	"github.com/rickgao/polymarket-clob/internal/model"
)

// registryState holds the thread-safe market cache.
type registryState struct {
	mu sync.RWMutex

	// Active markets indexed by condition id.
	markets map[string]model.SimplifiedMarket

	syncs      int64
	failures   int64
	lastSyncAt time.Time

	changes chan Change
}

func newState() *registryState {
	return &registryState{
		markets: make(map[string]model.SimplifiedMarket),
		changes: make(chan Change, ChangeBufferSize),
	}
}

// isActive reports whether a market's book is worth recording.
func isActive(m model.SimplifiedMarket) bool {
	return m.Active && !m.Closed && len(m.Tokens) > 0
}

func (s *registryState) getMarket(conditionID string) (model.SimplifiedMarket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markets[conditionID]
	return m, ok
}

// tokenIDs returns every token of every active market, ordered by condition
// id and then token order.
func (s *registryState) tokenIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.markets))
	for id := range s.markets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []string
	for _, id := range ids {
		for _, tok := range s.markets[id].Tokens {
			if tok.TokenID != "" {
				out = append(out, tok.TokenID)
			}
		}
	}
	return out
}

// replace swaps in the markets from a full sync and returns what changed.
func (s *registryState) replace(markets []model.SimplifiedMarket) (added, removed []Change) {
	next := make(map[string]model.SimplifiedMarket, len(markets))
	for _, m := range markets {
		if isActive(m) {
			next[m.ConditionID] = m
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, m := range next {
		if _, ok := s.markets[id]; !ok {
			added = append(added, Change{ConditionID: id, EventType: "added", TokenIDs: tokenIDs(m)})
		}
	}
	for id, m := range s.markets {
		if _, ok := next[id]; !ok {
			removed = append(removed, Change{ConditionID: id, EventType: "removed", TokenIDs: tokenIDs(m)})
		}
	}

	s.markets = next
	s.syncs++
	s.lastSyncAt = time.Now()
	return added, removed
}

func (s *registryState) recordFailure() {
	s.mu.Lock()
	s.failures++
	s.mu.Unlock()
}

func (s *registryState) stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assets := 0
	for _, m := range s.markets {
		assets += len(m.Tokens)
	}
	return Stats{
		Markets:    len(s.markets),
		Assets:     assets,
		Syncs:      s.syncs,
		Failures:   s.failures,
		LastSyncAt: s.lastSyncAt,
	}
}

// notifyChange sends a change without blocking, dropping the oldest when full.
func (s *registryState) notifyChange(change Change) {
	select {
	case s.changes <- change:
	default:
		select {
		case <-s.changes:
		default:
		}
		select {
		case s.changes <- change:
		default:
		}
	}
}

func tokenIDs(m model.SimplifiedMarket) []string {
	out := make([]string, 0, len(m.Tokens))
	for _, tok := range m.Tokens {
		out = append(out, tok.TokenID)
	}
	return out
}
