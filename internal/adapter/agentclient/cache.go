package agentclient

import (
	"sync"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/a2a"
)

// CardCache stores agent cards by address. Cached cards are shared and must
// not be modified.
type CardCache interface {
	Get(addr string) (*a2a.AgentCard, bool)
	Put(addr string, card *a2a.AgentCard)
}

// MemoryCardCache is a process-local CardCache. Entries never expire.
type MemoryCardCache struct {
	mu    sync.RWMutex
	cards map[string]*a2a.AgentCard
}

var _ CardCache = (*MemoryCardCache)(nil)

func NewMemoryCardCache() *MemoryCardCache {
	return &MemoryCardCache{cards: make(map[string]*a2a.AgentCard)}
}

func (m *MemoryCardCache) Get(addr string) (*a2a.AgentCard, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	card, ok := m.cards[addr]
	return card, ok
}

func (m *MemoryCardCache) Put(addr string, card *a2a.AgentCard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[addr] = card
}

// Evict drops the entry for addr.
func (m *MemoryCardCache) Evict(addr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cards, addr)
}

// Len reports the number of cached cards.
func (m *MemoryCardCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cards)
}
