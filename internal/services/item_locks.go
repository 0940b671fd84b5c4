package services

import (
	"sync"

	"github.com/google/uuid"
)

// ItemLockMap serializes stock mutations per item id. Every workflow that
// changes stock acquires the item's lock before the read-modify-write of
// current stock plus the ledger appends; operations on different items run
// in parallel. Locks are never released from the map — the set of tracked
// items is small and stable for a single salon.
type ItemLockMap struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewItemLockMap() *ItemLockMap {
	return &ItemLockMap{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Get returns the mutex for the given item, creating it on first use.
func (m *ItemLockMap) Get(itemID uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[itemID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[itemID] = lock
	}
	return lock
}
