package session

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/models"
	"sync"
)

// SaveData is the snapshot written when the player returns to the case menu.
type SaveData struct {
	Case        int
	NextPassage int
	NextEvent   int
	NextButler  int
	NextSetup   int
	Notes       int
	Rooms       int
	models.Flags
}

// MemoryStore is a single save slot kept in memory.
type MemoryStore struct {
	mu    sync.Mutex
	data  SaveData
	valid bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{} //nolint:exhaustruct // zero value is an empty slot
}

func (m *MemoryStore) Save(_ context.Context, data SaveData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.valid = true
	return nil
}

// Load returns the saved snapshot or nil if there is no valid save.
func (m *MemoryStore) Load(_ context.Context) (*SaveData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid {
		return nil, nil //nolint:nilnil // absent save is not an error
	}
	data := m.data
	return &data, nil
}

func (m *MemoryStore) HasSave(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.valid, nil
}

// Invalidate marks the slot absent. The last snapshot is kept but never loaded again.
func (m *MemoryStore) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
	return nil
}
