package database

import (
	"context"
	"sync"

	"github.com/ds124wfegd/media-editor/internal/entity"
)

type memoryHistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]entity.CustomizationDTO
}

// NewMemoryHistoryRepository is used when redis is disabled or unreachable.
func NewMemoryHistoryRepository() HistoryRepository {
	return &memoryHistoryRepository{entries: make(map[string][]entity.CustomizationDTO)}
}

func (r *memoryHistoryRepository) Append(_ context.Context, imageID string, customizations ...entity.CustomizationDTO) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[imageID] = append(r.entries[imageID], customizations...)
	return nil
}

func (r *memoryHistoryRepository) List(_ context.Context, imageID string) ([]entity.CustomizationDTO, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.CustomizationDTO(nil), r.entries[imageID]...), nil
}

func (r *memoryHistoryRepository) Clear(_ context.Context, imageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, imageID)
	return nil
}
