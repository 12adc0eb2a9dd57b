package status

import (
	"sync"

	"github.com/krishnasurya9/AIchatbot/internal/models"
)

// Store tracks per-file upload status for the lifetime of the process.
// Implementations must support concurrent upsert-by-key.
type Store interface {
	Set(status models.UploadStatus)
	Get(fileID string) (models.UploadStatus, bool)
	Delete(fileID string)
}

// MemoryStore is the process-local Store used in production. It is not
// durable; a restart clears all records.
type MemoryStore struct {
	mu       sync.RWMutex
	statuses map[string]models.UploadStatus
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{statuses: make(map[string]models.UploadStatus)}
}

func (s *MemoryStore) Set(st models.UploadStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[st.FileID] = st
}

func (s *MemoryStore) Get(fileID string) (models.UploadStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statuses[fileID]
	return st, ok
}

func (s *MemoryStore) Delete(fileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, fileID)
}
