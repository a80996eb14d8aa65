package credstore

import (
	"encoding/json"
	"sync"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// MemoryStore holds the serialized Credential in process memory. It keeps
// the encoded form rather than the struct so it behaves like a durable store
// with respect to corrupt payloads.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(c domain.Credential) error {
	if !c.Complete() {
		return domain.ErrIncompleteCredential
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load() (domain.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return domain.Credential{}, false
	}
	var c domain.Credential
	if err := json.Unmarshal(s.data, &c); err != nil || !c.Complete() {
		s.data = nil
		return domain.Credential{}, false
	}
	return c, true
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

// SetRaw stores an arbitrary payload, bypassing validation.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Empty reports whether nothing is stored.
func (s *MemoryStore) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data == nil
}
