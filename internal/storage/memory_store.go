package storage

import "sync"

// MemoryStore keeps records in process memory. It backs tests and --dry-run.
type MemoryStore struct {
	records
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{data: make(map[string][]byte)}
	s.records = records{b: s}
	return s
}

func (s *MemoryStore) Init() error           { return nil }
func (s *MemoryStore) Load() error           { return nil }
func (s *MemoryStore) Close() error          { return nil }
func (s *MemoryStore) GetConfigPath() string { return ":memory:" }

// Raw returns a copy of the stored bytes for key.
func (s *MemoryStore) Raw(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return append([]byte(nil), v...), ok
}

// PutRaw stores value under key without any validation.
func (s *MemoryStore) PutRaw(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}

func (s *MemoryStore) readRecord(key string) ([]byte, bool, error) {
	v, ok := s.Raw(key)
	return v, ok, nil
}

func (s *MemoryStore) writeRecord(key string, value []byte) error {
	s.PutRaw(key, value)
	return nil
}

func (s *MemoryStore) deleteRecord(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
