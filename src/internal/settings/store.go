package settings

import (
	"fmt"
	"sync"

	"jdk-autoconf/src/config"
	"jdk-autoconf/src/internal/common"
)

// Store is the host settings surface the engine writes through. Values are
// the generic yaml shapes (map[string]interface{}, []interface{}, scalars).
//
// Two write modes exist on purpose: most writes are fire-and-forget, but
// removals must be awaited so the next read cannot race a stale document.
type Store interface {
	// Get returns the effective value: the user-set value if present,
	// otherwise the registered default.
	Get(key string) (interface{}, bool)
	// GetDefinition returns only an explicitly user-set value, ignoring
	// defaults.
	GetDefinition(key string) (interface{}, bool)
	// UpdateAsync applies the value immediately and persists in the
	// background. A nil value removes the key.
	UpdateAsync(key string, value interface{})
	// UpdateAwaited applies the value and persists before returning.
	UpdateAwaited(key string, value interface{}) error
	// UpdateIfChanged writes only when the canonicalized value differs
	// structurally from the stored one. Reports whether a write happened.
	UpdateIfChanged(key string, value interface{}) bool
}

// FileStore is a yaml-file-backed Store.
type FileStore struct {
	mu       sync.Mutex
	path     string
	doc      config.Document
	defaults map[string]interface{}
	writes   int
	pending  sync.WaitGroup
}

// NewFileStore loads (or initializes) the settings document at path.
func NewFileStore(path string, defaults map[string]interface{}) (*FileStore, error) {
	doc, err := config.LoadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return &FileStore{path: path, doc: doc, defaults: defaults}, nil
}

func (s *FileStore) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.doc[key]; ok {
		return Canonicalize(v), true
	}
	if v, ok := s.defaults[key]; ok {
		return Canonicalize(v), true
	}
	return nil, false
}

func (s *FileStore) GetDefinition(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc[key]
	if !ok {
		return nil, false
	}
	return Canonicalize(v), true
}

func (s *FileStore) UpdateAsync(key string, value interface{}) {
	snapshot := s.apply(key, value)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := config.SaveDocument(snapshot, s.path); err != nil {
			common.ConfigLogger.Error("background settings write failed: %v", err)
		}
	}()
}

func (s *FileStore) UpdateAwaited(key string, value interface{}) error {
	snapshot := s.apply(key, value)
	if err := config.SaveDocument(snapshot, s.path); err != nil {
		return fmt.Errorf("settings write failed: %w", err)
	}
	return nil
}

func (s *FileStore) UpdateIfChanged(key string, value interface{}) bool {
	s.mu.Lock()
	existing, exists := s.doc[key]
	s.mu.Unlock()

	if value == nil {
		if !exists {
			return false
		}
	} else if exists && StructuralEqual(Canonicalize(existing), Canonicalize(value)) {
		return false
	}

	s.UpdateAsync(key, value)
	return true
}

// apply mutates the in-memory document under lock and returns a deep-cloned
// snapshot for persistence, so in-flight saves never observe later edits.
func (s *FileStore) apply(key string, value interface{}) config.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		delete(s.doc, key)
	} else {
		s.doc[key] = Canonicalize(DeepClone(value))
	}
	s.writes++

	snapshot := config.Document{}
	for k, v := range s.doc {
		snapshot[k] = DeepClone(v)
	}
	return snapshot
}

// Writes returns the number of updates applied since the store was opened.
func (s *FileStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Flush blocks until all background writes have been persisted.
func (s *FileStore) Flush() {
	s.pending.Wait()
}
