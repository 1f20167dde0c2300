package cart

import (
	"os"
	"sync"
)

// StorageKey is the fixed document key shared with the web client.
const StorageKey = "lootmart_cart_v1"

// Storage persists the cart snapshot. Load returns nil bytes when no
// snapshot exists yet. Implementations do not need to be safe for
// concurrent use; the Store serializes access.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// MemoryStorage keeps the snapshot in process memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryStorage) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

// FileStorage persists the snapshot to a single file, rewritten wholesale
// on every save.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

func (f *FileStorage) Save(data []byte) error {
	return os.WriteFile(f.path, data, 0o644)
}
