package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// MemoryVault is an in-memory implementation of the Vault interface.
// It stores all snapshots in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryVault struct {
	name     string
	snapshot map[string][]byte
	version  map[string]int64
	mu       sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:     name,
		snapshot: make(map[string][]byte),
		version:  make(map[string]int64),
	}
}

// Name returns the vault name.
func (m *MemoryVault) Name() string {
	return m.name
}

// PutSnapshot stores a snapshot for an instance along with a version marker.
func (m *MemoryVault) PutSnapshot(instanceID string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot[instanceID] = data
	m.version[instanceID] = version
	return nil
}

// GetSnapshotVersion returns the snapshot version for an instance.
// Returns 0 if no snapshot has been stored for this instance.
func (m *MemoryVault) GetSnapshotVersion(instanceID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.version[instanceID], nil
}

// GetSnapshot retrieves the snapshot for an instance and writes it to w.
func (m *MemoryVault) GetSnapshot(instanceID string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.snapshot[instanceID]
	if !ok {
		return fmt.Errorf("snapshot not found for instance: %s", instanceID)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements the Vault interface
var _ Vault = (*MemoryVault)(nil)
