// Package vault stores encrypted database snapshots in remote or local
// backends for backup and restore.
package vault

import "io"

// Vault is a versioned store for encrypted database snapshots. Each
// instance keeps at most one current snapshot per instance ID, identified
// by a monotonically increasing version.
type Vault interface {
	// Name returns the configured vault name.
	Name() string

	// PutSnapshot stores a snapshot for an instance along with a version marker.
	PutSnapshot(instanceID string, r io.Reader, size int64, version int64) error

	// GetSnapshotVersion returns the stored snapshot version for an instance.
	// Returns 0 if no snapshot has been stored.
	GetSnapshotVersion(instanceID string) (int64, error)

	// GetSnapshot retrieves the current snapshot for an instance and writes it to w.
	GetSnapshot(instanceID string, w io.Writer) error

	// ValidateSetup verifies the vault backend is reachable and usable.
	ValidateSetup() error
}
