package app

import (
	"os"
	"path/filepath"
	"testing"

	"shelfbot/internal/config"
	"shelfbot/internal/database"
	"shelfbot/internal/engine"
)

// newTestApp builds an App backed by a sqlite database in a temp dir, a
// memory vault, and the test encryptor. Migrations are applied up front
// since NewApp refuses to start on an empty schema.
func newTestApp(t *testing.T) *App {
	t.Helper()

	baseDir := t.TempDir()
	cfg := config.NewConfig("test-instance", baseDir)
	cfg.Vault = config.VaultConfig{Type: "memory", Name: "test"}
	cfg.Encryption.Type = "test"

	if err := os.MkdirAll(cfg.Database.DataDir, 0755); err != nil {
		t.Fatalf("creating data dir: %v", err)
	}

	store, err := database.NewStoreFromConfig(cfg.Database, cfg.InstanceID, engine.RealClock{})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := store.MigrateUp(); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	a, err := NewApp(cfg, "Test")
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewApp_FailsWithoutSchema(t *testing.T) {
	baseDir := t.TempDir()
	cfg := config.NewConfig("fresh-instance", baseDir)
	cfg.Vault = config.VaultConfig{Type: "memory", Name: "test"}
	cfg.Encryption.Type = "test"

	if err := os.MkdirAll(cfg.Database.DataDir, 0755); err != nil {
		t.Fatalf("creating data dir: %v", err)
	}

	if _, err := NewApp(cfg, "Test"); err == nil {
		t.Error("NewApp() on unmigrated database should fail")
	}
}

func TestApp_Stats(t *testing.T) {
	a := newTestApp(t)

	users, documents, err := a.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if users != 0 || documents != 0 {
		t.Errorf("Stats() = %d users, %d documents, want 0, 0", users, documents)
	}

	if _, err := a.HandleEvent(7, engine.TextEvent{Text: "/start", FirstName: "Test"}); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	users, _, err = a.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if users != 1 {
		t.Errorf("Stats() users = %d, want 1", users)
	}
}

func TestApp_BackupRestore(t *testing.T) {
	a := newTestApp(t)

	// Put a user in the database so the restored copy is distinguishable.
	if _, err := a.HandleEvent(7, engine.TextEvent{Text: "/start", FirstName: "Test"}); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	version, err := a.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if version == 0 {
		t.Error("Backup() version = 0, want nonzero")
	}

	got, err := a.vault.GetSnapshotVersion(a.cfg.InstanceID)
	if err != nil {
		t.Fatalf("GetSnapshotVersion() error = %v", err)
	}
	if got != version {
		t.Errorf("vault version = %d, want %d", got, version)
	}

	path, err := a.Restore("any-passphrase")
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	want := filepath.Join(a.cfg.Database.DataDir, a.cfg.InstanceID+".db")
	if path != want {
		t.Errorf("Restore() path = %q, want %q", path, want)
	}

	// The restored file is a usable database with the backed-up user.
	store, err := database.NewStoreFromConfig(a.cfg.Database, a.cfg.InstanceID, engine.RealClock{})
	if err != nil {
		t.Fatalf("reopening restored database: %v", err)
	}
	defer store.Close()

	u, err := store.GetUser(7)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if u == nil {
		t.Fatal("restored database missing backed-up user")
	}
}

func TestApp_RestoreWithoutSnapshot(t *testing.T) {
	a := newTestApp(t)

	if _, err := a.Restore("any-passphrase"); err == nil {
		t.Error("Restore() with empty vault should fail")
	}
}
