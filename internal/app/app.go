// Package app is the application layer between the CLI and the
// conversation engine. It constructs all dependencies from config and
// exposes high-level operations.
package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shelfbot/internal/config"
	"shelfbot/internal/database"
	"shelfbot/internal/encryption"
	"shelfbot/internal/engine"
	"shelfbot/internal/session"
	"shelfbot/internal/vault"
)

// App wires the store, session store, vault, and encryptor into a running
// conversation engine and manages their lifecycle.
type App struct {
	cfg       *config.Config
	store     *database.SQLiteStore
	sessions  *session.MemoryStore
	vault     vault.Vault
	encryptor encryption.Encryptor
	engine    *engine.Engine
	clock     engine.Clock
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Run", "Backup").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	clock := engine.RealClock{}

	store, err := database.NewStoreFromConfig(cfg.Database, cfg.InstanceID, clock)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	if err := store.CheckMigrations(); err != nil {
		store.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	v, err := vault.NewVaultFromConfig(cfg.Vault)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	sessions := session.NewMemoryStore(
		time.Duration(cfg.Session.TTLMinutes)*time.Minute, cfg.Session.MaxEntries)

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger.Info("starting", "operation", operation, "instance", cfg.InstanceID)

	eng := engine.New(store, sessions, &slogAdapter{l: logger})

	return &App{
		cfg:       cfg,
		store:     store,
		sessions:  sessions,
		vault:     v,
		encryptor: enc,
		engine:    eng,
		clock:     clock,
		logFile:   logFile,
	}, nil
}

// HandleEvent runs one inbound chat event through the conversation engine.
func (a *App) HandleEvent(userID int64, ev engine.Event) ([]engine.Directive, error) {
	return a.engine.HandleEvent(userID, ev)
}

// Stats returns current user and document counts.
func (a *App) Stats() (users int64, documents int64, err error) {
	users, err = a.store.CountUsers()
	if err != nil {
		return 0, 0, err
	}
	documents, err = a.store.CountDocuments()
	if err != nil {
		return 0, 0, err
	}
	return users, documents, nil
}

// MigrateUp applies pending schema migrations.
func (a *App) MigrateUp() error {
	return a.store.MigrateUp()
}

// Backup snapshots the database, encrypts it, and uploads it to the vault.
// The snapshot version is the upload time in unix seconds; each backup
// replaces the previous one. Returns the version stored.
func (a *App) Backup() (int64, error) {
	if !a.encryptor.IsConfigured() {
		return 0, fmt.Errorf("encryption keys not set up, run keys init first")
	}

	tmpFile, err := os.CreateTemp("", "shelfbot-db-backup-*.db")
	if err != nil {
		return 0, fmt.Errorf("creating temp file for db backup: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	if err := a.store.BackupTo(tmpPath); err != nil {
		return 0, fmt.Errorf("backing up database: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("opening db backup: %w", err)
	}
	defer f.Close()

	var encrypted bytes.Buffer
	if err := a.encryptor.Encrypt(f, &encrypted); err != nil {
		return 0, fmt.Errorf("encrypting db backup: %w", err)
	}

	version := a.clock.Now().UTC().Unix()
	size := int64(encrypted.Len())
	if err := a.vault.PutSnapshot(a.cfg.InstanceID, &encrypted, size, version); err != nil {
		return 0, fmt.Errorf("uploading snapshot to vault: %w", err)
	}

	return version, nil
}

// Restore fetches the latest snapshot from the vault, decrypts it with the
// passphrase, and replaces the local database file. The live connection is
// closed first; the process should exit after a restore. Returns the path
// of the restored database.
func (a *App) Restore(passphrase string) (string, error) {
	if a.cfg.Database.Type != "sqlite" {
		return "", fmt.Errorf("restore requires a sqlite database")
	}

	version, err := a.vault.GetSnapshotVersion(a.cfg.InstanceID)
	if err != nil {
		return "", fmt.Errorf("checking snapshot version: %w", err)
	}
	if version == 0 {
		return "", fmt.Errorf("no snapshot found in vault for instance %s", a.cfg.InstanceID)
	}

	var encrypted bytes.Buffer
	if err := a.vault.GetSnapshot(a.cfg.InstanceID, &encrypted); err != nil {
		return "", fmt.Errorf("fetching snapshot: %w", err)
	}

	decCtx, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return "", fmt.Errorf("unlocking private key: %w", err)
	}

	// Close the live connection before overwriting the database file.
	if err := a.store.Close(); err != nil {
		return "", fmt.Errorf("closing database: %w", err)
	}

	destPath := filepath.Join(a.cfg.Database.DataDir, a.cfg.InstanceID+".db")
	if err := os.MkdirAll(a.cfg.Database.DataDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(a.cfg.Database.DataDir, ".restore-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := decCtx.Decrypt(&encrypted, tmpFile); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("decrypting snapshot: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("replacing database file: %w", err)
	}

	return destPath, nil
}

// SetupKeys generates the encryption key pair protected by the passphrase.
func (a *App) SetupKeys(passphrase string) error {
	if a.encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys already exist")
	}
	return a.encryptor.Setup(passphrase)
}

// Close closes the database and the log file.
func (a *App) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
