package vault

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryVault_PutAndGetSnapshot(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	tests := []struct {
		name     string
		instance string
		content  string
		version  int64
	}{
		{
			name:     "store and retrieve snapshot",
			instance: "inst-a",
			content:  "database bytes",
			version:  100,
		},
		{
			name:     "store empty snapshot",
			instance: "inst-b",
			content:  "",
			version:  1,
		},
		{
			name:     "store large snapshot",
			instance: "inst-c",
			content:  strings.Repeat("x", 10000),
			version:  42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(tt.content)
			if err := vault.PutSnapshot(tt.instance, r, int64(len(tt.content)), tt.version); err != nil {
				t.Fatalf("PutSnapshot() error = %v", err)
			}

			version, err := vault.GetSnapshotVersion(tt.instance)
			if err != nil {
				t.Fatalf("GetSnapshotVersion() error = %v", err)
			}
			if version != tt.version {
				t.Errorf("GetSnapshotVersion() = %d, want %d", version, tt.version)
			}

			var buf bytes.Buffer
			if err := vault.GetSnapshot(tt.instance, &buf); err != nil {
				t.Fatalf("GetSnapshot() error = %v", err)
			}
			if got := buf.String(); got != tt.content {
				t.Errorf("GetSnapshot() = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestMemoryVault_SizeMismatch(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	r := strings.NewReader("short")
	err := vault.PutSnapshot("inst", r, 100, 1)
	if err == nil {
		t.Error("PutSnapshot() with wrong size should fail")
	}
}

func TestMemoryVault_ReplaceSnapshot(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	for i, content := range []string{"first", "second"} {
		r := strings.NewReader(content)
		if err := vault.PutSnapshot("inst", r, int64(len(content)), int64(i+1)); err != nil {
			t.Fatalf("PutSnapshot() error = %v", err)
		}
	}

	version, err := vault.GetSnapshotVersion("inst")
	if err != nil {
		t.Fatalf("GetSnapshotVersion() error = %v", err)
	}
	if version != 2 {
		t.Errorf("GetSnapshotVersion() = %d, want 2", version)
	}

	var buf bytes.Buffer
	if err := vault.GetSnapshot("inst", &buf); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if buf.String() != "second" {
		t.Errorf("GetSnapshot() = %q, want %q", buf.String(), "second")
	}
}

func TestMemoryVault_MissingSnapshot(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	version, err := vault.GetSnapshotVersion("nope")
	if err != nil {
		t.Fatalf("GetSnapshotVersion() error = %v", err)
	}
	if version != 0 {
		t.Errorf("GetSnapshotVersion() = %d for missing snapshot, want 0", version)
	}

	var buf bytes.Buffer
	if err := vault.GetSnapshot("nope", &buf); err == nil {
		t.Error("GetSnapshot() for missing snapshot should fail")
	}
}

func TestMemoryVault_ValidateSetup(t *testing.T) {
	vault := NewMemoryVault("test-vault")
	if err := vault.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
	if vault.Name() != "test-vault" {
		t.Errorf("Name() = %q, want %q", vault.Name(), "test-vault")
	}
}
