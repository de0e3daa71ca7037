// Package session provides the in-memory ephemeral flow-state store,
// a wrapper over hashicorp/golang-lru/v2/expirable.
package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"shelfbot/internal/engine"
	"shelfbot/internal/model"
)

const (
	// DefaultTTL is how long an untouched draft or result cache survives.
	DefaultTTL = 30 * time.Minute
	// DefaultMaxEntries bounds each namespace independently.
	DefaultMaxEntries = 10000
)

// MemoryStore keeps per-user flow state in three independent expiring
// LRU namespaces. Eviction and expiry are both fine: the engine treats a
// missing expected entry as session loss and recovers.
type MemoryStore struct {
	uploads  *expirable.LRU[int64, *engine.UploadDraft]
	searches *expirable.LRU[int64, *engine.SearchDraft]
	results  *expirable.LRU[int64, []model.DocumentSummary]
}

// NewMemoryStore creates a session store with the given TTL and per-namespace
// entry cap. Zero values fall back to the package defaults.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		uploads:  expirable.NewLRU[int64, *engine.UploadDraft](maxEntries, nil, ttl),
		searches: expirable.NewLRU[int64, *engine.SearchDraft](maxEntries, nil, ttl),
		results:  expirable.NewLRU[int64, []model.DocumentSummary](maxEntries, nil, ttl),
	}
}

func (m *MemoryStore) UploadDraft(userID int64) (*engine.UploadDraft, bool) {
	return m.uploads.Get(userID)
}

func (m *MemoryStore) SetUploadDraft(userID int64, d *engine.UploadDraft) {
	m.uploads.Add(userID, d)
}

func (m *MemoryStore) ClearUploadDraft(userID int64) {
	m.uploads.Remove(userID)
}

func (m *MemoryStore) SearchDraft(userID int64) (*engine.SearchDraft, bool) {
	return m.searches.Get(userID)
}

func (m *MemoryStore) SetSearchDraft(userID int64, d *engine.SearchDraft) {
	m.searches.Add(userID, d)
}

func (m *MemoryStore) ClearSearchDraft(userID int64) {
	m.searches.Remove(userID)
}

func (m *MemoryStore) Results(userID int64) ([]model.DocumentSummary, bool) {
	return m.results.Get(userID)
}

func (m *MemoryStore) SetResults(userID int64, rs []model.DocumentSummary) {
	m.results.Add(userID, rs)
}

func (m *MemoryStore) ClearResults(userID int64) {
	m.results.Remove(userID)
}

// Compile-time check that MemoryStore implements the engine.SessionStore interface
var _ engine.SessionStore = (*MemoryStore)(nil)
