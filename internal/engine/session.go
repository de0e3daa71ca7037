package engine

import "shelfbot/internal/model"

// UploadDraft is the in-progress state of an upload flow: the received
// file and the tags toggled so far. Tag order is selection order; it only
// affects keyboard display.
type UploadDraft struct {
	FileRef  string
	FileName string
	Tags     []string
}

// SearchDraft is the in-progress tag filter of a search flow.
type SearchDraft struct {
	Tags []string
}

// SessionStore holds per-user ephemeral flow state in three independent
// namespaces. Entries may expire or vanish at any time (process restart);
// the engine treats a missing expected entry as session loss. All engine
// access to a given user's entries happens under the engine's per-user
// lock, so read-modify-write sequences are safe.
type SessionStore interface {
	UploadDraft(userID int64) (*UploadDraft, bool)
	SetUploadDraft(userID int64, d *UploadDraft)
	ClearUploadDraft(userID int64)

	SearchDraft(userID int64) (*SearchDraft, bool)
	SetSearchDraft(userID int64, d *SearchDraft)
	ClearSearchDraft(userID int64)

	Results(userID int64) ([]model.DocumentSummary, bool)
	SetResults(userID int64, rs []model.DocumentSummary)
	ClearResults(userID int64)
}
