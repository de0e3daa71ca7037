package engine

import "shelfbot/internal/model"

// Store provides durable storage for users, documents, tags, likes and
// downloads. Lookup methods return (nil, nil) when the record does not
// exist. Mutations that touch a relation row and its denormalized counter
// must do so in a single transaction.
type Store interface {
	// User operations

	// GetUser returns the user record, or nil if the user is unknown.
	GetUser(userID int64) (*model.User, error)

	// CreateUser inserts a new user. The status defaults to the first
	// registration step.
	CreateUser(userID int64, username, firstName string) error

	// UpdateUser applies the non-nil fields of the update.
	UpdateUser(userID int64, upd model.UserUpdate) error

	// GetStatus returns the user's persisted status, or "" if the user is
	// unknown.
	GetStatus(userID int64) (string, error)

	// SetStatus overwrites the user's persisted status.
	SetStatus(userID int64, status string) error

	// Document operations

	// AddDocument inserts a document and its tag rows in one transaction
	// and returns the generated document id.
	AddDocument(ownerID int64, fileRef, fileName string, tags []string) (int64, error)

	// FindDocumentsByTags returns every document carrying all of the given
	// tags. An empty filter returns an empty result without querying.
	// Summaries carry the document's full tag set, not just the matched
	// subset, and are ordered by insertion.
	FindDocumentsByTags(tags []string) ([]model.DocumentSummary, error)

	// GetDocumentDetail returns the document with counters, tags and
	// whether viewerID has liked it. Nil if the document does not exist.
	GetDocumentDetail(id, viewerID int64) (*model.DocumentDetail, error)

	// GetFileRef returns the transport file reference, or "" if the
	// document does not exist.
	GetFileRef(id int64) (string, error)

	// ToggleLike flips the (document, user) like row and the document's
	// like counter in one transaction. Returns the resulting liked state.
	ToggleLike(id, userID int64) (bool, error)

	// RecordDownload inserts the (document, user) download row if absent
	// and increments the download counter only when the row was newly
	// created. Repeats are no-ops.
	RecordDownload(id, userID int64) error

	// ListDownloads returns the documents the user has downloaded, most
	// recent first.
	ListDownloads(userID int64) ([]model.DocumentSummary, error)
}
