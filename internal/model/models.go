package model

import "time"

// User is a registered chat identity. The ID is the transport's numeric
// user id and is stable for the lifetime of the account.
type User struct {
	ID        int64
	Username  string // transport handle, may be empty
	FullName  string
	Region    string
	School    string
	Class     string
	Status    string // conversation status, e.g. "sys.menu.idle"
	CreatedAt time.Time
}

// UserUpdate carries optional profile field updates. Nil fields are left
// unchanged.
type UserUpdate struct {
	FullName *string
	Region   *string
	School   *string
	Class    *string
}

// DocumentSummary is the list view of a document: enough to render a
// search-result entry without a second lookup.
type DocumentSummary struct {
	ID        int64
	FileName  string
	LikeCount int64
	Tags      []string
}

// DocumentDetail is the single-document view, including the denormalized
// counters and whether the viewing user has liked it.
type DocumentDetail struct {
	ID            int64
	OwnerID       int64
	FileRef       string
	FileName      string
	LikeCount     int64
	DownloadCount int64
	Tags          []string
	ViewerLiked   bool
	CreatedAt     time.Time
}
