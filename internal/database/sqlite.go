package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shelfbot/internal/database/migrations"
	"shelfbot/internal/engine"
	"shelfbot/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the engine.Store interface using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	clock engine.Clock
	path  string
}

// NewSQLiteStore creates a new SQLite store.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string, clock engine.Clock) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &SQLiteStore{db: db, clock: clock, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB, clock engine.Clock) *SQLiteStore {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &SQLiteStore{db: db, clock: clock, path: ""}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a properly configured
// connection. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// User operations

func (s *SQLiteStore) GetUser(userID int64) (*model.User, error) {
	row := s.db.QueryRowContext(context.Background(), `
		SELECT id, username, full_name, region, school, class, status, created_at
		FROM users WHERE id = ?`, userID)

	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Region, &u.School, &u.Class, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) CreateUser(userID int64, username, firstName string) error {
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO users (id, username, full_name, created_at) VALUES (?, ?, ?, ?)`,
		userID, username, firstName, s.clock.Now())
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateUser(userID int64, upd model.UserUpdate) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(col string, v *string) {
		if v != nil {
			set = append(set, col+" = ?")
			args = append(args, *v)
		}
	}
	add("full_name", upd.FullName)
	add("region", upd.Region)
	add("school", upd.School)
	add("class", upd.Class)

	if len(set) == 0 {
		return nil
	}
	args = append(args, userID)

	_, err := s.db.ExecContext(context.Background(),
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetStatus(userID int64) (string, error) {
	var status string
	err := s.db.QueryRowContext(context.Background(),
		"SELECT status FROM users WHERE id = ?", userID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", nil // Unknown user
	}
	if err != nil {
		return "", fmt.Errorf("reading status: %w", err)
	}
	return status, nil
}

func (s *SQLiteStore) SetStatus(userID int64, status string) error {
	_, err := s.db.ExecContext(context.Background(),
		"UPDATE users SET status = ? WHERE id = ?", status, userID)
	if err != nil {
		return fmt.Errorf("setting status: %w", err)
	}
	return nil
}

// Document operations

// AddDocument inserts the document row and its tag rows in one
// transaction and returns the generated id.
func (s *SQLiteStore) AddDocument(ownerID int64, fileRef, fileName string, tags []string) (int64, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (owner_id, file_ref, file_name, created_at)
		VALUES (?, ?, ?, ?)`, ownerID, fileRef, fileName, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}

	docID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading document id: %w", err)
	}

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_tags (document_id, tag) VALUES (?, ?)", docID, tag); err != nil {
			return 0, fmt.Errorf("inserting tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return docID, nil
}

// FindDocumentsByTags implements the tag intersection query: group the
// document-tag join rows by document, count distinct matched tags, and
// keep the groups matching the full filter. Each summary then gets its
// complete tag set, not just the matched subset.
func (s *SQLiteStore) FindDocumentsByTags(tags []string) ([]model.DocumentSummary, error) {
	if len(tags) == 0 {
		return nil, nil // Empty filter is never executed
	}

	ctx := context.Background()

	placeholders := strings.Repeat("?,", len(tags))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(tags)+1)
	for _, t := range tags {
		args = append(args, t)
	}
	args = append(args, len(tags))

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.file_name, d.like_count
		FROM documents d
		JOIN document_tags t ON t.document_id = d.id
		WHERE t.tag IN (`+placeholders+`)
		GROUP BY d.id
		HAVING COUNT(DISTINCT t.tag) = ?
		ORDER BY d.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents by tags: %w", err)
	}
	defer rows.Close()

	var summaries []model.DocumentSummary
	for rows.Next() {
		var sum model.DocumentSummary
		if err := rows.Scan(&sum.ID, &sum.FileName, &sum.LikeCount); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading document rows: %w", err)
	}

	for i := range summaries {
		summaries[i].Tags, err = s.loadTags(ctx, summaries[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

func (s *SQLiteStore) GetDocumentDetail(id, viewerID int64) (*model.DocumentDetail, error) {
	ctx := context.Background()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, file_ref, file_name, like_count, download_count, created_at
		FROM documents WHERE id = ?`, id)

	var d model.DocumentDetail
	err := row.Scan(&d.ID, &d.OwnerID, &d.FileRef, &d.FileName, &d.LikeCount, &d.DownloadCount, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("finding document: %w", err)
	}

	if d.Tags, err = s.loadTags(ctx, id); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM likes WHERE document_id = ? AND user_id = ?)`,
		id, viewerID).Scan(&d.ViewerLiked)
	if err != nil {
		return nil, fmt.Errorf("checking viewer like: %w", err)
	}

	return &d, nil
}

func (s *SQLiteStore) GetFileRef(id int64) (string, error) {
	var ref string
	err := s.db.QueryRowContext(context.Background(),
		"SELECT file_ref FROM documents WHERE id = ?", id).Scan(&ref)
	if err == sql.ErrNoRows {
		return "", nil // Not found
	}
	if err != nil {
		return "", fmt.Errorf("finding file ref: %w", err)
	}
	return ref, nil
}

// ToggleLike flips the like row and the denormalized counter in one
// transaction so the counter can never drift from the relation.
func (s *SQLiteStore) ToggleLike(id, userID int64) (bool, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM likes WHERE document_id = ? AND user_id = ?)",
		id, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking existing like: %w", err)
	}

	if exists {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM likes WHERE document_id = ? AND user_id = ?", id, userID); err != nil {
			return false, fmt.Errorf("deleting like: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET like_count = like_count - 1 WHERE id = ?", id); err != nil {
			return false, fmt.Errorf("decrementing like count: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO likes (document_id, user_id, created_at) VALUES (?, ?, ?)",
			id, userID, s.clock.Now()); err != nil {
			return false, fmt.Errorf("inserting like: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET like_count = like_count + 1 WHERE id = ?", id); err != nil {
			return false, fmt.Errorf("incrementing like count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}
	return !exists, nil
}

// RecordDownload inserts the download row if absent and increments the
// counter only when the insert actually created a row. Repeats leave both
// the relation and the counter untouched.
func (s *SQLiteStore) RecordDownload(id, userID int64) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO downloads (document_id, user_id, created_at) VALUES (?, ?, ?)",
		id, userID, s.clock.Now())
	if err != nil {
		return fmt.Errorf("inserting download: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if inserted > 0 {
		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET download_count = download_count + 1 WHERE id = ?", id); err != nil {
			return fmt.Errorf("incrementing download count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListDownloads(userID int64) ([]model.DocumentSummary, error) {
	ctx := context.Background()

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.file_name, d.like_count
		FROM downloads dl
		JOIN documents d ON d.id = dl.document_id
		WHERE dl.user_id = ?
		ORDER BY dl.created_at DESC, d.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying downloads: %w", err)
	}
	defer rows.Close()

	var summaries []model.DocumentSummary
	for rows.Next() {
		var sum model.DocumentSummary
		if err := rows.Scan(&sum.ID, &sum.FileName, &sum.LikeCount); err != nil {
			return nil, fmt.Errorf("scanning download row: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading download rows: %w", err)
	}

	for i := range summaries {
		summaries[i].Tags, err = s.loadTags(ctx, summaries[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// loadTags returns a document's tags in insertion order.
func (s *SQLiteStore) loadTags(ctx context.Context, docID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT tag FROM document_tags WHERE document_id = ? ORDER BY rowid", docID)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	return tags, nil
}

// Stats

func (s *SQLiteStore) CountUsers() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) CountDocuments() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Path returns the database file path (or ":memory:" for in-memory stores).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrateUp applies all pending schema migrations.
func (s *SQLiteStore) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteStore) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements the engine.Store interface
var _ engine.Store = (*SQLiteStore)(nil)
