package database

import (
	"testing"

	"shelfbot/internal/database/migrations"
	"shelfbot/internal/model"
)

// newTestStore creates a new in-memory store with schema applied.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	sqlDB, err := OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// An in-memory database exists per connection; pin the pool to one
	// so migrations and queries see the same database.
	sqlDB.SetMaxOpenConns(1)

	if err := migrations.MigrateUp(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	store := NewSQLiteStoreFromDB(sqlDB, nil)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// addUser creates a user and walks it to the idle menu status.
func addUser(t *testing.T, store *SQLiteStore, id int64) {
	t.Helper()
	if err := store.CreateUser(id, "someone", "Someone"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := store.SetStatus(id, "sys.menu.idle"); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
}

// addDoc inserts a document owned by ownerID with the given tags.
func addDoc(t *testing.T, store *SQLiteStore, ownerID int64, name string, tags []string) int64 {
	t.Helper()
	id, err := store.AddDocument(ownerID, "file-ref-"+name, name, tags)
	if err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	return id
}

func TestSQLiteStore_GetUser(t *testing.T) {
	t.Run("returns nil when user not found", func(t *testing.T) {
		store := newTestStore(t)

		user, err := store.GetUser(42)
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
	})

	t.Run("finds created user with registration status", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.CreateUser(42, "amina", "Amina"); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}

		user, err := store.GetUser(42)
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.Username != "amina" {
			t.Errorf("Username = %q, want %q", user.Username, "amina")
		}
		if user.Status != "auth.register.name" {
			t.Errorf("Status = %q, want %q", user.Status, "auth.register.name")
		}
	})
}

func TestSQLiteStore_UpdateUser(t *testing.T) {
	store := newTestStore(t)
	addUser(t, store, 1)

	region := "Banaadir"
	class := "form3"
	if err := store.UpdateUser(1, model.UserUpdate{Region: &region, Class: &class}); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	user, err := store.GetUser(1)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.Region != "Banaadir" {
		t.Errorf("Region = %q, want %q", user.Region, "Banaadir")
	}
	if user.Class != "form3" {
		t.Errorf("Class = %q, want %q", user.Class, "form3")
	}
	// Untouched fields stay empty
	if user.School != "" {
		t.Errorf("School = %q, want empty", user.School)
	}
}

func TestSQLiteStore_Status(t *testing.T) {
	store := newTestStore(t)

	t.Run("unknown user yields empty status", func(t *testing.T) {
		status, err := store.GetStatus(99)
		if err != nil {
			t.Fatalf("GetStatus() error = %v", err)
		}
		if status != "" {
			t.Errorf("GetStatus() = %q, want empty", status)
		}
	})

	t.Run("set and read back", func(t *testing.T) {
		addUser(t, store, 7)

		if err := store.SetStatus(7, "upload.pdf.file"); err != nil {
			t.Fatalf("SetStatus() error = %v", err)
		}

		status, err := store.GetStatus(7)
		if err != nil {
			t.Fatalf("GetStatus() error = %v", err)
		}
		if status != "upload.pdf.file" {
			t.Errorf("GetStatus() = %q, want %q", status, "upload.pdf.file")
		}
	})
}

func TestSQLiteStore_FindDocumentsByTags(t *testing.T) {
	store := newTestStore(t)
	addUser(t, store, 1)

	mathFinal := addDoc(t, store, 1, "math-final.pdf", []string{"subject:math", "exam:final", "class:form4"})
	mathQuiz := addDoc(t, store, 1, "math-quiz.pdf", []string{"subject:math", "exam:quiz"})
	physics := addDoc(t, store, 1, "physics.pdf", []string{"subject:physics", "exam:final"})

	t.Run("single tag matches all documents carrying it", func(t *testing.T) {
		docs, err := store.FindDocumentsByTags([]string{"subject:math"})
		if err != nil {
			t.Fatalf("FindDocumentsByTags() error = %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("got %d documents, want 2", len(docs))
		}
		if docs[0].ID != mathFinal || docs[1].ID != mathQuiz {
			t.Errorf("got ids %d, %d, want %d, %d", docs[0].ID, docs[1].ID, mathFinal, mathQuiz)
		}
	})

	t.Run("intersection requires every tag", func(t *testing.T) {
		docs, err := store.FindDocumentsByTags([]string{"subject:math", "exam:final"})
		if err != nil {
			t.Fatalf("FindDocumentsByTags() error = %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("got %d documents, want 1", len(docs))
		}
		if docs[0].ID != mathFinal {
			t.Errorf("got id %d, want %d", docs[0].ID, mathFinal)
		}
	})

	t.Run("result carries the full tag set", func(t *testing.T) {
		docs, err := store.FindDocumentsByTags([]string{"subject:math", "exam:final"})
		if err != nil {
			t.Fatalf("FindDocumentsByTags() error = %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("got %d documents, want 1", len(docs))
		}
		want := []string{"subject:math", "exam:final", "class:form4"}
		got := docs[0].Tags
		if len(got) != len(want) {
			t.Fatalf("got tags %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("no document matches disjoint filter", func(t *testing.T) {
		docs, err := store.FindDocumentsByTags([]string{"exam:quiz", "subject:physics"})
		if err != nil {
			t.Fatalf("FindDocumentsByTags() error = %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("got %d documents, want 0", len(docs))
		}
		_ = physics
	})

	t.Run("empty filter returns nothing", func(t *testing.T) {
		docs, err := store.FindDocumentsByTags(nil)
		if err != nil {
			t.Fatalf("FindDocumentsByTags() error = %v", err)
		}
		if docs != nil {
			t.Errorf("got %v, want nil", docs)
		}
	})
}

func TestSQLiteStore_ToggleLike(t *testing.T) {
	store := newTestStore(t)
	addUser(t, store, 1)
	addUser(t, store, 2)
	docID := addDoc(t, store, 1, "doc.pdf", []string{"subject:math"})

	likeCount := func() int64 {
		t.Helper()
		detail, err := store.GetDocumentDetail(docID, 2)
		if err != nil {
			t.Fatalf("GetDocumentDetail() error = %v", err)
		}
		return detail.LikeCount
	}

	// First toggle likes
	liked, err := store.ToggleLike(docID, 2)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if !liked {
		t.Error("first toggle: liked = false, want true")
	}
	if n := likeCount(); n != 1 {
		t.Errorf("like count = %d, want 1", n)
	}

	// Second toggle unlikes, counter returns to baseline
	liked, err = store.ToggleLike(docID, 2)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if liked {
		t.Error("second toggle: liked = true, want false")
	}
	if n := likeCount(); n != 0 {
		t.Errorf("like count = %d, want 0", n)
	}

	// Likes from different users accumulate
	if _, err := store.ToggleLike(docID, 1); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if _, err := store.ToggleLike(docID, 2); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if n := likeCount(); n != 2 {
		t.Errorf("like count = %d, want 2", n)
	}
}

func TestSQLiteStore_GetDocumentDetail_ViewerLiked(t *testing.T) {
	store := newTestStore(t)
	addUser(t, store, 1)
	addUser(t, store, 2)
	docID := addDoc(t, store, 1, "doc.pdf", []string{"subject:math"})

	if _, err := store.ToggleLike(docID, 2); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}

	detail, err := store.GetDocumentDetail(docID, 2)
	if err != nil {
		t.Fatalf("GetDocumentDetail() error = %v", err)
	}
	if !detail.ViewerLiked {
		t.Error("ViewerLiked = false for liking viewer, want true")
	}

	detail, err = store.GetDocumentDetail(docID, 1)
	if err != nil {
		t.Fatalf("GetDocumentDetail() error = %v", err)
	}
	if detail.ViewerLiked {
		t.Error("ViewerLiked = true for other viewer, want false")
	}
}

func TestSQLiteStore_RecordDownload(t *testing.T) {
	store := newTestStore(t)
	addUser(t, store, 1)
	addUser(t, store, 2)
	docID := addDoc(t, store, 1, "doc.pdf", []string{"subject:math"})

	downloadCount := func() int64 {
		t.Helper()
		detail, err := store.GetDocumentDetail(docID, 2)
		if err != nil {
			t.Fatalf("GetDocumentDetail() error = %v", err)
		}
		return detail.DownloadCount
	}

	// Repeat downloads by the same user count once
	for i := 0; i < 3; i++ {
		if err := store.RecordDownload(docID, 2); err != nil {
			t.Fatalf("RecordDownload() iteration %d error = %v", i+1, err)
		}
	}
	if n := downloadCount(); n != 1 {
		t.Errorf("download count = %d, want 1", n)
	}

	// A second user moves the counter again
	if err := store.RecordDownload(docID, 1); err != nil {
		t.Fatalf("RecordDownload() error = %v", err)
	}
	if n := downloadCount(); n != 2 {
		t.Errorf("download count = %d, want 2", n)
	}
}

func TestSQLiteStore_ListDownloads(t *testing.T) {
	store := newTestStore(t)
	addUser(t, store, 1)

	t.Run("empty without downloads", func(t *testing.T) {
		docs, err := store.ListDownloads(1)
		if err != nil {
			t.Fatalf("ListDownloads() error = %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("got %d documents, want 0", len(docs))
		}
	})

	t.Run("lists downloaded documents with tags", func(t *testing.T) {
		a := addDoc(t, store, 1, "a.pdf", []string{"subject:math", "exam:final"})
		b := addDoc(t, store, 1, "b.pdf", []string{"subject:physics"})

		if err := store.RecordDownload(a, 1); err != nil {
			t.Fatalf("RecordDownload() error = %v", err)
		}
		if err := store.RecordDownload(b, 1); err != nil {
			t.Fatalf("RecordDownload() error = %v", err)
		}

		docs, err := store.ListDownloads(1)
		if err != nil {
			t.Fatalf("ListDownloads() error = %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("got %d documents, want 2", len(docs))
		}
		for _, d := range docs {
			if len(d.Tags) == 0 {
				t.Errorf("document %d has no tags", d.ID)
			}
		}
	})
}

func TestSQLiteStore_GetFileRef(t *testing.T) {
	store := newTestStore(t)
	addUser(t, store, 1)
	docID := addDoc(t, store, 1, "doc.pdf", []string{"subject:math"})

	ref, err := store.GetFileRef(docID)
	if err != nil {
		t.Fatalf("GetFileRef() error = %v", err)
	}
	if ref != "file-ref-doc.pdf" {
		t.Errorf("GetFileRef() = %q, want %q", ref, "file-ref-doc.pdf")
	}

	ref, err = store.GetFileRef(9999)
	if err != nil {
		t.Fatalf("GetFileRef() error = %v", err)
	}
	if ref != "" {
		t.Errorf("GetFileRef() = %q for missing document, want empty", ref)
	}
}

func TestSQLiteStore_Counts(t *testing.T) {
	store := newTestStore(t)
	addUser(t, store, 1)
	addUser(t, store, 2)
	addDoc(t, store, 1, "doc.pdf", []string{"subject:math"})

	users, err := store.CountUsers()
	if err != nil {
		t.Fatalf("CountUsers() error = %v", err)
	}
	if users != 2 {
		t.Errorf("CountUsers() = %d, want 2", users)
	}

	docs, err := store.CountDocuments()
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if docs != 1 {
		t.Errorf("CountDocuments() = %d, want 1", docs)
	}
}
