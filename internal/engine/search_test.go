package engine_test

import (
	"fmt"
	"strings"
	"testing"

	"shelfbot/internal/database"
	"shelfbot/internal/engine"
)

// seedDocuments persists n documents carrying the given tags, owned by a
// dedicated uploader user.
func seedDocuments(t *testing.T, store *database.SQLiteStore, n int, tags []string) {
	t.Helper()

	if err := store.CreateUser(900, "uploader", "Uploader"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("doc-%02d.pdf", i+1)
		if _, err := store.AddDocument(900, "ref-"+name, name, tags); err != nil {
			t.Fatalf("AddDocument() error = %v", err)
		}
	}
}

// runSearch toggles the tags and applies the filter.
func runSearch(t *testing.T, eng *engine.Engine, userID int64, tags ...string) []engine.Directive {
	t.Helper()

	handle(t, eng, userID, engine.TextEvent{Text: "🔍 Search PDFs"})
	for _, tag := range tags {
		handle(t, eng, userID, engine.CallbackEvent{Data: "search_tag_" + tag})
	}
	return handle(t, eng, userID, engine.CallbackEvent{Data: "search_apply"})
}

func TestSearch_ApplyRequiresTags(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	registerUser(t, eng, 1)

	ds := runSearch(t, eng, 1)

	if len(ds) != 1 {
		t.Fatalf("got %d directives, want 1", len(ds))
	}
	ac, ok := ds[0].(engine.AnswerCallback)
	if !ok {
		t.Fatalf("directive = %T, want AnswerCallback", ds[0])
	}
	if !ac.Alert {
		t.Error("tagless apply should alert")
	}
	wantStatus(t, store, 1, engine.StatusSearchSelect)
}

func TestSearch_NoResultsReturnsToMenu(t *testing.T) {
	eng, store, sessions := newTestEngine(t)
	registerUser(t, eng, 1)

	runSearch(t, eng, 1, "subject:math", "exam:quiz")

	wantStatus(t, store, 1, engine.StatusMenuIdle)
	if _, ok := sessions.Results(1); ok {
		t.Error("no results should be cached for an empty search")
	}
}

func TestSearch_ResultsCachedAndShown(t *testing.T) {
	eng, store, sessions := newTestEngine(t)
	seedDocuments(t, store, 3, []string{"subject:math", "exam:final"})
	registerUser(t, eng, 1)

	runSearch(t, eng, 1, "subject:math", "exam:final")

	wantStatus(t, store, 1, engine.StatusSearchResults)

	results, ok := sessions.Results(1)
	if !ok {
		t.Fatal("results not cached")
	}
	if len(results) != 3 {
		t.Errorf("cached %d results, want 3", len(results))
	}

	// Filter draft is spent after apply.
	if _, ok := sessions.SearchDraft(1); ok {
		t.Error("search draft should be cleared after apply")
	}
}

func TestSearch_Cancel(t *testing.T) {
	eng, store, sessions := newTestEngine(t)
	registerUser(t, eng, 1)

	handle(t, eng, 1, engine.TextEvent{Text: "🔍 Search PDFs"})
	handle(t, eng, 1, engine.CallbackEvent{Data: "search_tag_subject:math"})
	handle(t, eng, 1, engine.CallbackEvent{Data: "search_cancel"})

	wantStatus(t, store, 1, engine.StatusMenuIdle)
	if _, ok := sessions.SearchDraft(1); ok {
		t.Error("search draft should be cleared on cancel")
	}
}

func TestSearch_Pagination(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	seedDocuments(t, store, 12, []string{"subject:physics"})
	registerUser(t, eng, 1)

	runSearch(t, eng, 1, "subject:physics")
	wantStatus(t, store, 1, engine.StatusSearchResults)

	t.Run("valid page renders", func(t *testing.T) {
		ds := handle(t, eng, 1, engine.CallbackEvent{Data: "page_3"})

		texts := messageTexts(ds)
		if len(texts) != 1 {
			t.Fatalf("got %d messages, want 1", len(texts))
		}
		want := "(Page 3 of 3)"
		if !strings.Contains(texts[0], want) {
			t.Errorf("page text %q missing %q", texts[0], want)
		}
	})

	t.Run("out of range page is dropped", func(t *testing.T) {
		ds := handle(t, eng, 1, engine.CallbackEvent{Data: "page_4"})
		if len(messageTexts(ds)) != 0 {
			t.Errorf("out-of-range page should emit nothing, got %v", messageTexts(ds))
		}
	})

	t.Run("malformed page is dropped", func(t *testing.T) {
		ds := handle(t, eng, 1, engine.CallbackEvent{Data: "page_xyz"})
		if len(messageTexts(ds)) != 0 {
			t.Errorf("malformed page should emit nothing, got %v", messageTexts(ds))
		}
	})
}

func TestSearch_PageAfterCacheLoss(t *testing.T) {
	eng, store, sessions := newTestEngine(t)
	seedDocuments(t, store, 6, []string{"subject:history"})
	registerUser(t, eng, 1)

	runSearch(t, eng, 1, "subject:history")
	sessions.ClearResults(1)

	ds := handle(t, eng, 1, engine.CallbackEvent{Data: "page_2"})

	wantStatus(t, store, 1, engine.StatusMenuIdle)
	if !findMessage(ds, "⌛ Your session has expired. Please start again.") {
		t.Errorf("expected session-expired message, got %v", messageTexts(ds))
	}
}

func TestSearch_FullTagSetInResults(t *testing.T) {
	eng, store, sessions := newTestEngine(t)
	registerUser(t, eng, 1)

	if err := store.CreateUser(900, "uploader", "Uploader"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := store.AddDocument(900, "ref", "doc.pdf", []string{"subject:math", "exam:final", "class:form4"}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	// Search by a strict subset of the document's tags.
	runSearch(t, eng, 1, "subject:math")

	results, ok := sessions.Results(1)
	if !ok {
		t.Fatal("results not cached")
	}
	if len(results) != 1 {
		t.Fatalf("cached %d results, want 1", len(results))
	}
	if len(results[0].Tags) != 3 {
		t.Errorf("result tags = %v, want the document's full tag set", results[0].Tags)
	}
}
