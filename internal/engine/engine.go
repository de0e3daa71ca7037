package engine

import (
	"fmt"
	"strings"
	"sync"
)

// lockStripes bounds the lock table. A user's events always hit the
// same stripe, so same-user serialization holds; two users sharing a
// stripe serialize against each other, which costs latency and nothing
// else.
const lockStripes = 64

// Engine interprets inbound events against the user's persisted status and
// session state, mutates the stores, and returns the presentation
// directives to apply.
//
// Same-user events are serialized via a striped lock table: the read-
// modify-write of a user's status and session is atomic with respect to
// other events from that user. Events for different users generally run
// concurrently.
type Engine struct {
	store    Store
	sessions SessionStore
	logger   Logger

	locks [lockStripes]sync.Mutex
}

// New creates an Engine over the given stores.
func New(store Store, sessions SessionStore, logger Logger) *Engine {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Engine{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// lockFor returns the mutex serializing events for one user.
func (e *Engine) lockFor(userID int64) *sync.Mutex {
	return &e.locks[uint64(userID)%lockStripes]
}

// HandleEvent runs one transition. The returned directives must be applied
// in order. A non-nil error means the transition was aborted by a store
// failure; the directives still carry the user-facing failure message.
func (e *Engine) HandleEvent(userID int64, ev Event) ([]Directive, error) {
	l := e.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	switch ev := ev.(type) {
	case TextEvent:
		return e.handleText(userID, ev)
	case DocumentEvent:
		return e.handleDocument(userID, ev)
	case CallbackEvent:
		return e.handleCallback(userID, ev)
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}
}

// handleText routes a text message by the user's current status.
func (e *Engine) handleText(userID int64, ev TextEvent) ([]Directive, error) {
	text := strings.TrimSpace(ev.Text)

	if text == "/start" {
		return e.handleStart(userID, ev)
	}
	if strings.HasPrefix(text, "/") {
		return []Directive{SendMessage{Text: msgUnknownCommand}}, nil
	}

	status, err := e.currentStatus(userID)
	if err != nil {
		return e.storeFailure("reading status", err)
	}

	switch {
	case status == StatusRegisterName, status == StatusRegisterRegion,
		status == StatusRegisterSchool, status == StatusRegisterClass:
		return e.handleRegistrationText(userID, status, text)
	case status == StatusMenuIdle:
		return e.handleMenuSelection(userID, text)
	case status.Domain() == "upload":
		return []Directive{SendMessage{Text: msgUploadExpectFile}}, nil
	case status.Domain() == "search":
		return []Directive{SendMessage{Text: msgSearchUseButtons}}, nil
	case status.Domain() == "view":
		return []Directive{SendMessage{Text: msgViewUseButtons}}, nil
	default:
		// Unknown status value, likely from a newer or older build.
		// Reset to the menu rather than strand the user.
		e.logger.Warn("unknown status, resetting", "user", userID, "status", status)
		return e.resetToMenu(userID)
	}
}

// handleCallback validates the callback's domain prefix against the
// current status, then dispatches. Recognized domain prefixes (upload_,
// search_, auth_, sys_) are checked at intake; the remaining callbacks
// (view_*, like_*, download_*, page_*, back_*, noop) pass through and each
// handler re-validates the status it is legal to act from.
func (e *Engine) handleCallback(userID int64, ev CallbackEvent) ([]Directive, error) {
	status, err := e.currentStatus(userID)
	if err != nil {
		return e.storeFailure("reading status", err)
	}
	if status == "" {
		return []Directive{AnswerCallback{Text: "Please start the bot with /start first."}}, nil
	}

	if domain, ok := callbackDomain(ev.Data); ok && domain != status.Domain() {
		e.logger.Warn("callback rejected by domain check",
			"user", userID, "data", ev.Data, "status", status)
		return []Directive{AnswerCallback{Text: msgActionNotAllowed}}, nil
	}

	// Acknowledge the press up front; handlers append to this.
	ack := []Directive{AnswerCallback{}}

	data := ev.Data
	switch {
	case strings.HasPrefix(data, "upload_tag_"):
		return e.handleUploadTagToggle(userID, status, strings.TrimPrefix(data, "upload_tag_"), ack)
	case data == "upload_done":
		return e.handleUploadDone(userID, status, ack)
	case data == "upload_cancel":
		return e.handleUploadCancel(userID, status, ack)
	case strings.HasPrefix(data, "search_tag_"):
		return e.handleSearchTagToggle(userID, status, strings.TrimPrefix(data, "search_tag_"), ack)
	case data == "search_apply":
		return e.handleSearchApply(userID, status, ack)
	case data == "search_cancel":
		return e.handleSearchCancel(userID, status, ack)
	case strings.HasPrefix(data, "page_"):
		return e.handlePage(userID, status, strings.TrimPrefix(data, "page_"), ack)
	case strings.HasPrefix(data, "view_"):
		return e.handleView(userID, status, strings.TrimPrefix(data, "view_"), ack)
	case strings.HasPrefix(data, "like_"):
		return e.handleLike(userID, status, strings.TrimPrefix(data, "like_"), ack)
	case strings.HasPrefix(data, "download_"):
		return e.handleDownload(userID, status, strings.TrimPrefix(data, "download_"), ack)
	case data == "back_to_menu":
		return e.handleBackToMenu(userID, ack)
	case data == "back_to_results":
		return e.handleBackToResults(userID, status, ack)
	case data == "noop":
		return ack, nil
	default:
		// Unknown payload: tolerate protocol drift, acknowledge and drop.
		e.logger.Warn("unhandled callback data", "user", userID, "data", data)
		return ack, nil
	}
}

// callbackDomain extracts a recognized domain prefix from callback data.
// view_ is deliberately excluded: view buttons are pressed from the search
// results page, so the view handler validates status itself.
func callbackDomain(data string) (string, bool) {
	for _, d := range []string{"upload", "search", "auth", "sys"} {
		if strings.HasPrefix(data, d+"_") {
			return d, true
		}
	}
	return "", false
}

// currentStatus reads the persisted status. Unknown users yield "".
func (e *Engine) currentStatus(userID int64) (Status, error) {
	s, err := e.store.GetStatus(userID)
	if err != nil {
		return "", err
	}
	return Status(s), nil
}

// resetToMenu forces the user back to the idle menu.
func (e *Engine) resetToMenu(userID int64) ([]Directive, error) {
	if err := e.store.SetStatus(userID, string(StatusMenuIdle)); err != nil {
		return e.storeFailure("resetting status", err)
	}
	return []Directive{SendMessage{Text: msgMainMenu, Keyboard: mainMenuKeyboard()}}, nil
}

// sessionExpired is the session-loss transition: reset to the menu and
// tell the user. No recovery is attempted.
func (e *Engine) sessionExpired(userID int64, ds []Directive) ([]Directive, error) {
	if err := e.store.SetStatus(userID, string(StatusMenuIdle)); err != nil {
		return e.storeFailure("resetting status", err)
	}
	ds = append(ds, SendMessage{Text: msgSessionExpired})
	ds = append(ds, SendMessage{Text: msgMainMenu, Keyboard: mainMenuKeyboard()})
	return ds, nil
}

// storeFailure aborts the transition: no state was advanced past the
// failing write, and the user gets a generic retryable message.
func (e *Engine) storeFailure(context string, err error) ([]Directive, error) {
	e.logger.Error("store failure", "context", context, "err", err)
	return []Directive{SendMessage{Text: msgStoreFailure}}, fmt.Errorf("%s: %w", context, err)
}
