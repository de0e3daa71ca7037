package engine

import (
	"fmt"
	"strconv"
)

// handleView opens the detail view for one document. Legal from the
// results page and from the detail view itself; ignored elsewhere.
func (e *Engine) handleView(userID int64, status Status, idStr string, ds []Directive) ([]Directive, error) {
	if status != StatusSearchResults && status != StatusViewDocument {
		e.logger.Debug("view callback ignored", "user", userID, "status", status)
		return ds, nil
	}

	docID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return ds, nil
	}

	detail, err := e.store.GetDocumentDetail(docID, userID)
	if err != nil {
		return e.storeFailure("loading document", err)
	}
	if detail == nil {
		return append(ds, SendMessage{Text: msgDocNotFound}), nil
	}

	if err := e.store.SetStatus(userID, string(StatusViewDocument)); err != nil {
		return e.storeFailure("entering document view", err)
	}

	ds = append(ds, SendMessage{
		Text: fmt.Sprintf(msgDocumentDetail,
			detail.FileName, joinTags(detail.Tags), detail.LikeCount, detail.DownloadCount),
		Keyboard: detailKeyboard(detail.ID, detail.ViewerLiked),
	})
	return ds, nil
}

// handleLike toggles the viewer's like and refreshes the detail keyboard.
// Legal only from the detail view.
func (e *Engine) handleLike(userID int64, status Status, idStr string, ds []Directive) ([]Directive, error) {
	if status != StatusViewDocument {
		e.logger.Debug("like callback ignored", "user", userID, "status", status)
		return ds, nil
	}

	docID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return ds, nil
	}

	detail, err := e.store.GetDocumentDetail(docID, userID)
	if err != nil {
		return e.storeFailure("loading document", err)
	}
	if detail == nil {
		return append(ds, SendMessage{Text: msgDocNotFound}), nil
	}

	liked, err := e.store.ToggleLike(docID, userID)
	if err != nil {
		return e.storeFailure("toggling like", err)
	}

	ds = append(ds, EditMessageKeyboard{Keyboard: detailKeyboard(docID, liked)})
	ds = append(ds, AnswerCallback{Text: msgLikeUpdated})
	return ds, nil
}

// handleDownload records the download and sends the file. The download
// counter only moves on the user's first download of the document.
func (e *Engine) handleDownload(userID int64, status Status, idStr string, ds []Directive) ([]Directive, error) {
	if status != StatusViewDocument {
		e.logger.Debug("download callback ignored", "user", userID, "status", status)
		return ds, nil
	}

	docID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return ds, nil
	}

	fileRef, err := e.store.GetFileRef(docID)
	if err != nil {
		return e.storeFailure("resolving file", err)
	}
	if fileRef == "" {
		return append(ds, SendMessage{Text: msgDocNotFound}), nil
	}

	if err := e.store.RecordDownload(docID, userID); err != nil {
		return e.storeFailure("recording download", err)
	}

	return append(ds, SendDocument{FileRef: fileRef}), nil
}

// handleBackToMenu clears all ephemeral state and returns to the menu.
func (e *Engine) handleBackToMenu(userID int64, ds []Directive) ([]Directive, error) {
	e.sessions.ClearUploadDraft(userID)
	e.sessions.ClearSearchDraft(userID)
	e.sessions.ClearResults(userID)

	if err := e.store.SetStatus(userID, string(StatusMenuIdle)); err != nil {
		return e.storeFailure("returning to menu", err)
	}

	ds = append(ds, SendMessage{Text: msgMainMenu, Keyboard: mainMenuKeyboard()})
	ds = append(ds, DeleteMessage{})
	return ds, nil
}

// handleBackToResults leaves the detail view. If the result cache is still
// alive the user lands on page one of it, otherwise on the menu.
func (e *Engine) handleBackToResults(userID int64, status Status, ds []Directive) ([]Directive, error) {
	if status != StatusViewDocument {
		e.logger.Debug("back_to_results callback ignored", "user", userID, "status", status)
		return ds, nil
	}

	results, ok := e.sessions.Results(userID)
	if !ok {
		return e.resetToMenuAfter(userID, ds)
	}

	if err := e.store.SetStatus(userID, string(StatusSearchResults)); err != nil {
		return e.storeFailure("returning to results", err)
	}

	ds = append(ds, SendMessage{
		Text:     resultsPageText(results, 1),
		Keyboard: resultsKeyboard(results, 1),
	})
	return ds, nil
}

// resetToMenuAfter is resetToMenu preserving already-emitted directives.
func (e *Engine) resetToMenuAfter(userID int64, ds []Directive) ([]Directive, error) {
	md, err := e.resetToMenu(userID)
	if err != nil {
		return md, err
	}
	return append(ds, md...), nil
}

// handleMyDownloads renders the caller's download history from the menu.
// The status stays at the idle menu.
func (e *Engine) handleMyDownloads(userID int64) ([]Directive, error) {
	docs, err := e.store.ListDownloads(userID)
	if err != nil {
		return e.storeFailure("listing downloads", err)
	}

	if len(docs) == 0 {
		return []Directive{SendMessage{Text: msgNoDownloads}}, nil
	}

	text := msgDownloadsHead
	for _, doc := range docs {
		text += fmt.Sprintf("\n📄 %s\n   🏷️ %s\n   ❤️ %d likes\n", doc.FileName, joinTags(doc.Tags), doc.LikeCount)
	}
	return []Directive{SendMessage{Text: text}}, nil
}
