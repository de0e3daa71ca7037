package engine

// handleDocument handles a file attachment. Only accepted while the user
// is in the upload flow waiting for a file, and only for PDFs.
func (e *Engine) handleDocument(userID int64, ev DocumentEvent) ([]Directive, error) {
	status, err := e.currentStatus(userID)
	if err != nil {
		return e.storeFailure("reading status", err)
	}

	if status != StatusUploadFile {
		return []Directive{SendMessage{Text: msgUploadNotExpected}}, nil
	}

	if ev.MIMEType != "application/pdf" {
		return []Directive{SendMessage{Text: msgUploadOnlyPDF}}, nil
	}

	e.sessions.SetUploadDraft(userID, &UploadDraft{
		FileRef:  ev.FileRef,
		FileName: ev.FileName,
	})

	if err := e.store.SetStatus(userID, string(StatusUploadTags)); err != nil {
		return e.storeFailure("advancing to tag selection", err)
	}

	return []Directive{
		SendMessage{Text: msgTagPrompt, Keyboard: tagSelectionKeyboard("upload", nil)},
	}, nil
}

// handleUploadTagToggle toggles a tag on the upload draft and re-renders
// the keyboard in place.
func (e *Engine) handleUploadTagToggle(userID int64, status Status, tag string, ds []Directive) ([]Directive, error) {
	if status != StatusUploadTags {
		return append(ds, SendMessage{Text: msgActionNotAllowed}), nil
	}

	draft, ok := e.sessions.UploadDraft(userID)
	if !ok {
		return e.sessionExpired(userID, ds)
	}

	if !ValidTag(tag) {
		e.logger.Warn("tag outside catalog ignored", "user", userID, "tag", tag)
		return ds, nil
	}

	draft.Tags = toggleTag(draft.Tags, tag)
	e.sessions.SetUploadDraft(userID, draft)

	return append(ds, EditMessageKeyboard{Keyboard: tagSelectionKeyboard("upload", draft.Tags)}), nil
}

// handleUploadDone commits the draft: persists the document with its tags,
// clears the draft, and returns to the menu. Requires at least one tag.
func (e *Engine) handleUploadDone(userID int64, status Status, ds []Directive) ([]Directive, error) {
	if status != StatusUploadTags {
		return append(ds, SendMessage{Text: msgActionNotAllowed}), nil
	}

	draft, ok := e.sessions.UploadDraft(userID)
	if !ok {
		return e.sessionExpired(userID, ds)
	}

	if len(draft.Tags) == 0 {
		// Replace the plain ack with an alert so the user sees why
		// nothing happened.
		return []Directive{AnswerCallback{Text: msgTagRequired, Alert: true}}, nil
	}

	docID, err := e.store.AddDocument(userID, draft.FileRef, draft.FileName, draft.Tags)
	if err != nil {
		return e.storeFailure("persisting document", err)
	}

	e.sessions.ClearUploadDraft(userID)

	if err := e.store.SetStatus(userID, string(StatusMenuIdle)); err != nil {
		return e.storeFailure("returning to menu", err)
	}

	e.logger.Info("document uploaded", "user", userID, "doc", docID, "tags", len(draft.Tags))

	ds = append(ds, EditMessageText{Text: msgUploadSuccess})
	ds = append(ds, SendMessage{Text: msgMainMenu, Keyboard: mainMenuKeyboard()})
	return ds, nil
}

// handleUploadCancel discards the draft from either upload step.
func (e *Engine) handleUploadCancel(userID int64, status Status, ds []Directive) ([]Directive, error) {
	if status != StatusUploadTags && status != StatusUploadFile {
		return ds, nil
	}

	e.sessions.ClearUploadDraft(userID)
	if err := e.store.SetStatus(userID, string(StatusMenuIdle)); err != nil {
		return e.storeFailure("returning to menu", err)
	}

	ds = append(ds, EditMessageText{Text: msgUploadCancelled})
	ds = append(ds, SendMessage{Text: msgMainMenu, Keyboard: mainMenuKeyboard()})
	return ds, nil
}
