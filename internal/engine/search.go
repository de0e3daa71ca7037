package engine

import "strconv"

// handleSearchTagToggle toggles a tag on the search filter and re-renders
// the keyboard in place.
func (e *Engine) handleSearchTagToggle(userID int64, status Status, tag string, ds []Directive) ([]Directive, error) {
	if status != StatusSearchSelect {
		return append(ds, SendMessage{Text: msgActionNotAllowed}), nil
	}

	draft, ok := e.sessions.SearchDraft(userID)
	if !ok {
		return e.sessionExpired(userID, ds)
	}

	if !ValidTag(tag) {
		e.logger.Warn("tag outside catalog ignored", "user", userID, "tag", tag)
		return ds, nil
	}

	draft.Tags = toggleTag(draft.Tags, tag)
	e.sessions.SetSearchDraft(userID, draft)

	return append(ds, EditMessageKeyboard{Keyboard: tagSelectionKeyboard("search", draft.Tags)}), nil
}

// handleSearchApply runs the tag intersection query, caches the result
// sequence, and shows the first page. An empty result goes straight back
// to the menu. Requires at least one tag.
func (e *Engine) handleSearchApply(userID int64, status Status, ds []Directive) ([]Directive, error) {
	if status != StatusSearchSelect {
		return append(ds, SendMessage{Text: msgActionNotAllowed}), nil
	}

	draft, ok := e.sessions.SearchDraft(userID)
	if !ok {
		return e.sessionExpired(userID, ds)
	}

	if len(draft.Tags) == 0 {
		return []Directive{AnswerCallback{Text: msgSearchTagRequired, Alert: true}}, nil
	}

	results, err := e.store.FindDocumentsByTags(draft.Tags)
	if err != nil {
		return e.storeFailure("searching documents", err)
	}

	e.sessions.ClearSearchDraft(userID)

	if len(results) == 0 {
		if err := e.store.SetStatus(userID, string(StatusMenuIdle)); err != nil {
			return e.storeFailure("returning to menu", err)
		}
		ds = append(ds, EditMessageText{Text: msgNoResults})
		ds = append(ds, SendMessage{Text: msgMainMenu, Keyboard: mainMenuKeyboard()})
		return ds, nil
	}

	e.sessions.SetResults(userID, results)

	if err := e.store.SetStatus(userID, string(StatusSearchResults)); err != nil {
		return e.storeFailure("advancing to results", err)
	}

	e.logger.Debug("search executed", "user", userID, "filters", len(draft.Tags), "hits", len(results))

	ds = append(ds, SendMessage{
		Text:     resultsPageText(results, 1),
		Keyboard: resultsKeyboard(results, 1),
	})
	ds = append(ds, DeleteMessage{})
	return ds, nil
}

// handleSearchCancel discards the filter draft and returns to the menu.
func (e *Engine) handleSearchCancel(userID int64, status Status, ds []Directive) ([]Directive, error) {
	if status != StatusSearchSelect {
		return ds, nil
	}

	e.sessions.ClearSearchDraft(userID)
	if err := e.store.SetStatus(userID, string(StatusMenuIdle)); err != nil {
		return e.storeFailure("returning to menu", err)
	}

	ds = append(ds, EditMessageText{Text: msgSearchCancelled})
	ds = append(ds, SendMessage{Text: msgMainMenu, Keyboard: mainMenuKeyboard()})
	return ds, nil
}

// handlePage re-renders a page of the cached results. A missing cache is
// session loss; a malformed page number is dropped.
func (e *Engine) handlePage(userID int64, status Status, pageStr string, ds []Directive) ([]Directive, error) {
	if status != StatusSearchResults {
		e.logger.Debug("page callback ignored", "user", userID, "status", status)
		return ds, nil
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return ds, nil
	}

	results, ok := e.sessions.Results(userID)
	if !ok {
		return e.sessionExpired(userID, ds)
	}

	totalPages := (len(results) + pageSize - 1) / pageSize
	if page > totalPages {
		return ds, nil
	}

	ds = append(ds, SendMessage{
		Text:     resultsPageText(results, page),
		Keyboard: resultsKeyboard(results, page),
	})
	return ds, nil
}
