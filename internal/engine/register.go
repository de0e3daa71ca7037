package engine

import "shelfbot/internal/model"

// handleStart handles the /start command. Existing users are returned to
// the idle menu; new users enter the registration flow.
func (e *Engine) handleStart(userID int64, ev TextEvent) ([]Directive, error) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		return e.storeFailure("loading user", err)
	}

	if user != nil {
		return e.resetToMenu(userID)
	}

	if err := e.store.CreateUser(userID, ev.Username, ev.FirstName); err != nil {
		return e.storeFailure("creating user", err)
	}
	e.logger.Info("registration started", "user", userID)
	return []Directive{SendMessage{Text: msgRegisterName}}, nil
}

// handleRegistrationText advances the linear registration flow by one
// step: store the answer, move to the next prompt.
func (e *Engine) handleRegistrationText(userID int64, status Status, text string) ([]Directive, error) {
	type step struct {
		update model.UserUpdate
		next   Status
		prompt string
	}

	var s step
	switch status {
	case StatusRegisterName:
		s = step{model.UserUpdate{FullName: &text}, StatusRegisterRegion, msgRegisterRegion}
	case StatusRegisterRegion:
		s = step{model.UserUpdate{Region: &text}, StatusRegisterSchool, msgRegisterSchool}
	case StatusRegisterSchool:
		s = step{model.UserUpdate{School: &text}, StatusRegisterClass, msgRegisterClass}
	case StatusRegisterClass:
		s = step{model.UserUpdate{Class: &text}, StatusMenuIdle, msgRegisterComplete}
	}

	if err := e.store.UpdateUser(userID, s.update); err != nil {
		return e.storeFailure("updating user", err)
	}
	if err := e.store.SetStatus(userID, string(s.next)); err != nil {
		return e.storeFailure("advancing status", err)
	}

	ds := []Directive{SendMessage{Text: s.prompt}}
	if s.next == StatusMenuIdle {
		ds = append(ds, SendMessage{Text: msgMainMenu, Keyboard: mainMenuKeyboard()})
	}
	return ds, nil
}

// handleMenuSelection branches from the idle menu into a flow.
func (e *Engine) handleMenuSelection(userID int64, text string) ([]Directive, error) {
	switch text {
	case menuUpload:
		if err := e.store.SetStatus(userID, string(StatusUploadFile)); err != nil {
			return e.storeFailure("entering upload flow", err)
		}
		return []Directive{SendMessage{Text: msgUploadPrompt}}, nil

	case menuSearch:
		if err := e.store.SetStatus(userID, string(StatusSearchSelect)); err != nil {
			return e.storeFailure("entering search flow", err)
		}
		e.sessions.SetSearchDraft(userID, &SearchDraft{})
		return []Directive{
			SendMessage{Text: msgTagPrompt, Keyboard: tagSelectionKeyboard("search", nil)},
		}, nil

	case menuDownloads:
		return e.handleMyDownloads(userID)

	default:
		return []Directive{SendMessage{Text: msgInvalidOption}}, nil
	}
}
