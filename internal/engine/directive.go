package engine

// Directive is an outbound presentation instruction. The engine returns an
// ordered list of directives per event; the transport adapter must apply
// them in order.
type Directive interface {
	isDirective()
}

// SendMessage sends a new message, optionally with a keyboard attached.
type SendMessage struct {
	Text     string
	Keyboard *Keyboard
}

// EditMessageText replaces the text of the message the triggering callback
// button was attached to.
type EditMessageText struct {
	Text string
}

// EditMessageKeyboard replaces the keyboard of the message the triggering
// callback button was attached to.
type EditMessageKeyboard struct {
	Keyboard *Keyboard
}

// DeleteMessage removes the message the triggering callback button was
// attached to.
type DeleteMessage struct{}

// SendDocument sends the file identified by the opaque transport reference.
type SendDocument struct {
	FileRef string
}

// AnswerCallback acknowledges a callback, optionally with a toast (Alert
// false) or a modal alert (Alert true).
type AnswerCallback struct {
	Text  string
	Alert bool
}

func (SendMessage) isDirective()         {}
func (EditMessageText) isDirective()     {}
func (EditMessageKeyboard) isDirective() {}
func (DeleteMessage) isDirective()       {}
func (SendDocument) isDirective()        {}
func (AnswerCallback) isDirective()      {}

// Keyboard is a transport-agnostic keyboard layout. Inline keyboards carry
// callback data per button; reply keyboards carry only labels.
type Keyboard struct {
	Inline bool
	Rows   [][]Button
}

// Button is a single keyboard button. Data is empty for reply-keyboard
// buttons.
type Button struct {
	Label string
	Data  string
}
