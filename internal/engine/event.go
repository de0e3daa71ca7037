package engine

// Event is an inbound chat event. The transport constructs exactly one of
// the concrete types below per delivery.
type Event interface {
	isEvent()
}

// TextEvent is a plain text message, including commands such as "/start".
// Username and FirstName are the sender's transport profile fields; they
// are only consulted when a new user record is created.
type TextEvent struct {
	Text      string
	Username  string
	FirstName string
}

// DocumentEvent is a file attachment message. FileRef is the transport's
// opaque reference to the stored file; the engine never sees file bytes.
type DocumentEvent struct {
	MIMEType string
	FileRef  string
	FileName string
}

// CallbackEvent is a button press. Data is the callback payload the
// keyboard button was built with.
type CallbackEvent struct {
	Data string
}

func (TextEvent) isEvent()     {}
func (DocumentEvent) isEvent() {}
func (CallbackEvent) isEvent() {}
