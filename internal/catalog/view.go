package catalog

import "github.com/altamash-faraz/itemcatalog/internal/model"

// MessageKind classifies a user-facing message.
type MessageKind string

// Message kinds. Success messages are transient; error messages stay until
// dismissed; warnings are persistent banners.
const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// View is the display sink the controller renders into. The view never
// reaches into the controller; it receives item lists and messages, and
// feeds user input back as Intents.
type View interface {
	// RenderItems displays the given item list.
	RenderItems(items []model.Item)

	// ShowMessage displays a transient or dismissable message.
	ShowMessage(kind MessageKind, text string)

	// ShowWarning displays a persistent warning banner.
	ShowWarning(text string)
}
