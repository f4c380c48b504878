package session

// Variant classifies a notification for presentation.
type Variant string

const (
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Notification describes a terminal outcome of an auth operation. Every
// success or failure of login, signup, and logout surfaces exactly one.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier presents notifications to the user. The CLI prints them; the
// dashboard flashes them; tests record them.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// NopNotifier discards all notifications.
var NopNotifier = NotifierFunc(func(Notification) {})
