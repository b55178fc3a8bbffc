package pipeline

import (
	"fmt"
	"io"
)

// NotificationKind is the severity of a user-facing notification.
type NotificationKind int

const (
	Message NotificationKind = iota
	Warning
	Error
)

func (k NotificationKind) String() string {
	switch k {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "message"
}

// Notifier shows messages to the user.
type Notifier interface {
	Notify(kind NotificationKind, message string)
}

// WriterNotifier prints notifications to W.
type WriterNotifier struct {
	W io.Writer
}

// Notify implements Notifier.
func (n WriterNotifier) Notify(kind NotificationKind, message string) {
	fmt.Fprintf(n.W, "[%s] %s\n", kind, message)
}

// Notifiers forwards every notification to each of its members.
type Notifiers []Notifier

// Notify implements Notifier.
func (ns Notifiers) Notify(kind NotificationKind, message string) {
	for _, n := range ns {
		n.Notify(kind, message)
	}
}
