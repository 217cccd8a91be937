package session

import (
	"fmt"
	"io"
)

// Notifier receives the transient, user-visible outcome of a session
// operation. Every operation notifies success or failure before returning;
// callers still get the error and decide any UI-level follow-up themselves.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// WriterNotifier prints notifications to a writer, one per line. The CLI
// wires it to stderr.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Success(msg string) {
	fmt.Fprintln(n.W, msg)
}

func (n WriterNotifier) Error(msg string) {
	fmt.Fprintln(n.W, "Error:", msg)
}
