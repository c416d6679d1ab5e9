// Package lifecycle wraps mpci command execution with timing and
// notification dispatch.
package lifecycle

import "time"

// NotificationHandler is satisfied by *notify.Handler. It is declared here
// so lifecycle does not depend on notify.
//
// Implementations must be safe for nil receivers.
type NotificationHandler interface {
	// OnCommandComplete is called when a command finishes.
	OnCommandComplete(name string, success bool, duration time.Duration)

	// OnError is called when a command fails.
	OnError(name string, err error)
}

// Run executes fn, then reports its outcome and duration to handler.
// fn's error is returned unchanged. A nil handler only runs fn.
func Run(handler NotificationHandler, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if handler == nil {
		return err
	}

	handler.OnCommandComplete(name, err == nil, time.Since(start))
	if err != nil {
		handler.OnError(name, err)
	}
	return err
}
