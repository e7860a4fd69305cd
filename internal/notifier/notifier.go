package notifier

import "context"

// Event is a side-channel notification about an approval outcome or an
// operational failure worth paging someone over.
type Event struct {
	Kind    string // decision | issue_failed | process_failed
	Module  string
	TaskID  int
	Message string
}

// Sink receives side-channel events. The process-wide instance is owned by
// application startup and injected; components never construct their own.
type Sink interface {
	Notify(ctx context.Context, event Event)
}

// Noop discards all events.
type Noop struct{}

func (Noop) Notify(ctx context.Context, event Event) {}
