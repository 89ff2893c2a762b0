package schedule

import "context"

// Actions performed on a session
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes a change made to the timetable.
type Event struct {
	Action  Action
	Session Session
	// Previous is the session as it was before an update.
	Previous *Session
}

// Notifier is anything that wants to hear about timetable changes.
// Notify must not block the caller for long; failures are the notifier's to report.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}
