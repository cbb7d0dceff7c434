package flight

// Event represents a coordinator event type.
type Event int

const (
	// EventStart is emitted when a caller starts a new computation for a key.
	EventStart Event = iota
	// EventShared is emitted when a caller received the outcome of a computation
	// started by another caller.
	EventShared
	// EventSettle is emitted when a computation finishes, successfully or not.
	EventSettle
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventShared:
		return "shared"
	case EventSettle:
		return "settle"
	default:
		return "unknown"
	}
}

// EventData carries the details of a coordinator event.
// Err is only set for EventSettle.
type EventData struct {
	Event Event
	Key   string
	Err   error
}

// Observer receives coordinator events. Implementations must be safe
// for concurrent use.
type Observer interface {
	On(EventData)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(EventData)

// On calls f(data).
func (f ObserverFunc) On(data EventData) {
	f(data)
}

// Option configures a Group.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver attaches an Observer that receives start, shared and settle events.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}
