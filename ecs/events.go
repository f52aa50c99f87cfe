package ecs

// EventKind identifies what a system reported.
type EventKind string

const (
	// EventReset is emitted when a body is returned to its initial transform.
	// Data is true for a forced reset.
	EventReset EventKind = "reset"
)

// Event is a payload emitted by a system during a frame.
type Event struct {
	Kind   EventKind
	Entity Entity
	Data   any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Emit queues evt on the world until the next DrainEvents.
func (w *World) Emit(evt Event) {
	if w == nil {
		return
	}
	w.events.Push(evt)
}

// DrainEvents returns and clears the events emitted since the last call.
func (w *World) DrainEvents() []Event {
	if w == nil {
		return nil
	}
	return w.events.Drain()
}
