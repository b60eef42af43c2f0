package physics

// ContactEvent reports two bodies whose colliders started touching during a
// step.
type ContactEvent struct {
	A BodyHandle
	B BodyHandle
}

// contactQueue is a simple FIFO queue.
type contactQueue struct {
	items []ContactEvent
}

func (q *contactQueue) push(evt ContactEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// drain returns all events and clears the queue.
func (q *contactQueue) drain() []ContactEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *contactQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
