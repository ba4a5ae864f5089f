package engine

// ListenerID identifies a listener added to an EventWithArg. Zero is never
// returned.
type ListenerID uint32

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// EventWithArg is a multi-cast event with one argument. Listeners run on
// Invoke in the order they were added.
type EventWithArg[T any] struct {
	listeners []listener[T]
	next      ListenerID
}

// AddListener registers callback and returns an ID for RemoveListener. A nil
// callback is ignored and yields 0.
func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.next++
	e.listeners = append(e.listeners, listener[T]{id: e.next, fn: callback})
	return e.next
}

// RemoveListener reports whether id was registered.
func (e *EventWithArg[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls a snapshot of the listeners, so a listener may remove itself.
func (e *EventWithArg[T]) Invoke(arg T) {
	for _, l := range append([]listener[T](nil), e.listeners...) {
		l.fn(arg)
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
