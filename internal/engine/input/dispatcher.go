package input

// Listener receives dispatched events.
type Listener func(Event)

type subscription struct {
	id uint64
	t  EventType
	fn Listener
}

// Dispatcher fans events out to listeners by type. It runs on the main
// thread only.
type Dispatcher struct {
	subs   []subscription
	nextID uint64
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers fn for events of type t and returns a function that
// removes it. Calling the returned function more than once is safe.
func (d *Dispatcher) Subscribe(t EventType, fn Listener) (unsubscribe func()) {
	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription{id: id, t: t, fn: fn})

	return func() {
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers e to every listener of its type in subscription order.
func (d *Dispatcher) Dispatch(e Event) {
	// Listeners may unsubscribe while we iterate
	subs := make([]subscription, len(d.subs))
	copy(subs, d.subs)
	for _, s := range subs {
		if s.t == e.Type {
			s.fn(e)
		}
	}
}

// ListenerCount returns how many listeners are registered for t.
func (d *Dispatcher) ListenerCount(t EventType) int {
	n := 0
	for _, s := range d.subs {
		if s.t == t {
			n++
		}
	}
	return n
}
