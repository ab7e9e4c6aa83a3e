package engine

import "fmt"

// EventKind identifies one of the scheduler's lifecycle events
type EventKind uint8

const (
	// BeforeTick fires at the start of every running frame, before diagnostics update
	BeforeTick EventKind = iota
	// PhysicsTick fires once per frame unless the freeze check suppresses it
	PhysicsTick
	// AfterTick fires at the end of every running frame, after any physics step
	AfterTick

	eventKindCount
)

// String returns the event name used in logs
func (k EventKind) String() string {
	switch k {
	case BeforeTick:
		return "beforeTick"
	case PhysicsTick:
		return "physicsTick"
	case AfterTick:
		return "afterTick"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the fixed kinds
func (k EventKind) Valid() bool {
	return k < eventKindCount
}

// Subscription identifies one registration; the zero value matches nothing
type Subscription struct {
	kind EventKind
	id   uint64
}

// Kind returns the event the subscription is bound to
func (s Subscription) Kind() EventKind {
	return s.kind
}

// Valid reports whether the subscription came from a successful On
func (s Subscription) Valid() bool {
	return s.id != 0
}

type subscriber struct {
	id uint64
	fn func()
}

// eventRegistry keeps one ordered subscriber list per kind
// Registering the same func twice yields two independent entries
type eventRegistry struct {
	lists  [eventKindCount][]subscriber
	nextID uint64
}

func (r *eventRegistry) add(kind EventKind, fn func()) Subscription {
	r.nextID++
	r.lists[kind] = append(r.lists[kind], subscriber{id: r.nextID, fn: fn})
	return Subscription{kind: kind, id: r.nextID}
}

func (r *eventRegistry) remove(sub Subscription) bool {
	if !sub.Valid() || !sub.kind.Valid() {
		return false
	}
	list := r.lists[sub.kind]
	for i, s := range list {
		if s.id == sub.id {
			// Fresh backing array so an in-flight snapshot is never rewritten
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			r.lists[sub.kind] = next
			return true
		}
	}
	return false
}

// snapshot returns the current list; add only appends and remove reallocates, so it is stable to iterate
func (r *eventRegistry) snapshot(kind EventKind) []subscriber {
	list := r.lists[kind]
	return list[:len(list):len(list)]
}

func (r *eventRegistry) count(kind EventKind) int {
	return len(r.lists[kind])
}
