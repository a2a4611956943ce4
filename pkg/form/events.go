package form

import (
	"context"
	"sort"
)

// Listeners is a small event listener table hosts embed to implement
// EventTarget. The zero value is ready to use. It is not safe for concurrent
// use; hosts dispatch from a single event loop.
type Listeners struct {
	next     uint64
	handlers map[string]map[uint64]Handler
}

// AddEventListener binds handler to event and returns a removal function.
func (l *Listeners) AddEventListener(event string, handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	if l.handlers == nil {
		l.handlers = make(map[string]map[uint64]Handler)
	}
	if l.handlers[event] == nil {
		l.handlers[event] = make(map[uint64]Handler)
	}
	l.next++
	id := l.next
	l.handlers[event][id] = handler
	return func() {
		delete(l.handlers[event], id)
	}
}

// Count reports how many listeners are bound to event.
func (l *Listeners) Count(event string) int {
	return len(l.handlers[event])
}

// Dispatch runs the listeners bound to event in registration order and
// reports whether any of them prevented the default action.
func (l *Listeners) Dispatch(ctx context.Context, event string) bool {
	bound := l.handlers[event]
	if len(bound) == 0 {
		return false
	}
	ids := make([]uint64, 0, len(bound))
	for id := range bound {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	evt := &basicEvent{ctx: ctx}
	for _, id := range ids {
		if handler, ok := bound[id]; ok {
			handler(evt)
		}
	}
	return evt.prevented
}

type basicEvent struct {
	ctx       context.Context
	prevented bool
}

func (e *basicEvent) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

func (e *basicEvent) PreventDefault()        { e.prevented = true }
func (e *basicEvent) DefaultPrevented() bool { return e.prevented }
