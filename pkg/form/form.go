package form

import "context"

// Input types the validation and submission flow care about.
const (
	TypeText   = "text"
	TypeSubmit = "submit"
	TypeHidden = "hidden"
)

// EventClick is the event name bound on the submission trigger.
const EventClick = "click"

// Input is a single named control exposed by a host form.
type Input interface {
	Name() string
	Type() string
	Value() string
	SetValue(value string)
}

// Form is the host container that owns the inputs and performs the real
// submission once the controller lets it through.
type Form interface {
	Inputs() []Input
	Submit(ctx context.Context) error
}

// Decorated is implemented by inputs that can display validation feedback:
// toggled state classes plus an adjacent error slot whose content is replaced
// on every call.
type Decorated interface {
	ToggleClass(class string, on bool)
	SetErrorText(text string)
}

// Event is delivered to listeners bound on an EventTarget.
type Event interface {
	Context() context.Context
	PreventDefault()
	DefaultPrevented() bool
}

// Handler reacts to an event.
type Handler func(Event)

// EventTarget is implemented by inputs that accept listener bindings. The
// returned function removes the binding; calling it more than once is safe.
type EventTarget interface {
	AddEventListener(event string, handler Handler) (remove func())
}
