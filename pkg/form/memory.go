package form

import (
	"context"
	"net/url"
	"sort"
)

// MemoryInput is an in-memory Input that records the feedback applied to it.
type MemoryInput struct {
	name      string
	inputType string
	value     string
	classes   map[string]struct{}
	errorText string
	hasSlot   bool
}

// NewInput creates a text input.
func NewInput(name, value string) *MemoryInput {
	return NewTypedInput(name, TypeText, value)
}

// NewTypedInput creates an input with an explicit type.
func NewTypedInput(name, inputType, value string) *MemoryInput {
	if inputType == "" {
		inputType = TypeText
	}
	return &MemoryInput{name: name, inputType: inputType, value: value}
}

func (i *MemoryInput) Name() string          { return i.name }
func (i *MemoryInput) Type() string          { return i.inputType }
func (i *MemoryInput) Value() string         { return i.value }
func (i *MemoryInput) SetValue(value string) { i.value = value }

// ToggleClass adds or removes a class marker.
func (i *MemoryInput) ToggleClass(class string, on bool) {
	if class == "" {
		return
	}
	if !on {
		delete(i.classes, class)
		return
	}
	if i.classes == nil {
		i.classes = make(map[string]struct{})
	}
	i.classes[class] = struct{}{}
}

// SetErrorText replaces the error slot content, creating the slot on first use.
func (i *MemoryInput) SetErrorText(text string) {
	i.hasSlot = true
	i.errorText = text
}

// HasClass reports whether class is currently applied.
func (i *MemoryInput) HasClass(class string) bool {
	_, ok := i.classes[class]
	return ok
}

// Classes returns the applied classes in sorted order.
func (i *MemoryInput) Classes() []string {
	if len(i.classes) == 0 {
		return nil
	}
	out := make([]string, 0, len(i.classes))
	for class := range i.classes {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// ErrorText returns the current error slot content.
func (i *MemoryInput) ErrorText() string { return i.errorText }

// HasErrorSlot reports whether feedback has been rendered for the input.
func (i *MemoryInput) HasErrorSlot() bool { return i.hasSlot }

// MemoryButton is a submit input that accepts click listeners.
type MemoryButton struct {
	MemoryInput
	Listeners
}

// NewSubmitButton creates a submit input with event support.
func NewSubmitButton(name, label string) *MemoryButton {
	return &MemoryButton{MemoryInput: MemoryInput{name: name, inputType: TypeSubmit, value: label}}
}

// SubmitFunc receives the form values when a Memory form is submitted.
type SubmitFunc func(ctx context.Context, values url.Values) error

// Memory is an in-memory Form. Submissions are counted and forwarded to an
// optional SubmitFunc.
type Memory struct {
	inputs   []Input
	onSubmit SubmitFunc
	submits  int
}

// NewMemory creates a form holding inputs in document order.
func NewMemory(inputs ...Input) *Memory {
	return &Memory{inputs: append([]Input(nil), inputs...)}
}

// OnSubmit sets the callback invoked by Submit.
func (m *Memory) OnSubmit(fn SubmitFunc) *Memory {
	m.onSubmit = fn
	return m
}

// Add appends inputs to the form.
func (m *Memory) Add(inputs ...Input) {
	m.inputs = append(m.inputs, inputs...)
}

// Inputs returns the inputs in document order.
func (m *Memory) Inputs() []Input {
	return append([]Input(nil), m.inputs...)
}

// Input returns the first input named name.
func (m *Memory) Input(name string) Input {
	for _, input := range m.inputs {
		if input.Name() == name {
			return input
		}
	}
	return nil
}

// Submit records a submission and forwards the values to OnSubmit.
func (m *Memory) Submit(ctx context.Context) error {
	m.submits++
	if m.onSubmit == nil {
		return nil
	}
	return m.onSubmit(ctx, m.Values())
}

// Submissions reports how many times Submit ran.
func (m *Memory) Submissions() int { return m.submits }

// Values collects named, non-submit input values.
func (m *Memory) Values() url.Values {
	return CollectValues(m.inputs)
}

// Click activates the form's submit trigger. Click listeners run first; when
// none of them prevents the default action the form is submitted directly.
func (m *Memory) Click(ctx context.Context) error {
	trigger := FindSubmit(m.inputs)
	if trigger == nil {
		return nil
	}
	if dispatcher, ok := trigger.(interface {
		Dispatch(ctx context.Context, event string) bool
	}); ok {
		if dispatcher.Dispatch(ctx, EventClick) {
			return nil
		}
	}
	return m.Submit(ctx)
}

// FindSubmit returns the last input of type submit, or nil.
func FindSubmit(inputs []Input) Input {
	var trigger Input
	for _, input := range inputs {
		if input != nil && input.Type() == TypeSubmit {
			trigger = input
		}
	}
	return trigger
}

// CollectValues builds url.Values from named inputs, skipping submit triggers.
func CollectValues(inputs []Input) url.Values {
	values := url.Values{}
	for _, input := range inputs {
		if input == nil || input.Name() == "" || input.Type() == TypeSubmit {
			continue
		}
		values.Add(input.Name(), input.Value())
	}
	return values
}
