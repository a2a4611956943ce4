package htmlform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formcheck/pkg/form"
)

// ErrorSlotClass identifies the span that holds a field's error messages.
const ErrorSlotClass = "v-error-text"

// SlotOwnerAttr ties an error slot to one input by name when several inputs
// share a parent element.
const SlotOwnerAttr = "data-for"

// ErrFormNotFound is returned when a document contains no matching form.
var ErrFormNotFound = errors.New("htmlform: form not found")

// Document is a parsed HTML page holding one or more forms.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmlform: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(doc string) (*Document, error) {
	return Parse(strings.NewReader(doc))
}

// Render writes the document, including any feedback applied to its forms.
func (d *Document) Render(w io.Writer) error {
	if d == nil || d.root == nil {
		return errors.New("htmlform: document is nil")
	}
	return html.Render(w, d.root)
}

// String renders the document to a string.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Option configures a Form.
type Option func(*Form)

// WithSubmitFunc sets the callback that receives the form values when the
// form is submitted.
func WithSubmitFunc(fn form.SubmitFunc) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// Form returns the form whose id attribute equals id. An empty id selects the
// first form in the document.
func (d *Document) Form(id string, options ...Option) (*Form, error) {
	if d == nil || d.root == nil {
		return nil, ErrFormNotFound
	}
	id = strings.TrimSpace(id)
	node := findNode(d.root, func(n *html.Node) bool {
		if n.DataAtom != atom.Form {
			return false
		}
		return id == "" || attr(n, "id") == id
	})
	if node == nil {
		if id == "" {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("%w: id %q", ErrFormNotFound, id)
	}

	f := &Form{node: node}
	for _, n := range findAll(node, func(n *html.Node) bool { return n.DataAtom == atom.Input }) {
		f.inputs = append(f.inputs, &Input{node: n})
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f, nil
}

// Form wraps a <form> element. Its inputs are the <input> descendants in
// document order.
type Form struct {
	node     *html.Node
	inputs   []*Input
	onSubmit form.SubmitFunc
	submits  int
}

// Inputs implements form.Form.
func (f *Form) Inputs() []form.Input {
	out := make([]form.Input, 0, len(f.inputs))
	for _, input := range f.inputs {
		out = append(out, input)
	}
	return out
}

// Input returns the first input named name, or nil.
func (f *Form) Input(name string) *Input {
	for _, input := range f.inputs {
		if input.Name() == name {
			return input
		}
	}
	return nil
}

// Action returns the form's action attribute.
func (f *Form) Action() string { return attr(f.node, "action") }

// Method returns the form's method attribute, upper-cased, defaulting to GET.
func (f *Form) Method() string {
	method := strings.ToUpper(strings.TrimSpace(attr(f.node, "method")))
	if method == "" {
		return "GET"
	}
	return method
}

// Fill sets input values from posted form data. Inputs absent from values
// keep their markup value; submit inputs are never changed.
func (f *Form) Fill(values url.Values) {
	for _, input := range f.inputs {
		if input.Type() == form.TypeSubmit {
			continue
		}
		if posted, ok := values[input.Name()]; ok && len(posted) > 0 {
			input.SetValue(posted[0])
		}
	}
}

// Values collects the form's named, non-submit input values.
func (f *Form) Values() url.Values {
	return form.CollectValues(f.Inputs())
}

// Submit implements form.Form by forwarding the values to the submit callback.
func (f *Form) Submit(ctx context.Context) error {
	f.submits++
	if f.onSubmit == nil {
		return nil
	}
	return f.onSubmit(ctx, f.Values())
}

// Submissions reports how many times Submit ran.
func (f *Form) Submissions() int { return f.submits }

// Click activates the submit trigger, running bound listeners and submitting
// when none of them prevented the default action.
func (f *Form) Click(ctx context.Context) error {
	trigger, _ := form.FindSubmit(f.Inputs()).(*Input)
	if trigger == nil {
		return nil
	}
	if trigger.Dispatch(ctx, form.EventClick) {
		return nil
	}
	return f.Submit(ctx)
}

// Input wraps an <input> element.
type Input struct {
	form.Listeners
	node *html.Node
}

// Name returns the name attribute.
func (i *Input) Name() string { return attr(i.node, "name") }

// Type returns the lower-cased type attribute, defaulting to text.
func (i *Input) Type() string {
	t := strings.ToLower(strings.TrimSpace(attr(i.node, "type")))
	if t == "" {
		return form.TypeText
	}
	return t
}

// Value returns the value attribute.
func (i *Input) Value() string { return attr(i.node, "value") }

// SetValue replaces the value attribute.
func (i *Input) SetValue(value string) { setAttr(i.node, "value", value) }

// ToggleClass adds or removes class from the class attribute.
func (i *Input) ToggleClass(class string, on bool) {
	class = strings.TrimSpace(class)
	if class == "" {
		return
	}
	current := strings.Fields(attr(i.node, "class"))
	out := make([]string, 0, len(current)+1)
	present := false
	for _, existing := range current {
		if existing == class {
			if !on || present {
				continue
			}
			present = true
		}
		out = append(out, existing)
	}
	if on && !present {
		out = append(out, class)
	}
	if len(out) == 0 {
		removeAttr(i.node, "class")
		return
	}
	setAttr(i.node, "class", strings.Join(out, " "))
}

// HasClass reports whether class is present on the element.
func (i *Input) HasClass(class string) bool {
	for _, existing := range strings.Fields(attr(i.node, "class")) {
		if existing == class {
			return true
		}
	}
	return false
}

// SetErrorText replaces the content of the error slot next to the input,
// reusing an existing slot in the input's parent or appending a new one.
// When the parent holds other inputs, only a slot whose data-for names this
// input is reused and appended slots carry data-for.
func (i *Input) SetErrorText(text string) {
	parent := i.node.Parent
	if parent == nil {
		return
	}
	slot := i.errorSlot()
	if slot == nil {
		slot = &html.Node{
			Type:     html.ElementNode,
			Data:     "span",
			DataAtom: atom.Span,
			Attr:     []html.Attribute{{Key: "class", Val: ErrorSlotClass}},
		}
		if name := i.Name(); name != "" && i.sharesParent() {
			setAttr(slot, SlotOwnerAttr, name)
		}
		parent.AppendChild(slot)
	}
	for child := slot.FirstChild; child != nil; {
		next := child.NextSibling
		slot.RemoveChild(child)
		child = next
	}
	if text != "" {
		slot.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// ErrorText returns the current error slot text.
func (i *Input) ErrorText() string {
	slot := i.errorSlot()
	if slot == nil {
		return ""
	}
	var b strings.Builder
	for child := slot.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return b.String()
}

func (i *Input) errorSlot() *html.Node {
	parent := i.node.Parent
	if parent == nil {
		return nil
	}
	name := i.Name()
	var unclaimed *html.Node
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || attr(child, "class") != ErrorSlotClass {
			continue
		}
		owner := attr(child, SlotOwnerAttr)
		if owner != "" && owner == name {
			return child
		}
		if owner == "" && unclaimed == nil {
			unclaimed = child
		}
	}
	if unclaimed != nil && !i.sharesParent() {
		return unclaimed
	}
	return nil
}

func (i *Input) sharesParent() bool {
	parent := i.node.Parent
	if parent == nil {
		return false
	}
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		if child == i.node || child.Type != html.ElementNode || child.DataAtom != atom.Input {
			continue
		}
		if strings.EqualFold(attr(child, "type"), form.TypeSubmit) {
			continue
		}
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, value string) {
	for idx, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[idx].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && match(node) {
			out = append(out, node)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child)
	}
	return out
}
