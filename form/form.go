// Package form models HTML forms: it collects the named controls of
// each <form> subtree and builds submission requests from their
// values.
package form

import (
	"fmt"
	"net/url"
	"strings"

	"toad/dom"
)

// Method is the submission method.
type Method string

const (
	GET  Method = "GET"
	POST Method = "POST"
)

// ControlKind classifies a control's behavior.
type ControlKind int

const (
	KindText ControlKind = iota // text-like input, textarea
	KindHidden
	KindCheckbox // checkbox or radio
	KindSelect
	KindSubmit // triggers submission, contributes no pair
)

// Control is one form control. Value holds the current (possibly
// user-edited) value.
type Control struct {
	Node    dom.NodeID
	Name    string
	Value   string
	Kind    ControlKind
	Checked bool
}

// Form is one <form> with its controls in document order.
type Form struct {
	Node     dom.NodeID
	Action   string
	Method   Method
	Controls []Control
}

// Request is a submission descriptor ready for the transport layer.
type Request struct {
	Method      Method
	URL         *url.URL
	ContentType string
	Body        []byte
}

// Collect walks the tree and extracts every form.
func Collect(t *dom.Tree) []Form {
	var forms []Form
	t.Walk(t.Root, func(id dom.NodeID) bool {
		n := t.Node(id)
		if n.Type != dom.ElementNode || n.Tag != "form" {
			return true
		}
		forms = append(forms, collectForm(t, id))
		return false // nested forms are invalid; skip the subtree
	})
	return forms
}

func collectForm(t *dom.Tree, id dom.NodeID) Form {
	n := t.Node(id)
	f := Form{Node: id, Method: GET}
	f.Action, _ = n.Attr("action")
	if m, ok := n.Attr("method"); ok && strings.EqualFold(m, "post") {
		f.Method = POST
	}
	t.Walk(id, func(cid dom.NodeID) bool {
		c := t.Node(cid)
		if c.Type != dom.ElementNode {
			return true
		}
		switch c.Tag {
		case "input":
			f.Controls = append(f.Controls, inputControl(c, cid))
		case "textarea":
			name, _ := c.Attr("name")
			f.Controls = append(f.Controls, Control{
				Node: cid, Name: name, Kind: KindText,
				Value: strings.TrimSpace(t.TextContent(cid)),
			})
		case "select":
			name, _ := c.Attr("name")
			f.Controls = append(f.Controls, Control{
				Node: cid, Name: name, Kind: KindSelect,
				Value: selectedOption(t, cid),
			})
		case "button":
			typ, _ := c.Attr("type")
			if typ == "" || strings.EqualFold(typ, "submit") {
				f.Controls = append(f.Controls, Control{Node: cid, Kind: KindSubmit})
			}
		}
		return true
	})
	return f
}

func inputControl(n *dom.Node, id dom.NodeID) Control {
	name, _ := n.Attr("name")
	value, _ := n.Attr("value")
	typ, _ := n.Attr("type")
	c := Control{Node: id, Name: name, Value: value, Kind: KindText}
	switch strings.ToLower(typ) {
	case "hidden":
		c.Kind = KindHidden
	case "checkbox", "radio":
		c.Kind = KindCheckbox
		c.Checked = n.HasAttr("checked")
		if c.Value == "" {
			c.Value = "on"
		}
	case "submit", "button", "reset", "image":
		c.Kind = KindSubmit
	}
	return c
}

// selectedOption returns the value of the selected option, or the
// first option when none is marked.
func selectedOption(t *dom.Tree, id dom.NodeID) string {
	first := ""
	haveFirst := false
	selected := ""
	t.Walk(id, func(oid dom.NodeID) bool {
		o := t.Node(oid)
		if o.Type != dom.ElementNode || o.Tag != "option" {
			return true
		}
		v, ok := o.Attr("value")
		if !ok {
			v = strings.TrimSpace(t.TextContent(oid))
		}
		if !haveFirst {
			first, haveFirst = v, true
		}
		if o.HasAttr("selected") && selected == "" {
			selected = v
		}
		return true
	})
	if selected != "" {
		return selected
	}
	return first
}

// ControlByNode finds a control by its dom handle.
func (f *Form) ControlByNode(id dom.NodeID) *Control {
	for i := range f.Controls {
		if f.Controls[i].Node == id {
			return &f.Controls[i]
		}
	}
	return nil
}

// pairs returns the submission (name, value) list: named data controls
// only, checkables only when checked, submit buttons never.
func (f *Form) pairs() [][2]string {
	var out [][2]string
	for _, c := range f.Controls {
		if c.Name == "" || c.Kind == KindSubmit {
			continue
		}
		if c.Kind == KindCheckbox && !c.Checked {
			continue
		}
		out = append(out, [2]string{c.Name, c.Value})
	}
	return out
}

// Submit builds the request descriptor. base resolves a relative
// action; an empty action targets the page itself.
func (f *Form) Submit(base *url.URL) (*Request, error) {
	target, err := resolveAction(base, f.Action)
	if err != nil {
		return nil, err
	}
	encoded := encodePairs(f.pairs())
	if f.Method == POST {
		return &Request{
			Method:      POST,
			URL:         target,
			ContentType: "application/x-www-form-urlencoded",
			Body:        []byte(encoded),
		}, nil
	}
	q := *target
	q.RawQuery = encoded
	return &Request{Method: GET, URL: &q}, nil
}

func resolveAction(base *url.URL, action string) (*url.URL, error) {
	if action == "" {
		if base == nil {
			return nil, fmt.Errorf("form has no action and no base url")
		}
		u := *base
		u.RawQuery = ""
		u.Fragment = ""
		return &u, nil
	}
	ref, err := url.Parse(action)
	if err != nil {
		return nil, fmt.Errorf("parsing form action %q: %w", action, err)
	}
	if base != nil {
		return base.ResolveReference(ref), nil
	}
	return ref, nil
}

// encodePairs percent-encodes the pairs, spaces as %20 rather than the
// '+' that url.Values.Encode would emit.
func encodePairs(pairs [][2]string) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p[0]))
		b.WriteByte('=')
		b.WriteString(escape(p[1]))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
