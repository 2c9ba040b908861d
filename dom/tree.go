package dom

import "strings"

// voidElements never take content and never go on the open stack.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawTextElements capture their content verbatim as a single text child.
var rawTextElements = map[string]bool{
	"script": true, "style": true, "title": true, "textarea": true,
}

// headElements are routed into the synthesized <head> until body
// content starts.
var headElements = map[string]bool{
	"title": true, "meta": true, "link": true, "base": true, "style": true,
}

// blockLevel is the opener set that implicitly closes an open <p>.
var blockLevel = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "fieldset": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "ul": true,
}

// impliedEndTag reports whether an element with tag open should close
// when next opens as a sibling.
func impliedEndTag(open, next string) bool {
	switch open {
	case "p":
		return blockLevel[next]
	case "li":
		return next == "li"
	case "dt", "dd":
		return next == "dt" || next == "dd"
	case "tr":
		return next == "tr"
	case "td", "th":
		return next == "td" || next == "th" || next == "tr"
	case "option":
		return next == "option" || next == "optgroup"
	}
	return false
}

type builder struct {
	z     *tokenizer
	t     *Tree
	stack []NodeID
	head  NodeID
	body  NodeID
}

// Parse builds a document tree from HTML text. It is total: any input
// produces a tree with an <html> root, with <head> and <body>
// synthesized when the markup omits them and no content dropped.
func Parse(input string) *Tree {
	b := &builder{z: newTokenizer(input), t: &Tree{}, head: NoNode, body: NoNode}
	root := b.t.alloc(Node{Type: ElementNode, Tag: "html", Parent: NoNode})
	b.t.Root = root
	b.stack = []NodeID{root}
	b.run()
	return b.t
}

func (b *builder) run() {
	for {
		tok := b.z.next()
		switch tok.typ {
		case eofToken:
			return // whatever is still open closes in stack order
		case textToken:
			b.addText(tok.data)
		case commentToken:
			b.t.appendChild(b.top(), Node{Type: CommentNode, Text: tok.data})
		case startTagToken:
			b.startTag(tok)
		case endTagToken:
			b.endTag(tok.data)
		}
	}
}

func (b *builder) top() NodeID {
	return b.stack[len(b.stack)-1]
}

func (b *builder) ensureHead() NodeID {
	if b.head == NoNode {
		b.head = b.t.appendChild(b.t.Root, Node{Type: ElementNode, Tag: "head"})
	}
	return b.head
}

// ensureBody synthesizes <body> the moment flow content appears. Head
// parsing ends here: later head-only elements still land in body.
func (b *builder) ensureBody() {
	if b.body != NoNode {
		return
	}
	b.ensureHead()
	b.body = b.t.appendChild(b.t.Root, Node{Type: ElementNode, Tag: "body"})
	b.stack = []NodeID{b.t.Root, b.body}
}

func (b *builder) addText(text string) {
	if b.body == NoNode && strings.TrimSpace(text) == "" {
		return // inter-tag whitespace before any content
	}
	b.ensureBody()
	parent := b.top()
	p := b.t.Node(parent)
	// Adjacent text merges so entity splits don't fragment the tree.
	if len(p.Children) > 0 {
		last := p.Children[len(p.Children)-1]
		if ln := b.t.Node(last); ln.Type == TextNode {
			ln.Text += text
			return
		}
	}
	b.t.appendChild(parent, Node{Type: TextNode, Text: text})
}

func (b *builder) startTag(tok token) {
	name := tok.data
	switch name {
	case "html":
		b.mergeAttrs(b.t.Root, tok.attrs)
		return
	case "head":
		b.ensureHead()
		return
	case "body":
		b.ensureBody()
		b.mergeAttrs(b.body, tok.attrs)
		return
	}

	if b.body == NoNode && (headElements[name] || name == "script") {
		parent := b.ensureHead()
		id := b.t.appendChild(parent, Node{Type: ElementNode, Tag: name, Attributes: tok.attrs})
		if rawTextElements[name] {
			if raw := b.z.rawText(name); raw != "" {
				b.t.appendChild(id, Node{Type: TextNode, Text: raw})
			}
		}
		return
	}

	b.ensureBody()
	for len(b.stack) > 2 && impliedEndTag(b.t.Node(b.top()).Tag, name) {
		b.stack = b.stack[:len(b.stack)-1]
	}
	id := b.t.appendChild(b.top(), Node{Type: ElementNode, Tag: name, Attributes: tok.attrs})
	if rawTextElements[name] {
		if raw := b.z.rawText(name); raw != "" {
			b.t.appendChild(id, Node{Type: TextNode, Text: raw})
		}
		return
	}
	if voidElements[name] || tok.selfClosing {
		return
	}
	b.stack = append(b.stack, id)
}

// endTag pops to the matching open element; stray end tags are ignored.
func (b *builder) endTag(name string) {
	switch name {
	case "html", "body", "head":
		return
	}
	for i := len(b.stack) - 1; i > 0; i-- {
		if b.t.Node(b.stack[i]).Tag == name {
			b.stack = b.stack[:i]
			return
		}
		if b.body != NoNode && b.stack[i] == b.body {
			return
		}
	}
}

func (b *builder) mergeAttrs(id NodeID, attrs []Attribute) {
	n := b.t.Node(id)
	for _, a := range attrs {
		if _, dup := n.Attr(a.Name); !dup {
			n.Attributes = append(n.Attributes, a)
		}
	}
}
