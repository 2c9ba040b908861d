// Package dom parses HTML text into a document tree. The tokenizer and
// tree builder are tolerant: malformed input degrades the tree, it never
// fails. Nodes live in an arena owned by the Tree and are addressed by
// NodeID handles, which stay valid for the life of the tree.
package dom

import "strings"

// NodeType discriminates the node variants.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

// NodeID is an index into a Tree's node arena.
type NodeID int

// NoNode is the nil handle.
const NoNode NodeID = -1

// Attribute is a single name="value" pair. Names are lowercased and
// unique per element; the first occurrence wins.
type Attribute struct {
	Name  string
	Value string
}

// Node is one node in the document tree. Tag is set for elements,
// Text for text and comment nodes.
type Node struct {
	Type       NodeType
	Tag        string
	Attributes []Attribute
	Text       string
	Parent     NodeID
	Children   []NodeID
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present, regardless of value.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// ID returns the element's id attribute, or "".
func (n *Node) ID() string {
	v, _ := n.Attr("id")
	return v
}

// Classes returns the whitespace-separated class list.
func (n *Node) Classes() []string {
	v, ok := n.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// Tree is a document: a node arena plus the handle of the root element.
type Tree struct {
	nodes []Node
	Root  NodeID
}

// Node returns the node for a handle. The pointer is invalidated by the
// next node allocation, so callers must not hold it across mutations.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) alloc(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) appendChild(parent NodeID, n Node) NodeID {
	n.Parent = parent
	id := t.alloc(n)
	p := t.Node(parent)
	p.Children = append(p.Children, id)
	return id
}

// Walk visits id and its descendants in document order. Returning false
// from fn prunes the subtree below the current node.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if id == NoNode {
		return
	}
	if !fn(id) {
		return
	}
	for _, c := range t.Node(id).Children {
		t.Walk(c, fn)
	}
}

// FindFirst returns the first element with the given tag in document
// order, or NoNode.
func (t *Tree) FindFirst(tag string) NodeID {
	found := NoNode
	t.Walk(t.Root, func(id NodeID) bool {
		if found != NoNode {
			return false
		}
		n := t.Node(id)
		if n.Type == ElementNode && n.Tag == tag {
			found = id
			return false
		}
		return true
	})
	return found
}

// TextContent concatenates the text descendants of id.
func (t *Tree) TextContent(id NodeID) string {
	var b strings.Builder
	t.Walk(id, func(c NodeID) bool {
		n := t.Node(c)
		if n.Type == TextNode {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}

// Title returns the trimmed contents of the document's <title>, or "".
func (t *Tree) Title() string {
	id := t.FindFirst("title")
	if id == NoNode {
		return ""
	}
	return strings.TrimSpace(t.TextContent(id))
}

// Body returns the document body element, falling back to the root when
// the input produced none.
func (t *Tree) Body() NodeID {
	if id := t.FindFirst("body"); id != NoNode {
		return id
	}
	return t.Root
}

// Ancestor reports whether anc is an ancestor of id (or id itself).
func (t *Tree) Ancestor(anc, id NodeID) bool {
	for cur := id; cur != NoNode; cur = t.Node(cur).Parent {
		if cur == anc {
			return true
		}
	}
	return false
}
