package xmltree

import (
	"encoding/xml"
	"strings"
)

// Kind identifies the type of a Node.
type Kind int

const (
	// DocumentNode is the synthetic container holding all top-level tokens.
	DocumentNode Kind = iota
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "procinst"
	case DirectiveNode:
		return "directive"
	default:
		return "unknown"
	}
}

// Node is a single node of a parsed document.
//
// Parsed nodes keep their source byte range; nodes created by edits are
// synthetic and have none.
type Node struct {
	Kind Kind

	// Name holds the resolved namespace URL and local name of an element.
	Name xml.Name

	// Prefix is the namespace prefix written in the source tag (empty for
	// the default namespace).
	Prefix string

	// Data holds the decoded character data of a text node, the body of a
	// comment or directive, or the instruction of a processing instruction.
	Data string

	parent   *Node
	children []*Node
	doc      *Document

	// Source byte ranges. start/end delimit the whole node; for elements
	// openEnd is the end of the start tag and closeStart the start of the
	// end tag.
	start, end          int
	openEnd, closeStart int
	selfClosing         bool

	synthetic bool
	touched   bool

	// raw holds the literal bytes of a synthetic whitespace node.
	raw []byte
}

// Parent returns the parent node, or nil for the document container.
func (n *Node) Parent() *Node { return n.parent }

// Document returns the document the node belongs to.
func (n *Node) Document() *Document { return n.doc }

// Children returns the direct children in document order.
// The returned slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Synthetic reports whether the node was created by an edit.
func (n *Node) Synthetic() bool { return n.synthetic }

// Elements returns the direct element children in document order.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated character data of the direct text children.
func (n *Node) Text() string {
	if n.Kind == TextNode {
		return n.Data
	}
	var sb strings.Builder
	for _, c := range n.children {
		if c.Kind == TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// QName returns the element name as written in the source, including the
// prefix.
func (n *Node) QName() string {
	if n.Prefix == "" {
		return n.Name.Local
	}
	return n.Prefix + ":" + n.Name.Local
}

// Depth returns the number of element ancestors of the node.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil && p.Kind == ElementNode; p = p.parent {
		d++
	}
	return d
}

// Source returns the original bytes of a parsed node, or nil for synthetic
// nodes.
func (n *Node) Source() []byte {
	if n.synthetic || n.doc == nil || n.Kind == DocumentNode {
		return nil
	}
	return n.doc.src[n.start:n.end]
}

// isBlank reports whether the node is a text node holding only whitespace.
func (n *Node) isBlank() bool {
	return n.Kind == TextNode && strings.TrimSpace(n.Data) == ""
}

// literal returns the bytes a text node was written with.
func (n *Node) literal() []byte {
	if n.raw != nil {
		return n.raw
	}
	if !n.synthetic && n.doc != nil {
		return n.doc.src[n.start:n.end]
	}
	return []byte(n.Data)
}

// index returns the position of the node among its siblings.
func (n *Node) index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}
