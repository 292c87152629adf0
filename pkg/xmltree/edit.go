package xmltree

import (
	"bytes"
	"encoding/xml"
)

const defaultIndent = "  "

// AppendElement creates an element named local as the last element child of
// n and returns it. The new element inherits the namespace and prefix of n.
//
// Whitespace is inserted so the element sits on its own line, indented like
// the nearest sibling element (or one indent step below n). When n ends with
// whitespace, that whitespace stays in place as the indentation of the
// closing tag.
//
// AppendElement panics if n is not an element.
func (n *Node) AppendElement(local string) *Node {
	if n.Kind != ElementNode {
		panic("xmltree: AppendElement on " + n.Kind.String() + " node")
	}
	d := n.doc
	endl := d.LineEnding()
	childInd := childIndent(n)
	parentInd := indentOf(n)

	child := &Node{
		Kind:      ElementNode,
		Name:      xml.Name{Space: n.Name.Space, Local: local},
		Prefix:    n.Prefix,
		parent:    n,
		doc:       d,
		synthetic: true,
	}
	lead := n.whitespace(endl + childInd)

	if k := len(n.children); k > 0 && n.children[k-1].isBlank() {
		n.insertAt(k-1, lead, child)
	} else {
		n.children = append(n.children, lead, child, n.whitespace(endl+parentInd))
	}
	d.markTouched(n)
	return child
}

// AppendTextElement appends an element holding text. See AppendElement.
func (n *Node) AppendTextElement(local, text string) *Node {
	return n.AppendElement(local).SetText(text)
}

// SetText replaces the children of n with a single text node and returns n.
// Setting the text an element already holds is a no-op.
func (n *Node) SetText(text string) *Node {
	if len(n.children) == 1 && n.children[0].Kind == TextNode && n.children[0].Data == text {
		return n
	}
	n.children = []*Node{{Kind: TextNode, Data: text, parent: n, doc: n.doc, synthetic: true}}
	n.doc.markTouched(n)
	return n
}

func (n *Node) whitespace(s string) *Node {
	return &Node{Kind: TextNode, Data: s, raw: []byte(s), parent: n, doc: n.doc, synthetic: true}
}

func (n *Node) insertAt(i int, nodes ...*Node) {
	tail := append([]*Node(nil), n.children[i:]...)
	n.children = append(append(n.children[:i], nodes...), tail...)
}

// childIndent returns the indentation for a new child of n: that of the last
// child element starting its own line, else indentOf(n) plus one step.
func childIndent(n *Node) string {
	els := n.Elements()
	for i := len(els) - 1; i >= 0; i-- {
		if ind, ok := lineIndent(els[i]); ok {
			return ind
		}
	}
	return indentOf(n) + n.doc.IndentUnit()
}

// indentOf returns the indentation of the line element n starts on.
func indentOf(n *Node) string {
	if ind, ok := lineIndent(n); ok {
		return ind
	}
	if n.parent == nil || n.parent.Kind != ElementNode {
		return ""
	}
	return indentOf(n.parent) + n.doc.IndentUnit()
}

// lineIndent returns the whitespace between the last line break before n and
// n itself. ok is false when n does not start its own line.
func lineIndent(n *Node) (string, bool) {
	i := n.index()
	if i <= 0 {
		return "", false
	}
	prev := n.parent.children[i-1]
	if prev.Kind != TextNode {
		return "", false
	}
	lit := prev.literal()
	j := bytes.LastIndexByte(lit, '\n')
	if j < 0 {
		return "", false
	}
	tail := lit[j+1:]
	for _, b := range tail {
		if b != ' ' && b != '\t' {
			return "", false
		}
	}
	return string(tail), true
}
