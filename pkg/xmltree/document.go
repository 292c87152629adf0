package xmltree

import (
	"bytes"
	"strings"
)

// Document is a parsed XML document.
//
// The source bytes are never modified. Edits mark the document dirty and the
// output is rendered lazily on the next call to Bytes.
type Document struct {
	src    []byte
	bomLen int
	root   *Node

	dirty bool
	out   []byte
}

// Root returns the synthetic document node whose children are the top-level
// tokens (declaration, comments, root element).
func (d *Document) Root() *Node { return d.root }

// RootElement returns the document element.
func (d *Document) RootElement() *Node {
	for _, c := range d.root.children {
		if c.Kind == ElementNode {
			return c
		}
	}
	return nil
}

// Original returns a copy of the bytes the document was parsed from.
func (d *Document) Original() []byte { return bytes.Clone(d.src) }

// Dirty reports whether the document has been edited.
func (d *Document) Dirty() bool { return d.dirty }

// Bytes renders the document. An unedited document renders to its original
// bytes.
func (d *Document) Bytes() []byte {
	if !d.dirty {
		return bytes.Clone(d.src)
	}
	if d.out == nil {
		var buf bytes.Buffer
		buf.Grow(len(d.src) + 256)
		buf.Write(d.src[:d.bomLen])
		for _, c := range d.root.children {
			d.render(&buf, c)
		}
		d.out = buf.Bytes()
	}
	return bytes.Clone(d.out)
}

// LineEnding returns "\r\n" when the source uses CRLF line endings, "\n"
// otherwise.
func (d *Document) LineEnding() string {
	if bytes.Contains(d.src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// IndentUnit returns the indentation step of the document, detected from the
// first indented child of the root element. Defaults to two spaces.
func (d *Document) IndentUnit() string {
	root := d.RootElement()
	if root == nil {
		return defaultIndent
	}
	rootIndent := indentOf(root)
	for _, c := range root.Elements() {
		ind, ok := lineIndent(c)
		if !ok {
			continue
		}
		if unit := strings.TrimPrefix(ind, rootIndent); unit != "" && len(ind) > len(rootIndent) {
			return unit
		}
	}
	return defaultIndent
}

// markTouched flags n and its ancestors for re-rendering.
func (d *Document) markTouched(n *Node) {
	for p := n; p != nil; p = p.parent {
		p.touched = true
	}
	d.dirty = true
	d.out = nil
}
