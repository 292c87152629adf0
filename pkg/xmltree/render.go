package xmltree

import (
	"bytes"
	"strings"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// render writes n to w. Parsed nodes outside the edited region are copied
// from the source.
func (d *Document) render(w *bytes.Buffer, n *Node) {
	if !n.synthetic && (!n.touched || n.Kind != ElementNode) {
		w.Write(d.src[n.start:n.end])
		return
	}

	switch n.Kind {
	case ElementNode:
		d.renderElement(w, n)
	case TextNode:
		if n.raw != nil {
			w.Write(n.raw)
		} else {
			textEscaper.WriteString(w, n.Data)
		}
	case CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")
	}
}

func (d *Document) renderElement(w *bytes.Buffer, n *Node) {
	qname := n.QName()

	switch {
	case n.synthetic:
		if len(n.children) == 0 {
			w.WriteString("<" + qname + "/>")
			return
		}
		w.WriteString("<" + qname + ">")
		d.renderChildren(w, n)
		w.WriteString("</" + qname + ">")

	case n.selfClosing:
		if len(n.children) == 0 {
			w.Write(d.src[n.start:n.end])
			return
		}
		// <name attr="v"/> becomes <name attr="v">...</name>
		open := d.src[n.start:n.openEnd]
		open = bytes.TrimSuffix(open, []byte(">"))
		open = bytes.TrimSuffix(open, []byte("/"))
		open = bytes.TrimRight(open, " \t\r\n")
		w.Write(open)
		w.WriteByte('>')
		d.renderChildren(w, n)
		w.WriteString("</" + qname + ">")

	default:
		w.Write(d.src[n.start:n.openEnd])
		d.renderChildren(w, n)
		w.Write(d.src[n.closeStart:n.end])
	}
}

func (d *Document) renderChildren(w *bytes.Buffer, n *Node) {
	for _, c := range n.children {
		d.render(w, c)
	}
}
