package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse builds a Document from src. The slice is copied; later changes to
// src do not affect the document.
func Parse(src []byte) (*Document, error) {
	src = bytes.Clone(src)
	doc := &Document{src: src}

	base := 0
	if bytes.HasPrefix(src, utf8BOM) {
		base = len(utf8BOM)
	}
	doc.bomLen = base

	root := &Node{Kind: DocumentNode, doc: doc, start: 0, end: len(src)}
	doc.root = root

	dec := xml.NewDecoder(bytes.NewReader(src[base:]))
	// Offsets must stay byte offsets into src, so no transcoding happens.
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	cur := root
	for {
		start := int(dec.InputOffset()) + base
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		end := int(dec.InputOffset()) + base

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Kind:    ElementNode,
				Name:    t.Name,
				Prefix:  tagPrefix(src[start:end]),
				parent:  cur,
				doc:     doc,
				start:   start,
				openEnd: end,
			}
			cur.children = append(cur.children, n)
			cur = n
		case xml.EndElement:
			cur.closeStart = start
			cur.end = end
			cur.selfClosing = start == end
			cur = cur.parent
		case xml.CharData:
			cur.children = append(cur.children, &Node{Kind: TextNode, Data: string(t), parent: cur, doc: doc, start: start, end: end})
		case xml.Comment:
			cur.children = append(cur.children, &Node{Kind: CommentNode, Data: string(t), parent: cur, doc: doc, start: start, end: end})
		case xml.ProcInst:
			cur.children = append(cur.children, &Node{Kind: ProcInstNode, Name: xml.Name{Local: t.Target}, Data: string(t.Inst), parent: cur, doc: doc, start: start, end: end})
		case xml.Directive:
			cur.children = append(cur.children, &Node{Kind: DirectiveNode, Data: string(t), parent: cur, doc: doc, start: start, end: end})
		}
	}

	if cur != root {
		return nil, fmt.Errorf("parse xml: unclosed element <%s>", cur.QName())
	}
	if doc.RootElement() == nil {
		return nil, fmt.Errorf("parse xml: no root element")
	}
	return doc, nil
}

// tagPrefix extracts the namespace prefix from a raw start tag.
func tagPrefix(tag []byte) string {
	tag = bytes.TrimPrefix(tag, []byte("<"))
	if i := bytes.IndexAny(tag, " \t\r\n/>"); i >= 0 {
		tag = tag[:i]
	}
	if i := bytes.IndexByte(tag, ':'); i >= 0 {
		return string(tag[:i])
	}
	return ""
}
