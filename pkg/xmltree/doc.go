// Package xmltree provides an order-preserving XML tree that renders back to
// the exact bytes it was parsed from.
//
// Unlike a DOM built with encoding/xml's Unmarshal, every node produced by
// [Parse] remembers the byte range it occupied in the source. Rendering copies
// untouched nodes verbatim, so comments, attribute order and quoting,
// whitespace and line endings survive a parse/render cycle unchanged. Only
// nodes that were edited (or created) are serialized:
//
//	src ─► Parse ─► Document ─► edits ─► Bytes
//	                 │                     ▲
//	                 └── original ranges ──┘
//
// # Editing
//
// Edits go through [Node.AppendElement] and [Node.SetText]. New elements are
// indented like their nearest sibling element, or one step deeper than their
// parent when they have none. The step is detected from the document itself
// and the line ending ("\n" or "\r\n") follows the source.
//
//	deps := xmltree.Select(doc.Root(), "/project/dependencies", nil)[0]
//	dep := deps.AppendElement("dependency")
//	dep.AppendElement("groupId").SetText("org.dom4j")
//	out := doc.Bytes()
//
// # Selecting
//
// [Select] evaluates slash-separated element paths with optional
// [child='value'] predicates and * wildcards. A namespace filter restricts the
// namespaces an element may be in; Maven POMs use it to match elements with and
// without the default POM namespace declaration.
//
// Documents are not safe for concurrent mutation.
package xmltree
