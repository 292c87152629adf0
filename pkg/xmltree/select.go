package xmltree

import (
	"fmt"
	"slices"
	"strings"
)

// Path is a compiled element path.
//
// Grammar:
//
//	path      = ["/"] step { "/" step }
//	step      = ( name | "*" ) [ "[" name "=" quoted "]" ]
//
// An absolute path starts at the document node, so its first step matches
// the root element. A relative path starts at the children of the node it is
// evaluated on. A predicate keeps elements having a child element whose
// trimmed text equals the quoted value.
type Path struct {
	expr     string
	absolute bool
	steps    []step
}

type step struct {
	name      string
	predChild string
	predValue string
	hasPred   bool
}

// Compile parses a path expression.
func Compile(expr string) (*Path, error) {
	p := &Path{expr: expr}
	s := strings.TrimSpace(expr)
	if strings.HasPrefix(s, "/") {
		p.absolute = true
		s = s[1:]
	}
	if s == "" {
		return nil, fmt.Errorf("xmltree: empty path %q", expr)
	}

	for _, part := range splitSteps(s) {
		st, err := parseStep(part)
		if err != nil {
			return nil, fmt.Errorf("xmltree: path %q: %w", expr, err)
		}
		p.steps = append(p.steps, st)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Path {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Path) String() string { return p.expr }

// Select evaluates the path from n and returns matching elements in document
// order. namespaces lists the namespace URLs an element may be in; when
// empty, any namespace matches.
func (p *Path) Select(n *Node, namespaces ...string) []*Node {
	if n == nil {
		return nil
	}
	cur := []*Node{n}
	if p.absolute && n.doc != nil {
		cur = []*Node{n.doc.root}
	}
	for _, st := range p.steps {
		var next []*Node
		for _, c := range cur {
			for _, e := range c.children {
				if st.matches(e, namespaces) {
					next = append(next, e)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		cur = next
	}
	return cur
}

// Select compiles expr and evaluates it from n. It panics on a malformed
// expression; use Compile for expressions built at run time.
func Select(n *Node, expr string, namespaces ...string) []*Node {
	return MustCompile(expr).Select(n, namespaces...)
}

func (st step) matches(e *Node, namespaces []string) bool {
	if e.Kind != ElementNode || !inNamespace(e, namespaces) {
		return false
	}
	if st.name != "*" && e.Name.Local != st.name {
		return false
	}
	if !st.hasPred {
		return true
	}
	for _, c := range e.children {
		if c.Kind == ElementNode && c.Name.Local == st.predChild && inNamespace(c, namespaces) &&
			strings.TrimSpace(c.Text()) == st.predValue {
			return true
		}
	}
	return false
}

func inNamespace(e *Node, namespaces []string) bool {
	return len(namespaces) == 0 || slices.Contains(namespaces, e.Name.Space)
}

// splitSteps splits on slashes outside predicates.
func splitSteps(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == '/' && depth == 0:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}

func parseStep(s string) (step, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if !validName(s) {
			return step{}, fmt.Errorf("invalid step %q", s)
		}
		return step{name: s}, nil
	}
	if !strings.HasSuffix(s, "]") {
		return step{}, fmt.Errorf("unterminated predicate in %q", s)
	}
	st := step{name: s[:open], hasPred: true}
	if !validName(st.name) {
		return step{}, fmt.Errorf("invalid step %q", s)
	}

	pred := s[open+1 : len(s)-1]
	eq := strings.IndexByte(pred, '=')
	if eq < 0 {
		return step{}, fmt.Errorf("predicate %q: expected child='value'", pred)
	}
	st.predChild = strings.TrimSpace(pred[:eq])
	val := strings.TrimSpace(pred[eq+1:])
	if len(val) < 2 || (val[0] != '\'' && val[0] != '"') || val[len(val)-1] != val[0] {
		return step{}, fmt.Errorf("predicate %q: value must be quoted", pred)
	}
	st.predValue = val[1 : len(val)-1]
	if st.predChild == "*" || !validName(st.predChild) {
		return step{}, fmt.Errorf("predicate %q: invalid child name", pred)
	}
	return st, nil
}

func validName(s string) bool {
	if s == "*" {
		return true
	}
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t\r\n/[]='\"")
}
