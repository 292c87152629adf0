package pom

import (
	"strings"

	"github.com/matzehuels/pomedit/pkg/xmltree"
)

// Namespace is the Maven POM namespace.
const Namespace = "http://maven.apache.org/POM/4.0.0"

// Select returns the elements under n matching path, in document order.
// Elements match whether or not the document declares the POM namespace.
// Absolute paths ("/project/...") start at the document; relative paths at
// the children of n.
func Select(n *xmltree.Node, path string) []*xmltree.Node {
	return xmltree.Select(n, path, Namespace, "")
}

// first returns the first match of path under n, or nil.
func first(n *xmltree.Node, path string) *xmltree.Node {
	if found := Select(n, path); len(found) > 0 {
		return found[0]
	}
	return nil
}

// childText returns the trimmed text of the first child element of n named
// local.
func childText(n *xmltree.Node, local string) string {
	if c := first(n, local); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// coordinateOf reads a <dependency> element. Nothing is interpolated.
func coordinateOf(dep *xmltree.Node) Coordinate {
	return Coordinate{
		GroupID:    childText(dep, "groupId"),
		ArtifactID: childText(dep, "artifactId"),
		Version:    childText(dep, "version"),
		Scope:      childText(dep, "scope"),
		Type:       childText(dep, "type"),
	}
}
