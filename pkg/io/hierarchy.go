package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/pomedit/pkg/pom"
)

// Hierarchy is a target POM and the parents it inherits from.
type Hierarchy struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one POM file.
type Node struct {
	ID           string `json:"id"`
	GroupID      string `json:"group_id,omitempty"`
	ArtifactID   string `json:"artifact_id"`
	Version      string `json:"version,omitempty"`
	Packaging    string `json:"packaging,omitempty"`
	Dependencies int    `json:"dependencies,omitempty"`
	Managed      int    `json:"managed,omitempty"`
	Properties   int    `json:"properties,omitempty"`
	Target       bool   `json:"target,omitempty"`
}

// Label is the display name, "artifactId:version".
func (n Node) Label() string {
	if n.Version == "" {
		return n.ArtifactID
	}
	return n.ArtifactID + ":" + n.Version
}

// Edge points from a child POM to its parent.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FromProject builds the hierarchy of p. Node ids are document paths
// relative to base, slash-separated; an empty base keeps paths as they are.
func FromProject(p pom.Project, base string) Hierarchy {
	var h Hierarchy
	docs := p.Documents()
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = nodeID(d, base)
		c := d.Coordinate()
		n := Node{
			ID:           ids[i],
			GroupID:      c.GroupID,
			ArtifactID:   c.ArtifactID,
			Version:      c.Version,
			Dependencies: len(d.Select("/project/dependencies/dependency")),
			Managed:      len(d.Select("/project/dependencyManagement/dependencies/dependency")),
			Properties:   len(d.Select("/project/properties/*")),
			Target:       i == 0,
		}
		if pk := d.Packaging(); pk != pom.DefaultType {
			n.Packaging = pk
		}
		h.Nodes = append(h.Nodes, n)
	}
	for i := 1; i < len(ids); i++ {
		h.Edges = append(h.Edges, Edge{From: ids[i-1], To: ids[i]})
	}
	return h
}

func nodeID(d *pom.Document, base string) string {
	if d.Path == "" {
		return d.Name()
	}
	if base != "" {
		if rel, err := filepath.Rel(base, d.Path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(d.Path)
}

// Validate checks that ids are unique and non-empty and that edges join
// known nodes.
func (h Hierarchy) Validate() error {
	seen := make(map[string]bool, len(h.Nodes))
	for _, n := range h.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node %s", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range h.Edges {
		if !seen[e.From] || !seen[e.To] {
			return fmt.Errorf("edge %s->%s: unknown node", e.From, e.To)
		}
		if e.From == e.To {
			return fmt.Errorf("edge %s->%s: self loop", e.From, e.To)
		}
	}
	return nil
}

// WriteJSON encodes h, indented, to w.
func WriteJSON(h Hierarchy, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes and validates a hierarchy. It does not close r.
func ReadJSON(r io.Reader) (Hierarchy, error) {
	var h Hierarchy
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return Hierarchy{}, fmt.Errorf("decode: %w", err)
	}
	if err := h.Validate(); err != nil {
		return Hierarchy{}, err
	}
	return h, nil
}

// ImportJSON reads a hierarchy from the file at path.
func ImportJSON(path string) (Hierarchy, error) {
	f, err := os.Open(path)
	if err != nil {
		return Hierarchy{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportJSON writes h to the file at path.
func ExportJSON(h Hierarchy, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(h, f)
}
