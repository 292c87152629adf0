package pom

import (
	"os"

	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/xmltree"
)

// Document is one pom.xml. Its source bytes never change; edits go to the
// tree and are rendered by Bytes.
type Document struct {
	// Path is the file the document was loaded from. Empty for in-memory
	// documents.
	Path string

	tree *xmltree.Document
}

// ParentRef is the <parent> element of a POM.
type ParentRef struct {
	GroupID    string
	ArtifactID string
	Version    string

	// RelativePath is the declared <relativePath>. HasRelativePath
	// distinguishes an empty element from a missing one.
	RelativePath    string
	HasRelativePath bool
}

// ParseDocument parses data as a POM. path is informational.
func ParseDocument(path string, data []byte) (*Document, error) {
	tree, err := xmltree.Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", displayPath(path))
	}
	if root := tree.RootElement(); root.Name.Local != "project" {
		return nil, errs.New(errs.ErrCodeInvalidManifest,
			"%s: root element is <%s>, expected <project>", displayPath(path), root.Name.Local)
	}
	return &Document{Path: path, tree: tree}, nil
}

// LoadDocument reads and parses the POM at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "pom not found: %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "read %s", path)
	}
	return ParseDocument(path, data)
}

// Tree returns the underlying XML tree.
func (d *Document) Tree() *xmltree.Document { return d.tree }

// Project returns the <project> element.
func (d *Document) Project() *xmltree.Node { return d.tree.RootElement() }

// Select evaluates a POM path against the document. See Select.
func (d *Document) Select(path string) []*xmltree.Node {
	return Select(d.tree.Root(), path)
}

// Dirty reports whether the document was edited.
func (d *Document) Dirty() bool { return d.tree.Dirty() }

// Bytes renders the document.
func (d *Document) Bytes() []byte { return d.tree.Bytes() }

// Original returns the bytes the document was parsed from.
func (d *Document) Original() []byte { return d.tree.Original() }

// Packaging returns the declared packaging, "jar" when absent.
func (d *Document) Packaging() string {
	if p := childText(d.Project(), "packaging"); p != "" {
		return p
	}
	return DefaultType
}

// Coordinate returns the project's own coordinate. groupId and version fall
// back to the parent's, as Maven inherits them.
func (d *Document) Coordinate() Coordinate {
	proj := d.Project()
	c := Coordinate{
		GroupID:    childText(proj, "groupId"),
		ArtifactID: childText(proj, "artifactId"),
		Version:    childText(proj, "version"),
		Type:       d.Packaging(),
	}
	if parent, ok := d.Parent(); ok {
		if c.GroupID == "" {
			c.GroupID = parent.GroupID
		}
		if c.Version == "" {
			c.Version = parent.Version
		}
	}
	return c
}

// Parent returns the <parent> declaration, if any.
func (d *Document) Parent() (ParentRef, bool) {
	p := first(d.Project(), "parent")
	if p == nil {
		return ParentRef{}, false
	}
	ref := ParentRef{
		GroupID:    childText(p, "groupId"),
		ArtifactID: childText(p, "artifactId"),
		Version:    childText(p, "version"),
	}
	if rp := first(p, "relativePath"); rp != nil {
		ref.HasRelativePath = true
		ref.RelativePath = rp.Text()
	}
	return ref, true
}

// Name returns the path, or the artifactId for in-memory documents.
func (d *Document) Name() string {
	if d.Path != "" {
		return d.Path
	}
	return d.Coordinate().Key()
}

func displayPath(path string) string {
	if path == "" {
		return "<memory>"
	}
	return path
}
