package pom

import (
	"fmt"
	"slices"
	"strings"

	errs "github.com/matzehuels/pomedit/pkg/errors"
)

// QueryMode selects how the query engine treats malformed dependencies.
type QueryMode int

const (
	// QueryStrict aborts on a dependency without groupId or artifactId.
	QueryStrict QueryMode = iota
	// QueryPermissive skips such dependencies.
	QueryPermissive
)

// String returns "strict" or "permissive".
func (m QueryMode) String() string {
	if m == QueryPermissive {
		return "permissive"
	}
	return "strict"
}

// ParseQueryMode parses "strict" or "permissive". The empty string is strict.
func ParseQueryMode(s string) (QueryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return QueryStrict, nil
	case "permissive", "unsafe":
		return QueryPermissive, nil
	default:
		return QueryStrict, errs.New(errs.ErrCodeInvalidInput, "unknown query mode %q (want strict or permissive)", s)
	}
}

// Project is a target document, its parent chain and the dependency to add.
// The zero value is not usable; start from NewProject.
type Project struct {
	target  *Document
	parents []*Document

	dependency    Coordinate
	hasDependency bool

	useProperties  bool
	queryMode      QueryMode
	skipIfNewer    bool
	activeProfiles []string
}

// NewProject starts a project on target with default options: literal
// versions, strict queries and no parents.
func NewProject(target *Document) Project {
	return Project{target: target}
}

// WithDependency returns a copy of p operating on c.
func (p Project) WithDependency(c Coordinate) Project {
	p.dependency = c
	p.hasDependency = true
	return p
}

// WithParentChain returns a copy of p with the given ancestors, nearest
// parent first.
func (p Project) WithParentChain(parents ...*Document) Project {
	p.parents = slices.Clone(parents)
	return p
}

// WithUseProperties returns a copy of p that writes versions as properties.
func (p Project) WithUseProperties(v bool) Project {
	p.useProperties = v
	return p
}

// WithQueryMode returns a copy of p with the query mode set.
func (p Project) WithQueryMode(m QueryMode) Project {
	p.queryMode = m
	return p
}

// WithSkipIfNewer returns a copy of p that leaves versions alone when the
// declared one is already newer or equal.
func (p Project) WithSkipIfNewer(v bool) Project {
	p.skipIfNewer = v
	return p
}

// WithActiveProfiles returns a copy of p with profile ids whose properties
// take part in resolution. Ids starting with "!" are ignored.
func (p Project) WithActiveProfiles(ids ...string) Project {
	p.activeProfiles = slices.Clone(ids)
	return p
}

// Target returns the document receiving the dependency.
func (p Project) Target() *Document { return p.target }

// Parents returns the parent chain, nearest first.
func (p Project) Parents() []*Document { return slices.Clone(p.parents) }

// Dependency returns the coordinate to add.
func (p Project) Dependency() (Coordinate, bool) { return p.dependency, p.hasDependency }

// UseProperties reports whether versions are written as properties.
func (p Project) UseProperties() bool { return p.useProperties }

// QueryMode returns the query mode.
func (p Project) QueryMode() QueryMode { return p.queryMode }

// SkipIfNewer reports whether upgrades skip newer declared versions.
func (p Project) SkipIfNewer() bool { return p.skipIfNewer }

// ActiveProfiles returns the configured profile ids.
func (p Project) ActiveProfiles() []string { return slices.Clone(p.activeProfiles) }

// Documents returns the target followed by its parents.
func (p Project) Documents() []*Document {
	docs := make([]*Document, 0, 1+len(p.parents))
	if p.target != nil {
		docs = append(docs, p.target)
	}
	return append(docs, p.parents...)
}

// DirtyDocuments returns the documents that were edited, target first.
func (p Project) DirtyDocuments() []*Document {
	var out []*Document
	for _, d := range p.Documents() {
		if d.Dirty() {
			out = append(out, d)
		}
	}
	return out
}

// String summarizes the project for logs.
func (p Project) String() string {
	name := "<nil>"
	if p.target != nil {
		name = p.target.Name()
	}
	return fmt.Sprintf("project(%s, parents=%d, dependency=%s, properties=%t)",
		name, len(p.parents), p.dependency, p.useProperties)
}

// activeProfileIDs returns the configured ids without deactivated ones.
func (p Project) activeProfileIDs() []string {
	var ids []string
	for _, id := range p.activeProfiles {
		id = strings.TrimSpace(id)
		if id == "" || strings.HasPrefix(id, "!") {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
