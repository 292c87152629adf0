package pom

import "strings"

// VersionKind tells whether a version is written literally or through a
// property.
type VersionKind int

const (
	VersionLiteral VersionKind = iota
	VersionProperty
)

// String returns "literal" or "property".
func (k VersionKind) String() string {
	if k == VersionProperty {
		return "property"
	}
	return "literal"
}

// VersionDefinition is the text written into a <version> element.
type VersionDefinition struct {
	Kind  VersionKind
	Value string
}

// PropertyName returns the property holding the version of artifactID.
func PropertyName(artifactID string) string {
	return "versions." + strings.ToLower(artifactID)
}

// ResolveVersion decides how the version of p's dependency is written and
// which document hosts the literal value. It does not edit anything.
//
// Without properties, or without parents, the literal goes into the target.
// Otherwise the value is ${versions.<artifactId>} and the root-most parent
// hosts the property.
func ResolveVersion(p Project) (VersionDefinition, *Document) {
	if !p.useProperties || len(p.parents) == 0 {
		return VersionDefinition{Kind: VersionLiteral, Value: p.dependency.Version}, p.target
	}
	name := PropertyName(p.dependency.ArtifactID)
	return VersionDefinition{Kind: VersionProperty, Value: "${" + name + "}"}, p.parents[len(p.parents)-1]
}

// applyVersion resolves the version of p and, for property versions, writes
// the literal into the host document. It returns the text for <version>.
func applyVersion(p Project) VersionDefinition {
	def, host := ResolveVersion(p)
	if def.Kind == VersionProperty {
		upsertProperty(host, PropertyName(p.dependency.ArtifactID), p.dependency.Version)
	}
	return def
}
