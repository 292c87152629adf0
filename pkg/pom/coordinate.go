package pom

import (
	"strings"

	errs "github.com/matzehuels/pomedit/pkg/errors"
)

// Default values Maven assumes when a dependency omits scope or type.
const (
	DefaultScope = "compile"
	DefaultType  = "jar"
)

// Coordinate identifies a Maven dependency. Empty fields are absent.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string
	Type       string
}

// ParseCoordinate parses "groupId:artifactId[:version[:scope]]".
func ParseCoordinate(s string) (Coordinate, error) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) > 4 {
		return Coordinate{}, errs.New(errs.ErrCodeMalformedCoordinate,
			"too many fields in %q, expected groupId:artifactId[:version[:scope]]", s)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		return Coordinate{}, errs.New(errs.ErrCodeMalformedCoordinate,
			"expected groupId:artifactId[:version[:scope]], got %q", s)
	}

	c := Coordinate{GroupID: fields[0], ArtifactID: fields[1]}
	if len(fields) > 2 {
		c.Version = fields[2]
	}
	if len(fields) > 3 {
		c.Scope = fields[3]
	}

	if err := errs.ValidateMavenID("groupId", c.GroupID); err != nil {
		return Coordinate{}, err
	}
	if err := errs.ValidateMavenID("artifactId", c.ArtifactID); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// SameDependency reports whether c and o name the same artifact. Version,
// scope and type are not part of the identity.
func (c Coordinate) SameDependency(o Coordinate) bool {
	return c.GroupID == o.GroupID && c.ArtifactID == o.ArtifactID
}

// Key returns "groupId:artifactId".
func (c Coordinate) Key() string {
	return c.GroupID + ":" + c.ArtifactID
}

// String renders the coordinate in the format ParseCoordinate accepts.
func (c Coordinate) String() string {
	s := c.Key()
	switch {
	case c.Scope != "":
		s += ":" + c.Version + ":" + c.Scope
	case c.Version != "":
		s += ":" + c.Version
	}
	return s
}

// WithVersion returns a copy of c with the version replaced.
func (c Coordinate) WithVersion(v string) Coordinate {
	c.Version = v
	return c
}

// EffectiveScope returns the scope, or "compile" when unset.
func (c Coordinate) EffectiveScope() string {
	if c.Scope == "" {
		return DefaultScope
	}
	return c.Scope
}

// EffectiveType returns the type, or "jar" when unset.
func (c Coordinate) EffectiveType() string {
	if c.Type == "" {
		return DefaultType
	}
	return c.Type
}

// ContainsDependency reports whether list holds a coordinate with the same
// identity as c.
func ContainsDependency(list []Coordinate, c Coordinate) bool {
	for _, x := range list {
		if x.SameDependency(c) {
			return true
		}
	}
	return false
}
