package pom

import (
	errs "github.com/matzehuels/pomedit/pkg/errors"
)

// singletonPaths must occur at most once in a target document.
var singletonPaths = []string{
	"project/dependencies",
	"project/dependencyManagement",
	"project/dependencyManagement/dependencies",
}

// validate runs every check that can fail before a document is touched.
func validate(p Project) error {
	if p.target == nil {
		return errs.New(errs.ErrCodeInvalidInput, "project has no target document")
	}
	c, ok := p.Dependency()
	if !ok {
		return errs.New(errs.ErrCodeInvalidInput, "project has no dependency")
	}
	if c.GroupID == "" || c.ArtifactID == "" {
		return errs.New(errs.ErrCodeMalformedCoordinate, "dependency %q lacks groupId or artifactId", c.Key())
	}
	if c.Version == "" {
		return errs.New(errs.ErrCodeMalformedCoordinate, "dependency %s has no version", c.Key())
	}

	if err := checkDependencyType(c); err != nil {
		return err
	}
	for _, parent := range p.parents {
		if pk := parent.Packaging(); pk != "pom" {
			return errs.New(errs.ErrCodeWrongDependencyType,
				"parent %s has packaging %q, a parent must be packaged as pom", parent.Name(), pk)
		}
	}

	for _, path := range singletonPaths {
		if n := len(p.target.Select(path)); n > 1 {
			return errs.New(errs.ErrCodeAmbiguousStructure,
				"%s: found %d <%s> elements, expected at most one", p.target.Name(), n, path)
		}
	}
	if def, host := ResolveVersion(p); def.Kind == VersionProperty {
		if n := len(host.Select("project/properties")); n > 1 {
			return errs.New(errs.ErrCodeAmbiguousStructure,
				"%s: found %d <project/properties> elements, expected at most one", host.Name(), n)
		}
	}
	return nil
}

// checkDependencyType enforces that pom-typed dependencies are imported and
// that only pom-typed dependencies are.
func checkDependencyType(c Coordinate) error {
	typ, scope := c.EffectiveType(), c.EffectiveScope()
	switch {
	case typ == "pom" && scope != "import":
		return errs.New(errs.ErrCodeWrongDependencyType,
			"%s has type pom and must use scope import, got %q", c.Key(), scope)
	case scope == "import" && typ != "pom":
		return errs.New(errs.ErrCodeWrongDependencyType,
			"%s uses scope import and must have type pom, got %q", c.Key(), typ)
	}
	return nil
}
