package pom

import (
	"maps"

	errs "github.com/matzehuels/pomedit/pkg/errors"
)

// QueryDependencies returns the dependencies declared under <dependencies>
// in the target and its parents. A child declaration hides a parent
// declaration of the same artifact. Versions are resolved through the
// chain's properties and, when omitted, its <dependencyManagement>.
//
// In strict mode a dependency lacking groupId or artifactId fails the query
// with QUERY_VALIDATION; in permissive mode it is skipped.
func QueryDependencies(p Project) ([]Coordinate, error) {
	if p.target == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "project has no target document")
	}

	props := p.ResolvedProperties()
	managed := managedVersions(p, props)

	var out []Coordinate
	seen := make(map[string]bool)
	for _, d := range p.Documents() {
		local := withBuiltins(props, d)
		for _, dep := range d.Select("project/dependencies/dependency") {
			c := coordinateOf(dep)
			if c.GroupID == "" || c.ArtifactID == "" {
				if p.queryMode == QueryStrict {
					return nil, errs.New(errs.ErrCodeQueryValidation,
						"%s: dependency without groupId or artifactId", d.Name())
				}
				continue
			}
			c.GroupID = interpolate(c.GroupID, local)
			c.ArtifactID = interpolate(c.ArtifactID, local)
			c.Version = interpolate(c.Version, local)
			if c.Version == "" {
				c.Version = managed[c.Key()]
			}
			if seen[c.Key()] {
				continue
			}
			seen[c.Key()] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// managedVersions maps groupId:artifactId to the version pinned in the
// nearest <dependencyManagement>. Entries missing either id are skipped in
// both query modes; they are never part of the result.
func managedVersions(p Project, props map[string]string) map[string]string {
	managed := make(map[string]string)
	for _, d := range p.Documents() {
		local := withBuiltins(props, d)
		for _, dep := range d.Select("project/dependencyManagement/dependencies/dependency") {
			c := coordinateOf(dep)
			if c.GroupID == "" || c.ArtifactID == "" {
				continue
			}
			key := interpolate(c.GroupID, local) + ":" + interpolate(c.ArtifactID, local)
			if _, ok := managed[key]; !ok {
				managed[key] = interpolate(c.Version, local)
			}
		}
	}
	return managed
}

func withBuiltins(props map[string]string, d *Document) map[string]string {
	local := maps.Clone(props)
	maps.Copy(local, builtinProperties(d))
	return local
}
