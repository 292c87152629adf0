package pom

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/pomedit/pkg/xmltree"
)

var dependencyPaths = []string{
	"project/dependencyManagement/dependencies/dependency",
	"project/dependencies/dependency",
}

// executeUpgrade rewrites the version of every declaration of the dependency
// in the target that carries a <version>. It returns false when there is
// none.
func executeUpgrade(p Project) bool {
	var versions []*xmltree.Node
	for _, path := range dependencyPaths {
		for _, dep := range p.target.Select(path) {
			if !coordinateOf(dep).SameDependency(p.dependency) {
				continue
			}
			if v := first(dep, "version"); v != nil {
				versions = append(versions, v)
			}
		}
	}
	if len(versions) == 0 {
		return false
	}

	props := p.ResolvedProperties()
	for _, v := range versions {
		upgradeVersionNode(p, v, props)
	}
	return true
}

// upgradeVersionNode points v at the requested version. A version that
// already references a property keeps the reference and the property is
// updated where it is defined.
func upgradeVersionNode(p Project, v *xmltree.Node, props map[string]string) {
	want := p.dependency.Version
	current := strings.TrimSpace(v.Text())

	if p.skipIfNewer && !upgradeNeeded(interpolate(current, props), want) {
		return
	}

	if name, ok := propertyRef(current); ok {
		host := p.definingDocument(name)
		if host == nil {
			_, host = ResolveVersion(p)
		}
		upsertProperty(host, name, want)
		return
	}

	if def, host := ResolveVersion(p); def.Kind == VersionProperty {
		upsertProperty(host, PropertyName(p.dependency.ArtifactID), want)
		v.SetText(def.Value)
		return
	}
	v.SetText(want)
}

// upgradeNeeded reports whether requested is newer than current. Versions
// that do not parse always upgrade.
func upgradeNeeded(current, requested string) bool {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return true
	}
	req, err := semver.NewVersion(requested)
	if err != nil {
		return true
	}
	return req.GreaterThan(cur)
}
