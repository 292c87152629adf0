package pom

import (
	"strings"

	"github.com/matzehuels/pomedit/pkg/xmltree"
)

// PropertyDefinition is a property value and the document declaring it.
type PropertyDefinition struct {
	Value    string
	Document *Document
}

// ResolvedProperties merges the <properties> of the chain. Nearer documents
// override farther ones and active profiles override the plain section of
// the same document.
func (p Project) ResolvedProperties() map[string]string {
	props := make(map[string]string)
	docs := p.Documents()
	for i := len(docs) - 1; i >= 0; i-- {
		for _, sec := range p.propertySections(docs[i]) {
			for _, e := range sec.Elements() {
				props[e.Name.Local] = strings.TrimSpace(e.Text())
			}
		}
	}
	return props
}

// PropertiesDefinedByDocument lists every definition of every property,
// nearest document first.
func (p Project) PropertiesDefinedByDocument() map[string][]PropertyDefinition {
	out := make(map[string][]PropertyDefinition)
	for _, d := range p.Documents() {
		for _, sec := range p.propertySections(d) {
			for _, e := range sec.Elements() {
				out[e.Name.Local] = append(out[e.Name.Local], PropertyDefinition{
					Value:    strings.TrimSpace(e.Text()),
					Document: d,
				})
			}
		}
	}
	return out
}

// propertySections returns the <properties> elements of d that apply: the
// top-level one followed by those of active profiles.
func (p Project) propertySections(d *Document) []*xmltree.Node {
	sections := d.Select("project/properties")
	for _, id := range p.activeProfileIDs() {
		for _, prof := range d.Select("project/profiles/profile") {
			if childText(prof, "id") == id {
				sections = append(sections, Select(prof, "properties")...)
			}
		}
	}
	return sections
}

// definingDocument returns the nearest document of p declaring name in its
// top-level <properties>.
func (p Project) definingDocument(name string) *Document {
	for _, d := range p.Documents() {
		if findProperty(d, name) != nil {
			return d
		}
	}
	return nil
}

// findProperty returns the <name> element under project/properties.
func findProperty(d *Document, name string) *xmltree.Node {
	for _, sec := range d.Select("project/properties") {
		for _, e := range sec.Elements() {
			if e.Name.Local == name {
				return e
			}
		}
	}
	return nil
}

// upsertProperty sets property name to value in d, creating <properties>
// as the last child of <project> when missing.
func upsertProperty(d *Document, name, value string) {
	if e := findProperty(d, name); e != nil {
		e.SetText(value)
		return
	}
	props := first(d.Project(), "properties")
	if props == nil {
		props = d.Project().AppendElement("properties")
	}
	props.AppendTextElement(name, value)
}

// propertyRef returns the name inside a "${name}" reference.
func propertyRef(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 3 && strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") && !strings.Contains(s[2:len(s)-1], "${") {
		return s[2 : len(s)-1], true
	}
	return "", false
}

// interpolate expands ${name} references found in props. Unknown references
// are left as they are.
func interpolate(s string, props map[string]string) string {
	for range 8 {
		if !strings.Contains(s, "${") {
			return s
		}
		var sb strings.Builder
		rest := s
		changed := false
		for {
			i := strings.Index(rest, "${")
			if i < 0 {
				sb.WriteString(rest)
				break
			}
			j := strings.IndexByte(rest[i:], '}')
			if j < 0 {
				sb.WriteString(rest)
				break
			}
			name := rest[i+2 : i+j]
			sb.WriteString(rest[:i])
			if v, ok := props[name]; ok {
				sb.WriteString(v)
				changed = true
			} else {
				sb.WriteString(rest[i : i+j+1])
			}
			rest = rest[i+j+1:]
		}
		s = sb.String()
		if !changed {
			return s
		}
	}
	return s
}

// builtinProperties returns the project.* values Maven defines for d.
func builtinProperties(d *Document) map[string]string {
	c := d.Coordinate()
	props := make(map[string]string)
	for _, kv := range [][2]string{
		{"project.groupId", c.GroupID},
		{"project.artifactId", c.ArtifactID},
		{"project.version", c.Version},
		{"pom.groupId", c.GroupID},
		{"pom.version", c.Version},
	} {
		if kv[1] != "" {
			props[kv[0]] = kv[1]
		}
	}
	return props
}
