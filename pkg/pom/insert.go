package pom

// executeInsert adds the dependency to <dependencyManagement> with its
// version and a bare reference to <dependencies>. Missing sections are
// created at the end of <project>.
func executeInsert(p Project) (bool, error) {
	c := p.dependency
	proj := p.target.Project()

	dm := first(proj, "dependencyManagement")
	if dm == nil {
		dm = proj.AppendElement("dependencyManagement")
	}
	managed := first(dm, "dependencies")
	if managed == nil {
		managed = dm.AppendElement("dependencies")
	}

	def := applyVersion(p)

	entry := managed.AppendElement("dependency")
	entry.AppendTextElement("groupId", c.GroupID)
	entry.AppendTextElement("artifactId", c.ArtifactID)
	entry.AppendTextElement("version", def.Value)
	if c.Type != "" && c.Type != DefaultType {
		entry.AppendTextElement("type", c.Type)
	}
	if c.Scope != "" && c.Scope != DefaultScope {
		entry.AppendTextElement("scope", c.Scope)
	}

	// An imported BOM only lives in <dependencyManagement>.
	if c.Scope == "import" {
		return true, nil
	}

	deps := first(proj, "dependencies")
	if deps == nil {
		deps = proj.AppendElement("dependencies")
	}
	ref := deps.AppendElement("dependency")
	ref.AppendTextElement("groupId", c.GroupID)
	ref.AppendTextElement("artifactId", c.ArtifactID)

	return true, nil
}
