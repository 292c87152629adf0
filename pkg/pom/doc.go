// Package pom inserts and upgrades dependency declarations in Maven pom.xml
// files.
//
// The unit of work is a [Project]: a target [Document], its parent chain
// (nearest parent first, root last), the [Coordinate] to add and a few
// options. Projects are immutable; every With* builder returns a copy.
//
//	target, _ := pom.LoadDocument("module/pom.xml")
//	parent, _ := pom.LoadDocument("pom.xml")
//	dep, _ := pom.ParseCoordinate("org.dom4j:dom4j:2.0.3")
//
//	p := pom.NewProject(target).
//	    WithParentChain(parent).
//	    WithDependency(dep).
//	    WithUseProperties(true)
//
//	if _, err := pom.Modify(p); err != nil {
//	    return err
//	}
//	for _, d := range p.DirtyDocuments() {
//	    os.WriteFile(d.Path, d.Bytes(), 0o644)
//	}
//
// # Strategies
//
// [Insert] adds the dependency to <dependencyManagement> with its version and
// a bare reference (groupId and artifactId) to <dependencies>. [Modify] first
// tries to upgrade an existing declaration in place and falls back to
// inserting it.
//
// # Versions
//
// With properties enabled and a non-empty parent chain, the version is
// written as ${versions.<artifactId>} and the property is defined in the
// root-most parent. Otherwise the literal version is written into the target.
//
// # Formatting
//
// Documents render byte-for-byte identical to their source outside the edited
// elements. New elements copy the indentation of their siblings.
//
// Nothing in this package performs I/O besides [LoadDocument], and nothing is
// safe for concurrent use on the same documents.
package pom
