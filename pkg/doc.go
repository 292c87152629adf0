// Package pkg holds the pomedit libraries.
//
// # Overview
//
// pomedit inserts and upgrades dependencies in Maven pom.xml files while
// leaving every byte it does not touch exactly as it was. The pkg directory
// is organized by concern:
//
//  1. [xmltree] - Format-preserving XML tree with byte-range edits
//  2. [pom] - The edit and query engine: coordinates, projects, strategies
//  3. [pom/scan] - Parent chain discovery on disk
//  4. [pipeline] - Orchestration (scan, resolve, edit, diff, write)
//  5. [integrations] - Maven Central client
//  6. [cache], [journal], [config] - Infrastructure
//  7. [io], [render] - Hierarchy JSON and Graphviz diagrams
//
// # Data Flow
//
//	pom.xml (target)
//	     ↓
//	[pom/scan]     follow <parent><relativePath> up to the top-level directory
//	     ↓
//	[pom.Project]  target + parents + dependency + options
//	     ↓
//	[pom.Insert] / [pom.Modify]
//	     ↓
//	[diff]         unified patch per rewritten file
//	     ↓
//	[journal]      record originals, then write atomically
//
// Only the byte ranges of inserted or replaced nodes change; indentation,
// comments, attribute quoting and line endings elsewhere are preserved.
//
// [xmltree]: github.com/matzehuels/pomedit/pkg/xmltree
// [pom]: github.com/matzehuels/pomedit/pkg/pom
// [pom/scan]: github.com/matzehuels/pomedit/pkg/pom/scan
// [pipeline]: github.com/matzehuels/pomedit/pkg/pipeline
// [integrations]: github.com/matzehuels/pomedit/pkg/integrations
// [cache]: github.com/matzehuels/pomedit/pkg/cache
// [journal]: github.com/matzehuels/pomedit/pkg/journal
// [config]: github.com/matzehuels/pomedit/pkg/config
// [io]: github.com/matzehuels/pomedit/pkg/io
// [render]: github.com/matzehuels/pomedit/pkg/render
// [diff]: github.com/matzehuels/pomedit/pkg/diff
// [pom.Project]: github.com/matzehuels/pomedit/pkg/pom.Project
// [pom.Insert]: github.com/matzehuels/pomedit/pkg/pom.Insert
// [pom.Modify]: github.com/matzehuels/pomedit/pkg/pom.Modify
package pkg
