// Package scan builds a pom.Project from a pom.xml on disk by following its
// <parent><relativePath> references.
//
// The walk is conservative: it stops, with a warning, at the first reference
// it cannot trust (absolute paths, loops, missing or empty files, files
// outside the top-level directory, or a parent whose artifactId does not
// match the child's declaration). Whatever was collected up to that point
// becomes the parent chain.
package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/pom"
)

// DefaultRelativePath is what Maven assumes when <parent> has no
// <relativePath>.
const DefaultRelativePath = "../pom.xml"

// maxDepth bounds the walk independently of loop detection.
const maxDepth = 64

// ScanFrom loads the POM at path and its parent chain. Parents must live
// under topLevelDir; an empty topLevelDir means the directory of path.
func ScanFrom(path, topLevelDir string, logger *log.Logger) (pom.Project, error) {
	if logger == nil {
		logger = log.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return pom.Project{}, errs.Wrap(errs.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	if topLevelDir == "" {
		topLevelDir = filepath.Dir(abs)
	}
	top, err := filepath.Abs(topLevelDir)
	if err != nil {
		return pom.Project{}, errs.Wrap(errs.ErrCodeInvalidPath, err, "resolve %s", topLevelDir)
	}

	target, err := pom.LoadDocument(abs)
	if err != nil {
		return pom.Project{}, err
	}

	parents := walk(target, top, logger)
	return pom.NewProject(target).WithParentChain(parents...), nil
}

// walk follows parent references starting at doc.
func walk(doc *pom.Document, top string, logger *log.Logger) []*pom.Document {
	var parents []*pom.Document
	seen := map[string]bool{filepath.Clean(doc.Path): true}

	cur := doc
	for range maxDepth {
		ref, ok := cur.Parent()
		if !ok {
			break
		}
		rel, ok := relativePathOf(cur, ref, top)
		if !ok {
			break
		}

		if err := errs.ValidateRelativePath(rel); err != nil {
			logger.Warn("parent path is not relative", "pom", cur.Path, "relativePath", rel)
			break
		}

		next := resolve(filepath.Dir(cur.Path), rel)
		if seen[next] {
			logger.Warn("parent loop", "pom", cur.Path, "relativePath", rel)
			break
		}
		seen[next] = true

		if !within(top, next) {
			logger.Warn("parent outside top-level directory", "path", next, "top", top)
			break
		}

		info, err := os.Stat(next)
		if err != nil {
			logger.Warn("parent pom not found", "path", next)
			break
		}
		if info.Size() == 0 {
			logger.Warn("parent pom is empty", "path", next)
			break
		}

		parent, err := pom.LoadDocument(next)
		if err != nil {
			logger.Warn("parent pom unreadable", "path", next, "err", err)
			break
		}

		got := parent.Coordinate().ArtifactID
		if got == "" || ref.ArtifactID == "" || got != ref.ArtifactID {
			logger.Warn("parent artifactId mismatch", "path", next, "declared", ref.ArtifactID, "found", got)
			break
		}

		logger.Debug("found parent", "path", next, "artifactId", got)
		parents = append(parents, parent)
		cur = parent
	}
	return parents
}

// relativePathOf returns the path cur's parent should be loaded from, or
// false when the walk ends at cur.
func relativePathOf(cur *pom.Document, ref pom.ParentRef, top string) (string, bool) {
	if ref.HasRelativePath {
		rel := strings.TrimSpace(ref.RelativePath)
		if rel == "" {
			return "", false
		}
		return normalize(rel), true
	}
	// A POM in the top-level directory has nothing above it to inherit from.
	if filepath.Clean(filepath.Dir(cur.Path)) == top {
		return "", false
	}
	return DefaultRelativePath, true
}

// normalize converts Windows separators to slashes.
func normalize(rel string) string {
	return strings.ReplaceAll(rel, "\\", "/")
}

// resolve joins rel onto dir. A relativePath naming a directory refers to
// the pom.xml inside it, as in Maven.
func resolve(dir, rel string) string {
	path := filepath.Clean(filepath.Join(dir, filepath.FromSlash(rel)))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, "pom.xml")
	}
	return path
}

// within reports whether path lies under dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
