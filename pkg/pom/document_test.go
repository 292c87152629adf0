package pom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/pomedit/pkg/errors"
)

func TestParseDocumentRejects(t *testing.T) {
	_, err := ParseDocument("x.xml", []byte("<settings/>"))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidManifest), "got %v", err)

	_, err = ParseDocument("x.xml", []byte("<project>"))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidManifest), "got %v", err)
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	require.NoError(t, os.WriteFile(path, []byte(childPOM), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, path, doc.Name())

	_, err = LoadDocument(filepath.Join(dir, "missing.xml"))
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound), "got %v", err)
}

func TestDocumentCoordinateInheritsFromParent(t *testing.T) {
	doc := mustParse(t, "", childPOM)
	assert.Equal(t, Coordinate{GroupID: "io.example", ArtifactID: "child", Version: "1.0.0", Type: "jar"}, doc.Coordinate())
	assert.Equal(t, "io.example:child", doc.Name())
	assert.Equal(t, "jar", doc.Packaging())

	parent := mustParse(t, "", parentPOM)
	assert.Equal(t, "pom", parent.Packaging())
	_, ok := parent.Parent()
	assert.False(t, ok)
}

func TestDocumentParent(t *testing.T) {
	ref, ok := mustParse(t, "", childPOM).Parent()
	require.True(t, ok)
	assert.Equal(t, ParentRef{GroupID: "io.example", ArtifactID: "parent", Version: "1.0.0"}, ref)

	src := strings.Replace(childPOM, "    </parent>", "        <relativePath/>\n    </parent>", 1)
	ref, ok = mustParse(t, "", src).Parent()
	require.True(t, ok)
	assert.True(t, ref.HasRelativePath)
	assert.Empty(t, ref.RelativePath)

	src = strings.Replace(childPOM, "    </parent>", "        <relativePath>../build/pom.xml</relativePath>\n    </parent>", 1)
	ref, _ = mustParse(t, "", src).Parent()
	assert.Equal(t, "../build/pom.xml", ref.RelativePath)
}

func TestSelectNamespaces(t *testing.T) {
	withNS := mustParse(t, "", childPOM)
	withoutNS := mustParse(t, "", strings.Replace(childPOM, ` xmlns="http://maven.apache.org/POM/4.0.0"`, "", 1))

	for _, d := range []*Document{withNS, withoutNS} {
		assert.Len(t, d.Select("project/dependencies/dependency"), 1)
		assert.Len(t, d.Select("/project/dependencies/dependency[artifactId='junit']/version"), 1)
		assert.Empty(t, d.Select("project/dependencies/dependency[artifactId='dom4j']"))
		assert.Len(t, Select(d.Project(), "parent/*"), 3)
	}
}
