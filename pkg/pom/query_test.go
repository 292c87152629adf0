package pom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/pomedit/pkg/errors"
)

func TestQueryDependenciesChildWins(t *testing.T) {
	parentSrc := strings.Replace(parentPOM, "</project>", `    <dependencies>
        <dependency>
            <groupId>junit</groupId>
            <artifactId>junit</artifactId>
            <version>4.12</version>
        </dependency>
        <dependency>
            <groupId>org.slf4j</groupId>
            <artifactId>slf4j-api</artifactId>
            <version>${slf4j.version}</version>
        </dependency>
    </dependencies>
    <properties>
        <slf4j.version>2.0.9</slf4j.version>
    </properties>
</project>`, 1)

	parent := mustParse(t, "pom.xml", parentSrc)
	child := mustParse(t, "child/pom.xml", childPOM)

	got, err := QueryDependencies(NewProject(child).WithParentChain(parent))
	require.NoError(t, err)

	assert.Equal(t, []Coordinate{
		{GroupID: "junit", ArtifactID: "junit", Version: "4.13.2", Scope: "test"},
		{GroupID: "org.slf4j", ArtifactID: "slf4j-api", Version: "2.0.9"},
	}, got)
}

func TestQueryDependenciesManagedVersion(t *testing.T) {
	parentSrc := strings.Replace(parentPOM, "</project>", `    <dependencyManagement>
        <dependencies>
            <dependency>
                <groupId>org.dom4j</groupId>
                <artifactId>dom4j</artifactId>
                <version>${project.version}</version>
            </dependency>
        </dependencies>
    </dependencyManagement>
</project>`, 1)
	childSrc := strings.Replace(childPOM, "    </dependencies>", `        <dependency>
            <groupId>org.dom4j</groupId>
            <artifactId>dom4j</artifactId>
        </dependency>
    </dependencies>`, 1)

	parent := mustParse(t, "pom.xml", parentSrc)
	child := mustParse(t, "child/pom.xml", childSrc)

	got, err := QueryDependencies(NewProject(child).WithParentChain(parent))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1.0.0", got[1].Version)
}

func TestQueryDependenciesModes(t *testing.T) {
	src := strings.Replace(childPOM, "    </dependencies>", `        <dependency>
            <artifactId>orphan</artifactId>
        </dependency>
    </dependencies>`, 1)

	doc := mustParse(t, "pom.xml", src)
	p := NewProject(doc)

	_, err := QueryDependencies(p)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeQueryValidation), "got %v", err)

	got, err := QueryDependencies(p.WithQueryMode(QueryPermissive))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "junit", got[0].ArtifactID)
}

func TestQueryMalformedManagedEntrySkipped(t *testing.T) {
	src := strings.Replace(childPOM, "</project>", `    <dependencyManagement>
        <dependencies>
            <dependency>
                <artifactId>no-group</artifactId>
                <version>9.9</version>
            </dependency>
        </dependencies>
    </dependencyManagement>
</project>`, 1)
	p := NewProject(mustParse(t, "pom.xml", src))

	for _, mode := range []QueryMode{QueryStrict, QueryPermissive} {
		got, err := QueryDependencies(p.WithQueryMode(mode))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "junit", got[0].ArtifactID)
	}
}

func TestQueryIgnoresManagementOnly(t *testing.T) {
	doc := mustParse(t, "pom.xml", standalonePOM)
	c := mustCoordinate(t, "org.junit:junit-bom:5.10.0:import")
	c.Type = "pom"
	_, err := Insert(NewProject(doc).WithDependency(c))
	require.NoError(t, err)

	got, err := QueryDependencies(NewProject(doc))
	require.NoError(t, err)
	assert.False(t, ContainsDependency(got, c))
}

func TestQueryWithoutNamespace(t *testing.T) {
	src := strings.Replace(childPOM, ` xmlns="http://maven.apache.org/POM/4.0.0"`, "", 1)
	got, err := QueryDependencies(NewProject(mustParse(t, "pom.xml", src)))
	require.NoError(t, err)
	assert.True(t, ContainsDependency(got, Coordinate{GroupID: "junit", ArtifactID: "junit"}))
}

func TestQueryForeignNamespaceIgnored(t *testing.T) {
	src := `<project xmlns="http://maven.apache.org/POM/4.0.0" xmlns:x="urn:other">
  <dependencies>
    <x:dependency><x:groupId>g</x:groupId><x:artifactId>a</x:artifactId></x:dependency>
  </dependencies>
</project>`
	got, err := QueryDependencies(NewProject(mustParse(t, "pom.xml", src)))
	require.NoError(t, err)
	assert.Empty(t, got)
}
