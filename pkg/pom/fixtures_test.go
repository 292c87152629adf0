package pom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const parentPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
    <modelVersion>4.0.0</modelVersion>
    <groupId>io.example</groupId>
    <artifactId>parent</artifactId>
    <version>1.0.0</version>
    <packaging>pom</packaging>

    <modules>
        <module>child</module>
    </modules>
</project>
`

const childPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
    <modelVersion>4.0.0</modelVersion>
    <parent>
        <groupId>io.example</groupId>
        <artifactId>parent</artifactId>
        <version>1.0.0</version>
    </parent>
    <artifactId>child</artifactId>

    <dependencies>
        <dependency>
            <groupId>junit</groupId>
            <artifactId>junit</artifactId>
            <version>4.13.2</version>
            <scope>test</scope>
        </dependency>
    </dependencies>
</project>
`

// standalonePOM has no namespace and two-space indentation.
const standalonePOM = `<project>
  <modelVersion>4.0.0</modelVersion>
  <groupId>io.example</groupId>
  <artifactId>app</artifactId>
  <version>0.1.0</version>
</project>
`

func mustParse(t *testing.T, name, src string) *Document {
	t.Helper()
	d, err := ParseDocument(name, []byte(src))
	require.NoError(t, err)
	return d
}

func mustCoordinate(t *testing.T, s string) Coordinate {
	t.Helper()
	c, err := ParseCoordinate(s)
	require.NoError(t, err)
	return c
}

// parentChild returns a project on childPOM with parentPOM as its parent.
func parentChild(t *testing.T) (Project, *Document, *Document) {
	t.Helper()
	parent := mustParse(t, "pom.xml", parentPOM)
	child := mustParse(t, "child/pom.xml", childPOM)
	return NewProject(child).WithParentChain(parent), child, parent
}
