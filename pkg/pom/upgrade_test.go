package pom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifyUpgradesLiteral(t *testing.T) {
	p, child, parent := parentChild(t)

	ok, err := Modify(p.WithDependency(mustCoordinate(t, "junit:junit:4.13.3")))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, strings.Replace(childPOM, "4.13.2", "4.13.3", 1), string(child.Bytes()))
	assert.False(t, parent.Dirty())
}

func TestModifyUpgradesThroughExistingProperty(t *testing.T) {
	parentSrc := strings.Replace(parentPOM, "    <modules>", `    <properties>
        <junit.version>4.13.2</junit.version>
    </properties>

    <modules>`, 1)
	childSrc := strings.Replace(childPOM, "<version>4.13.2</version>", "<version>${junit.version}</version>", 1)

	parent := mustParse(t, "pom.xml", parentSrc)
	child := mustParse(t, "child/pom.xml", childSrc)
	p := NewProject(child).WithParentChain(parent).WithDependency(mustCoordinate(t, "junit:junit:4.13.3"))

	ok, err := Modify(p)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.False(t, child.Dirty())
	assert.Equal(t, strings.Replace(parentSrc, "4.13.2", "4.13.3", 1), string(parent.Bytes()))
}

func TestModifyUpgradeIntroducesProperty(t *testing.T) {
	p, child, parent := parentChild(t)

	_, err := Modify(p.WithUseProperties(true).WithDependency(mustCoordinate(t, "junit:junit:4.13.3")))
	require.NoError(t, err)

	assert.Equal(t, strings.Replace(childPOM, "4.13.2", "${versions.junit}", 1), string(child.Bytes()))
	defs := parent.Select("project/properties/versions.junit")
	require.Len(t, defs, 1)
	assert.Equal(t, "4.13.3", defs[0].Text())
}

func TestModifySkipIfNewer(t *testing.T) {
	tests := []struct {
		requested string
		wantDirty bool
	}{
		{"4.12", false},
		{"4.13.2", false},
		{"4.13.3", true},
		{"5.0.0-M1", true},
		{"not-a-version", true},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			p, child, _ := parentChild(t)
			ok, err := Modify(p.WithSkipIfNewer(true).WithDependency(mustCoordinate(t, "junit:junit:"+tt.requested)))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantDirty, child.Dirty())
		})
	}
}

func TestModifyFallsBackToInsert(t *testing.T) {
	p, child, _ := parentChild(t)

	ok, err := Modify(p.WithDependency(mustCoordinate(t, "org.dom4j:dom4j:2.0.3")))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Len(t, child.Select("project/dependencyManagement/dependencies/dependency"), 1)
	assert.Len(t, child.Select("project/dependencies/dependency"), 2)
}

func TestModifyUpgradesManagedEntry(t *testing.T) {
	p, child, _ := parentChild(t)
	c := mustCoordinate(t, "org.dom4j:dom4j:2.0.3")

	_, err := Insert(p.WithDependency(c))
	require.NoError(t, err)
	_, err = Modify(p.WithDependency(c.WithVersion("2.1.0")))
	require.NoError(t, err)

	managed := child.Select("project/dependencyManagement/dependencies/dependency")
	require.Len(t, managed, 1)
	assert.Equal(t, "2.1.0", childText(managed[0], "version"))
	assert.Len(t, child.Select("project/dependencies/dependency"), 2)
}

func TestUpgradeNeeded(t *testing.T) {
	assert.True(t, upgradeNeeded("1.0.0", "1.0.1"))
	assert.False(t, upgradeNeeded("1.0.1", "1.0.0"))
	assert.False(t, upgradeNeeded("1.0", "1.0.0"))
	assert.True(t, upgradeNeeded("${x}", "1.0.0"))
}
