package xmltree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<!-- leading comment -->
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
    <modelVersion>4.0.0</modelVersion>
    <groupId>io.example</groupId>   <!-- trailing -->
    <artifactId  >demo</artifactId>
    <properties/>
    <dependencies>
        <dependency>
            <groupId>junit</groupId>
            <artifactId>junit</artifactId>
            <version>4.13.2</version>
        </dependency>
    </dependencies>
</project>
`

func TestParseRoundTrip(t *testing.T) {
	inputs := map[string]string{
		"sample":     sample,
		"crlf":       strings.ReplaceAll(sample, "\n", "\r\n"),
		"bom":        "\xEF\xBB\xBF" + sample,
		"cdata":      "<a><![CDATA[x < y]]><b c='1' d=\"2\"/>&amp;</a>",
		"no newline": "<project><dependencies/></project>",
		"doctype":    "<!DOCTYPE project>\n<project>\t<x/>\t</project>\n\n",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(in))
			require.NoError(t, err)
			assert.False(t, doc.Dirty())
			assert.Equal(t, in, string(doc.Bytes()))
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "<a>", "<a></b>", "just text"} {
		_, err := Parse([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseStructure(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	root := doc.RootElement()
	require.NotNil(t, root)
	assert.Equal(t, "project", root.Name.Local)
	assert.Equal(t, "http://maven.apache.org/POM/4.0.0", root.Name.Space)

	names := []string{}
	for _, e := range root.Elements() {
		names = append(names, e.Name.Local)
	}
	assert.Equal(t, []string{"modelVersion", "groupId", "artifactId", "properties", "dependencies"}, names)

	version := Select(doc.Root(), "/project/dependencies/dependency/version")
	require.Len(t, version, 1)
	assert.Equal(t, "4.13.2", version[0].Text())
	assert.Equal(t, 3, version[0].Depth())
	assert.Equal(t, "<version>4.13.2</version>", string(version[0].Source()))
}

func TestSetTextRewritesOnlyTheElement(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	v := Select(doc.Root(), "/project/dependencies/dependency/version")[0]
	v.SetText("5.0.0")

	assert.True(t, doc.Dirty())
	assert.Equal(t, strings.Replace(sample, "4.13.2", "5.0.0", 1), string(doc.Bytes()))
}

func TestSetTextSameValueIsNoop(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	Select(doc.Root(), "/project/artifactId")[0].SetText("demo")
	assert.False(t, doc.Dirty())
}

func TestSetTextEscapes(t *testing.T) {
	doc, err := Parse([]byte("<a><b>x</b></a>"))
	require.NoError(t, err)

	Select(doc.Root(), "a/b")[0].SetText("1 < 2 & 3")
	assert.Equal(t, "<a><b>1 &lt; 2 &amp; 3</b></a>", string(doc.Bytes()))
}

func TestAppendElementFollowsSiblingIndent(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	deps := Select(doc.Root(), "/project/dependencies")[0]
	dep := deps.AppendElement("dependency")
	dep.AppendTextElement("groupId", "org.dom4j")
	dep.AppendTextElement("artifactId", "dom4j")

	want := strings.Replace(sample, `        </dependency>
    </dependencies>`, `        </dependency>
        <dependency>
            <groupId>org.dom4j</groupId>
            <artifactId>dom4j</artifactId>
        </dependency>
    </dependencies>`, 1)
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestAppendElementIntoSelfClosing(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	props := Select(doc.Root(), "/project/properties")[0]
	props.AppendTextElement("versions.dom4j", "2.0.3")

	want := strings.Replace(sample, "    <properties/>\n", `    <properties>
        <versions.dom4j>2.0.3</versions.dom4j>
    </properties>
`, 1)
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestAppendElementLastChildOfRoot(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	root := doc.RootElement()
	dm := root.AppendElement("dependencyManagement")
	dm.AppendElement("dependencies")

	want := strings.Replace(sample, "    </dependencies>\n</project>", `    </dependencies>
    <dependencyManagement>
        <dependencies/>
    </dependencyManagement>
</project>`, 1)
	assert.Equal(t, want, string(doc.Bytes()))
	assert.Equal(t, root.Name.Space, dm.Name.Space)
}

func TestAppendElementKeepsCRLF(t *testing.T) {
	in := "<project>\r\n\t<dependencies>\r\n\t</dependencies>\r\n</project>\r\n"
	doc, err := Parse([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, "\r\n", doc.LineEnding())
	assert.Equal(t, "\t", doc.IndentUnit())

	Select(doc.Root(), "project/dependencies")[0].AppendElement("dependency")

	want := "<project>\r\n\t<dependencies>\r\n\t\t<dependency/>\r\n\t</dependencies>\r\n</project>\r\n"
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestAppendElementKeepsPrefix(t *testing.T) {
	in := "<m:project xmlns:m=\"urn:m\">\n  <m:dependencies/>\n</m:project>"
	doc, err := Parse([]byte(in))
	require.NoError(t, err)

	deps := Select(doc.Root(), "project/dependencies")[0]
	assert.Equal(t, "m", deps.Prefix)
	deps.AppendElement("dependency")

	want := "<m:project xmlns:m=\"urn:m\">\n  <m:dependencies>\n    <m:dependency/>\n  </m:dependencies>\n</m:project>"
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestAppendElementPanicsOnText(t *testing.T) {
	doc, err := Parse([]byte("<a>x</a>"))
	require.NoError(t, err)
	text := doc.RootElement().Children()[0]
	assert.Panics(t, func() { text.AppendElement("b") })
}

func TestIndentUnitDefault(t *testing.T) {
	doc, err := Parse([]byte("<project><a/></project>"))
	require.NoError(t, err)
	assert.Equal(t, "  ", doc.IndentUnit())
}

func TestBytesReturnsCopy(t *testing.T) {
	doc, err := Parse([]byte("<a/>"))
	require.NoError(t, err)
	out := doc.Bytes()
	out[0] = 'X'
	assert.Equal(t, "<a/>", string(doc.Bytes()))
	assert.Equal(t, "<a/>", string(doc.Original()))
}
