package pom

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionQueryResponse holds the Java source and target levels a project
// compiles with. A nil field was not declared anywhere in the chain.
type VersionQueryResponse struct {
	Source *semver.Version
	Target *semver.Version
}

var compilerPluginPaths = []string{
	"project/build/plugins/plugin[artifactId='maven-compiler-plugin']/configuration",
	"project/build/pluginManagement/plugins/plugin[artifactId='maven-compiler-plugin']/configuration",
}

// QueryVersions reports the Java source and target levels of p, read from
// the maven.compiler.* properties and maven-compiler-plugin configuration of
// the chain. Plugin configuration wins over properties and nearer documents
// win over farther ones. <release> sets both levels.
func QueryVersions(p Project) VersionQueryResponse {
	props := p.ResolvedProperties()
	var source, target string

	set := func(src, tgt, release string) {
		if release != "" {
			source, target = release, release
		}
		if src != "" {
			source = src
		}
		if tgt != "" {
			target = tgt
		}
	}

	set(props["maven.compiler.source"], props["maven.compiler.target"], props["maven.compiler.release"])

	docs := p.Documents()
	for i := len(docs) - 1; i >= 0; i-- {
		local := withBuiltins(props, docs[i])
		for _, path := range compilerPluginPaths {
			for _, cfg := range docs[i].Select(path) {
				set(interpolate(childText(cfg, "source"), local),
					interpolate(childText(cfg, "target"), local),
					interpolate(childText(cfg, "release"), local))
			}
		}
	}

	return VersionQueryResponse{
		Source: javaVersion(source),
		Target: javaVersion(target),
	}
}

var legacyJavaVersion = regexp.MustCompile(`^1\.\d+$`)

// javaVersion maps a Java level to a semantic version: "1.8" is 1.8.0 and
// "17" is 17.0.0. Unparseable levels yield nil.
func javaVersion(s string) *semver.Version {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "${") {
		return nil
	}
	switch {
	case legacyJavaVersion.MatchString(s):
		s += ".0"
	case !strings.Contains(s, "."):
		s += ".0.0"
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil
	}
	return v
}
