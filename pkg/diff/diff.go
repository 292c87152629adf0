// Package diff renders unified diffs of rewritten POM files.
//
// It wraps github.com/pmezard/go-difflib/difflib to produce classic unified
// patches (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+').
// Used by dry runs and by the undo journal's previews.
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines around each hunk.
const DefaultContext = 3

// Options controls patch generation.
type Options struct {
	// MaxBytes caps the combined input size. Larger inputs produce a
	// placeholder patch. 0 means no limit.
	MaxBytes int

	// Context is the number of context lines; 0 means DefaultContext.
	Context int
}

// Unified produces a unified patch turning a into b. It returns "" when the
// inputs are identical, and oversize=true when MaxBytes was exceeded.
func Unified(aName, bName string, a, b []byte, opt Options) (body string, oversize bool) {
	if string(a) == string(b) {
		return "", false
	}
	if opt.MaxBytes > 0 && len(a)+len(b) > opt.MaxBytes {
		return omitted(aName, bName), true
	}

	ctx := opt.Context
	if ctx <= 0 {
		ctx = DefaultContext
	}

	s, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(string(a)),
		B:        splitLines(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	})
	if err != nil || s == "" {
		return omitted(aName, bName), false
	}
	return s, false
}

// Stat counts inserted and deleted lines between a and b.
func Stat(a, b []byte) (added, removed int) {
	m := difflib.NewMatcher(splitLines(string(a)), splitLines(string(b)))
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'i':
			added += op.J2 - op.J1
		case 'd':
			removed += op.I2 - op.I1
		case 'r':
			added += op.J2 - op.J1
			removed += op.I2 - op.I1
		}
	}
	return added, removed
}

// splitLines splits s after each newline, keeping the terminators so CRLF
// files diff cleanly.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// omitted returns a compact placeholder patch.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted\n", aName, bName)
}
