// Package pipeline runs pomedit operations end to end.
//
// The engine in pkg/pom works on in-memory documents. This package adds
// everything around it that CLI and API share: loading the parent chain
// from disk, filling in a missing version from Maven Central, producing
// diffs, writing files atomically with an undo journal entry, and caching
// rendered hierarchy diagrams.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Maven = maven.NewClient(cache, 24*time.Hour)
//	runner.Journal = store
//
//	res, err := runner.Modify(ctx, pipeline.ModifyOptions{
//	    Target:     "services/api/pom.xml",
//	    TopLevel:   ".",
//	    Coordinate: "org.junit.jupiter:junit-jupiter:5.10.2:test",
//	    UseProperties: true,
//	})
//	for _, f := range res.Files {
//	    fmt.Print(f.Diff)
//	}
package pipeline

import (
	"strings"
	"time"

	errs "github.com/matzehuels/pomedit/pkg/errors"
	pomio "github.com/matzehuels/pomedit/pkg/io"
	"github.com/matzehuels/pomedit/pkg/pom"
	"github.com/matzehuels/pomedit/pkg/render"
)

// Operation names recorded in the journal and reported to hooks.
const (
	OpModify = "modify"
	OpInsert = "insert"
	OpQuery  = "query"
)

// DefaultDiffMaxBytes caps the input size for diff previews.
const DefaultDiffMaxBytes = 4 << 20

// =============================================================================
// Options
// =============================================================================

// EditOptions configures an edit of an already loaded project.
type EditOptions struct {
	// Coordinate is "groupId:artifactId[:version[:scope]]". A missing
	// version is looked up on Maven Central when the runner has a client.
	Coordinate string `json:"coordinate"`

	// Type sets the dependency <type>; "pom" requires scope import.
	Type string `json:"type,omitempty"`

	UseProperties  bool     `json:"use_properties,omitempty"`
	SkipIfNewer    bool     `json:"skip_if_newer,omitempty"`
	ActiveProfiles []string `json:"active_profiles,omitempty"`

	// InsertOnly skips the upgrade strategy.
	InsertOnly bool `json:"insert_only,omitempty"`

	// Refresh bypasses cached Maven Central lookups.
	Refresh bool `json:"refresh,omitempty"`

	// DiffContext is the number of context lines in diffs (0 = default).
	DiffContext int `json:"diff_context,omitempty"`
}

// Op returns the operation name for these options.
func (o EditOptions) Op() string {
	if o.InsertOnly {
		return OpInsert
	}
	return OpModify
}

// Validate checks the coordinate syntax.
func (o EditOptions) Validate() error {
	if strings.TrimSpace(o.Coordinate) == "" {
		return errs.New(errs.ErrCodeInvalidInput, "coordinate is required")
	}
	_, err := pom.ParseCoordinate(o.Coordinate)
	return err
}

// ModifyOptions configures an edit of POM files on disk.
type ModifyOptions struct {
	EditOptions

	// Target is the pom.xml to edit.
	Target string `json:"target"`

	// TopLevel bounds the parent walk; empty means the target's directory.
	TopLevel string `json:"top_level,omitempty"`

	// DryRun computes diffs without writing.
	DryRun bool `json:"dry_run,omitempty"`
}

// Validate checks required fields.
func (o ModifyOptions) Validate() error {
	if o.Target == "" {
		return errs.New(errs.ErrCodeInvalidInput, "target is required")
	}
	return o.EditOptions.Validate()
}

// QueryOptions configures a dependency query.
type QueryOptions struct {
	Target         string        `json:"target"`
	TopLevel       string        `json:"top_level,omitempty"`
	Mode           pom.QueryMode `json:"-"`
	ActiveProfiles []string      `json:"active_profiles,omitempty"`
}

// GraphOptions configures hierarchy rendering. Either Target or Input must
// be set.
type GraphOptions struct {
	Target   string `json:"target,omitempty"`
	TopLevel string `json:"top_level,omitempty"`

	// Input is a hierarchy JSON file used instead of scanning Target.
	Input string `json:"input,omitempty"`

	Format    string `json:"format,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
	Direction string `json:"direction,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults checks the source and applies the default format.
func (o *GraphOptions) ValidateAndSetDefaults() error {
	if o.Target == "" && o.Input == "" {
		return errs.New(errs.ErrCodeInvalidInput, "target or input is required")
	}
	if o.Target != "" && o.Input != "" {
		return errs.New(errs.ErrCodeInvalidInput, "target and input are mutually exclusive")
	}
	if o.Format == "" {
		o.Format = render.FormatSVG
	}
	return render.ValidateFormat(o.Format)
}

// =============================================================================
// Results
// =============================================================================

// FileChange is one rewritten document.
type FileChange struct {
	Path     string `json:"path"`
	Diff     string `json:"diff"`
	Added    int    `json:"added"`
	Removed  int    `json:"removed"`
	Original []byte `json:"-"`
	Updated  []byte `json:"-"`
}

// EditResult is the outcome of an edit.
type EditResult struct {
	Project    pom.Project    `json:"-"`
	Coordinate pom.Coordinate `json:"-"`

	// Changed reports whether a strategy applied.
	Changed bool `json:"changed"`

	// Files lists the documents that differ from their original bytes.
	Files []FileChange `json:"files"`

	// JournalID names the undo entry; empty for dry runs.
	JournalID string `json:"journal_id,omitempty"`

	Stats Stats `json:"stats"`
}

// Stats contains timing information.
type Stats struct {
	Parents    int           `json:"parents"`
	ScanTime   time.Duration `json:"scan_time"`
	LookupTime time.Duration `json:"lookup_time,omitempty"`
	EditTime   time.Duration `json:"edit_time"`
}

// QueryResult holds the effective dependencies of a project.
type QueryResult struct {
	Project      pom.Project      `json:"-"`
	Dependencies []pom.Coordinate `json:"dependencies"`
}

// GraphResult holds a rendered hierarchy.
type GraphResult struct {
	Hierarchy pomio.Hierarchy
	Artifact  []byte
	Hash      string
	CacheHit  bool
}
