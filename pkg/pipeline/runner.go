package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pomedit/pkg/cache"
	"github.com/matzehuels/pomedit/pkg/diff"
	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/integrations/maven"
	pomio "github.com/matzehuels/pomedit/pkg/io"
	"github.com/matzehuels/pomedit/pkg/journal"
	"github.com/matzehuels/pomedit/pkg/observability"
	"github.com/matzehuels/pomedit/pkg/pom"
	"github.com/matzehuels/pomedit/pkg/pom/scan"
	"github.com/matzehuels/pomedit/pkg/render/hierarchy"
)

// TTLArtifact is how long rendered diagrams stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Runner executes operations with caching.
//
// Maven and Journal are optional: without Maven a coordinate must carry a
// version, without Journal writes are not recorded for undo. A Runner holds
// no per-operation state and may be shared between goroutines as long as
// they edit different files.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Maven   *maven.Client
	Journal journal.Store
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Scan loads target and its parent chain.
func (r *Runner) Scan(ctx context.Context, target, topLevel string) (pom.Project, error) {
	hooks := observability.Edit()
	hooks.OnScanStart(ctx, target)
	start := time.Now()

	p, err := scan.ScanFrom(target, topLevel, r.Logger)
	hooks.OnScanComplete(ctx, target, len(p.Parents()), time.Since(start), err)
	if err != nil {
		return pom.Project{}, err
	}

	r.Logger.Debug("scanned parent chain", "target", target, "parents", len(p.Parents()))
	return p, nil
}

// ResolveCoordinate parses raw and fills a missing version with the latest
// release from Maven Central.
func (r *Runner) ResolveCoordinate(ctx context.Context, raw string, refresh bool) (pom.Coordinate, error) {
	c, err := pom.ParseCoordinate(raw)
	if err != nil {
		return pom.Coordinate{}, err
	}
	if c.Version != "" {
		return c, nil
	}
	if r.Maven == nil {
		return pom.Coordinate{}, errs.New(errs.ErrCodeMalformedCoordinate, "dependency %s has no version", c.Key())
	}

	v, err := r.Maven.LatestVersion(ctx, c.GroupID, c.ArtifactID, refresh)
	if err != nil {
		return pom.Coordinate{}, fmt.Errorf("look up latest version of %s: %w", c.Key(), err)
	}
	r.Logger.Info("resolved latest version", "dependency", c.Key(), "version", v)
	return c.WithVersion(v), nil
}

// Edit applies opts to an already loaded project. Documents are modified
// in memory only.
func (r *Runner) Edit(ctx context.Context, p pom.Project, opts EditOptions) (*EditResult, error) {
	return r.edit(ctx, p, opts, "")
}

func (r *Runner) edit(ctx context.Context, p pom.Project, opts EditOptions, base string) (*EditResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	result := &EditResult{Stats: Stats{Parents: len(p.Parents())}}

	lookupStart := time.Now()
	c, err := r.ResolveCoordinate(ctx, opts.Coordinate, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Stats.LookupTime = time.Since(lookupStart)
	if opts.Type != "" {
		c.Type = opts.Type
	}
	result.Coordinate = c

	p = p.WithDependency(c).
		WithUseProperties(opts.UseProperties).
		WithSkipIfNewer(opts.SkipIfNewer).
		WithActiveProfiles(opts.ActiveProfiles...)
	result.Project = p

	op := opts.Op()
	target := p.Target().Name()
	hooks := observability.Edit()
	hooks.OnEditStart(ctx, op, target)
	editStart := time.Now()

	if opts.InsertOnly {
		result.Changed, err = pom.Insert(p)
	} else {
		result.Changed, err = pom.Modify(p)
	}
	result.Stats.EditTime = time.Since(editStart)
	if err != nil {
		hooks.OnEditComplete(ctx, op, target, 0, result.Stats.EditTime, err)
		return nil, err
	}

	result.Files = changes(p, base, opts.DiffContext)
	hooks.OnEditComplete(ctx, op, target, len(result.Files), result.Stats.EditTime, nil)

	r.Logger.Info("edited project",
		"dependency", c.String(),
		"changed", result.Changed,
		"files", len(result.Files),
		"duration", result.Stats.EditTime)
	return result, nil
}

// Modify loads opts.Target with its parent chain, applies the edit and,
// unless DryRun is set, writes every changed file.
//
// Writes are recorded in the journal before any file is touched. A failed
// write leaves the entry in place so the files already written can be
// restored with undo.
func (r *Runner) Modify(ctx context.Context, opts ModifyOptions) (*EditResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	scanStart := time.Now()
	p, err := r.Scan(ctx, opts.Target, opts.TopLevel)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	scanTime := time.Since(scanStart)

	base := opts.TopLevel
	if base == "" {
		base = filepath.Dir(opts.Target)
	}
	result, err := r.edit(ctx, p, opts.EditOptions, base)
	if err != nil {
		return nil, err
	}
	result.Stats.ScanTime = scanTime

	if opts.DryRun || len(result.Files) == 0 {
		return result, nil
	}

	if r.Journal != nil {
		entry := journal.New(opts.Op(), opts.Target, result.Coordinate.String())
		for _, f := range result.Files {
			entry.Add(f.Path, f.Original, f.Updated)
		}
		if err := r.Journal.Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("record journal entry: %w", err)
		}
		result.JournalID = entry.ID
	}

	for _, f := range result.Files {
		if err := pomio.WriteFileAtomic(f.Path, f.Updated); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", f.Path)
		}
		observability.Edit().OnWrite(ctx, f.Path, len(f.Updated))
		r.Logger.Debug("wrote file", "path", f.Path, "bytes", len(f.Updated))
	}
	return result, nil
}

// Query returns the effective dependencies of opts.Target.
func (r *Runner) Query(ctx context.Context, opts QueryOptions) (*QueryResult, error) {
	if opts.Target == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "target is required")
	}
	p, err := r.Scan(ctx, opts.Target, opts.TopLevel)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return r.QueryProject(ctx, p.WithQueryMode(opts.Mode).WithActiveProfiles(opts.ActiveProfiles...))
}

// QueryProject runs the query engine on a loaded project.
func (r *Runner) QueryProject(ctx context.Context, p pom.Project) (*QueryResult, error) {
	hooks := observability.Edit()
	target := p.Target().Name()
	hooks.OnEditStart(ctx, OpQuery, target)
	start := time.Now()

	deps, err := pom.QueryDependencies(p)
	hooks.OnEditComplete(ctx, OpQuery, target, 0, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Project: p, Dependencies: deps}, nil
}

// Versions reports the Java source and target levels of target.
func (r *Runner) Versions(ctx context.Context, target, topLevel string) (pom.VersionQueryResponse, error) {
	p, err := r.Scan(ctx, target, topLevel)
	if err != nil {
		return pom.VersionQueryResponse{}, fmt.Errorf("scan: %w", err)
	}
	return pom.QueryVersions(p), nil
}

// Graph renders the parent hierarchy of opts.Target, or of the hierarchy
// JSON at opts.Input. Rendered artifacts are cached by content hash.
func (r *Runner) Graph(ctx context.Context, opts GraphOptions) (*GraphResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var h pomio.Hierarchy
	if opts.Input != "" {
		imported, err := pomio.ImportJSON(opts.Input)
		if err != nil {
			return nil, err
		}
		h = imported
	} else {
		p, err := r.Scan(ctx, opts.Target, opts.TopLevel)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		base := opts.TopLevel
		if base == "" {
			base = filepath.Dir(opts.Target)
		}
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		h = pomio.FromProject(p, base)
	}

	var buf bytes.Buffer
	if err := pomio.WriteJSON(h, &buf); err != nil {
		return nil, err
	}
	result := &GraphResult{Hierarchy: h, Hash: cache.Hash(buf.Bytes())}

	key := r.Keyer.ArtifactKey(result.Hash, cache.ArtifactKeyOpts{
		Format:    opts.Format,
		Direction: opts.Direction,
		Detailed:  opts.Detailed,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.Artifact = data
			result.CacheHit = true
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	data, err := hierarchy.Render(ctx, h, opts.Format, hierarchy.Options{
		Detailed:  opts.Detailed,
		Direction: opts.Direction,
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = data

	if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	r.Logger.Info("rendered hierarchy",
		"format", opts.Format,
		"nodes", len(h.Nodes),
		"duration", time.Since(start))
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// changes collects the documents whose bytes differ from what was loaded.
// Diff headers name files relative to base when possible.
func changes(p pom.Project, base string, lines int) []FileChange {
	var out []FileChange
	for _, d := range p.DirtyDocuments() {
		before, after := d.Original(), d.Bytes()
		if bytes.Equal(before, after) {
			continue
		}
		name := displayName(d, base)
		body, _ := diff.Unified("a/"+name, "b/"+name, before, after, diff.Options{
			MaxBytes: DefaultDiffMaxBytes,
			Context:  lines,
		})
		added, removed := diff.Stat(before, after)
		out = append(out, FileChange{
			Path:     d.Path,
			Diff:     body,
			Added:    added,
			Removed:  removed,
			Original: before,
			Updated:  after,
		})
	}
	return out
}

func displayName(d *pom.Document, base string) string {
	name := d.Name()
	if base == "" || d.Path == "" {
		return filepath.ToSlash(name)
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return filepath.ToSlash(name)
	}
	if rel, err := filepath.Rel(absBase, d.Path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(name)
}
