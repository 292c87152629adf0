package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/matzehuels/pomedit/pkg/buildinfo"
	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/integrations"
	"github.com/matzehuels/pomedit/pkg/pipeline"
	"github.com/matzehuels/pomedit/pkg/pom"
)

// Document is a POM file sent by or returned to the client.
type Document struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Dirty   bool   `json:"dirty,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

// ProjectRequest carries a target POM and its parents, nearest first.
type ProjectRequest struct {
	Target         Document   `json:"target"`
	Parents        []Document `json:"parents,omitempty"`
	ActiveProfiles []string   `json:"active_profiles,omitempty"`
}

// ModifyRequest is the body of POST /v1/modify.
type ModifyRequest struct {
	ProjectRequest
	Coordinate    string `json:"coordinate"`
	Type          string `json:"type,omitempty"`
	UseProperties bool   `json:"use_properties,omitempty"`
	SkipIfNewer   bool   `json:"skip_if_newer,omitempty"`
	InsertOnly    bool   `json:"insert_only,omitempty"`
	DiffContext   int    `json:"diff_context,omitempty"`
}

// ModifyResponse lists every document of the request, rewritten where
// dirty.
type ModifyResponse struct {
	Changed    bool       `json:"changed"`
	Coordinate string     `json:"coordinate"`
	Documents  []Document `json:"documents"`
}

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	ProjectRequest
	Mode string `json:"mode,omitempty"`
}

// Dependency is one resolved dependency.
type Dependency struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version,omitempty"`
	Scope      string `json:"scope,omitempty"`
	Type       string `json:"type,omitempty"`
}

// QueryResponse is the body returned by POST /v1/query.
type QueryResponse struct {
	Dependencies []Dependency `json:"dependencies"`
}

// VersionsResponse is the body returned by POST /v1/versions.
type VersionsResponse struct {
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) handleModify(w http.ResponseWriter, r *http.Request) {
	var req ModifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := req.project()
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Edit(r.Context(), p, pipeline.EditOptions{
		Coordinate:     req.Coordinate,
		Type:           req.Type,
		UseProperties:  req.UseProperties,
		SkipIfNewer:    req.SkipIfNewer,
		ActiveProfiles: req.ActiveProfiles,
		InsertOnly:     req.InsertOnly,
		DiffContext:    req.DiffContext,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	diffs := make(map[string]string, len(res.Files))
	for _, f := range res.Files {
		diffs[f.Path] = f.Diff
	}
	out := ModifyResponse{Changed: res.Changed, Coordinate: res.Coordinate.String()}
	for _, d := range res.Project.Documents() {
		diff, dirty := diffs[d.Path]
		out.Documents = append(out.Documents, Document{
			Path:    d.Path,
			Content: string(d.Bytes()),
			Dirty:   dirty,
			Diff:    diff,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !s.decode(w, r, &req) {
		return
	}
	mode, err := pom.ParseQueryMode(req.Mode)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := req.project()
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.QueryProject(r.Context(), p.WithQueryMode(mode))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := QueryResponse{Dependencies: make([]Dependency, 0, len(res.Dependencies))}
	for _, c := range res.Dependencies {
		out.Dependencies = append(out.Dependencies, Dependency{
			GroupID:    c.GroupID,
			ArtifactID: c.ArtifactID,
			Version:    c.Version,
			Scope:      c.Scope,
			Type:       c.Type,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := req.project()
	if err != nil {
		s.writeError(w, err)
		return
	}
	v := pom.QueryVersions(p)
	var out VersionsResponse
	if v.Source != nil {
		out.Source = v.Source.String()
	}
	if v.Target != nil {
		out.Target = v.Target.String()
	}
	writeJSON(w, http.StatusOK, out)
}

// project parses the request documents. Paths default to pom.xml for the
// target and parent-N/pom.xml for parents.
func (req ProjectRequest) project() (pom.Project, error) {
	if strings.TrimSpace(req.Target.Content) == "" {
		return pom.Project{}, errs.New(errs.ErrCodeInvalidInput, "target content is required")
	}
	target, err := parse(req.Target, "pom.xml")
	if err != nil {
		return pom.Project{}, err
	}
	seen := map[string]bool{path.Clean(target.Path): true}
	parents := make([]*pom.Document, 0, len(req.Parents))
	for i, d := range req.Parents {
		doc, err := parse(d, "parent-"+strconv.Itoa(i+1)+"/pom.xml")
		if err != nil {
			return pom.Project{}, err
		}
		key := path.Clean(doc.Path)
		if seen[key] {
			return pom.Project{}, errs.New(errs.ErrCodeInvalidInput, "duplicate document path %q", doc.Path)
		}
		seen[key] = true
		parents = append(parents, doc)
	}
	return pom.NewProject(target).
		WithParentChain(parents...).
		WithActiveProfiles(req.ActiveProfiles...), nil
}

func parse(d Document, fallback string) (*pom.Document, error) {
	p := d.Path
	if p == "" {
		p = fallback
	}
	if err := errs.ValidateRelativePath(p); err != nil {
		return nil, err
	}
	if err := errs.ValidateManifestFilename(path.Base(strings.ReplaceAll(p, "\\", "/"))); err != nil {
		return nil, err
	}
	return pom.ParseDocument(p, []byte(d.Content))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid JSON: " + err.Error(),
			Code:  string(errs.ErrCodeInvalidInput),
		})
		return false
	}
	return true
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeMalformedCoordinate, errs.ErrCodeWrongDependencyType,
		errs.ErrCodeInvalidInput, errs.ErrCodeInvalidManifest, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeAmbiguousStructure:
		return http.StatusConflict
	case errs.ErrCodeQueryValidation:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	}
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, integrations.ErrNetwork):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error: errs.UserMessage(err),
		Code:  string(errs.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
