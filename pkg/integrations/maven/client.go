package maven

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/pomedit/pkg/cache"
	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/integrations"
)

const (
	// DefaultSearchURL is the Maven Central search endpoint.
	DefaultSearchURL = "https://search.maven.org/solrsearch/select"

	// DefaultRepositoryURL is the Maven Central repository root.
	DefaultRepositoryURL = "https://repo1.maven.org/maven2"
)

// SearchHit is one row of the search endpoint's answer for an exact
// groupId:artifactId query.
type SearchHit struct {
	GroupID      string    `json:"group_id"`
	ArtifactID   string    `json:"artifact_id"`
	Version      string    `json:"version"`
	VersionCount int       `json:"version_count,omitempty"`
	Updated      time.Time `json:"updated,omitzero"`
}

// Metadata is the versioning block of an artifact's maven-metadata.xml.
type Metadata struct {
	Latest      string   `json:"latest,omitempty"`
	Release     string   `json:"release,omitempty"`
	Versions    []string `json:"versions"`
	LastUpdated string   `json:"last_updated,omitempty"`
}

// Client provides access to Maven Central. It is safe for concurrent use.
type Client struct {
	*integrations.Client
	searchURL string
	repoURL   string
}

// NewClient creates a Maven Central client caching responses in c for
// cacheTTL. A nil c disables caching.
func NewClient(c cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:    integrations.NewClient(c, "maven:", cacheTTL, nil),
		searchURL: DefaultSearchURL,
		repoURL:   DefaultRepositoryURL,
	}
}

// WithSearchURL points the client at another search endpoint. An empty u
// is ignored.
func (c *Client) WithSearchURL(u string) *Client {
	if u != "" {
		c.searchURL = u
	}
	return c
}

// WithRepositoryURL points the client at another repository root, such as
// a mirror. An empty u is ignored.
func (c *Client) WithRepositoryURL(u string) *Client {
	if u != "" {
		c.repoURL = strings.TrimSuffix(u, "/")
	}
	return c
}

// LatestVersion returns the newest release of groupID:artifactID.
//
// The repository's maven-metadata.xml is authoritative: its <release> wins,
// otherwise the highest non-SNAPSHOT version listed. When the metadata has
// no usable version the search endpoint is consulted.
func (c *Client) LatestVersion(ctx context.Context, groupID, artifactID string, refresh bool) (string, error) {
	if err := validate(groupID, artifactID); err != nil {
		return "", err
	}

	md, err := c.FetchMetadata(ctx, groupID, artifactID, refresh)
	if err != nil && !errors.Is(err, integrations.ErrNotFound) {
		return "", err
	}
	if err == nil {
		if v := md.newest(); v != "" {
			return v, nil
		}
	}

	hit, err := c.Search(ctx, groupID, artifactID, refresh)
	if err != nil {
		return "", err
	}
	return hit.Version, nil
}

// FetchMetadata retrieves and caches maven-metadata.xml for an artifact.
func (c *Client) FetchMetadata(ctx context.Context, groupID, artifactID string, refresh bool) (*Metadata, error) {
	if err := validate(groupID, artifactID); err != nil {
		return nil, err
	}

	var md Metadata
	err := c.Cached(ctx, "metadata:"+groupID+":"+artifactID, refresh, &md, func() error {
		data, err := c.GetBytes(ctx, c.metadataURL(groupID, artifactID))
		if err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: maven artifact %s:%s", err, groupID, artifactID)
			}
			return err
		}
		parsed, err := parseMetadata(data)
		if err != nil {
			return err
		}
		md = *parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &md, nil
}

// Search asks the search endpoint for groupID:artifactID. Only an exact
// match counts; anything else is ErrNotFound.
func (c *Client) Search(ctx context.Context, groupID, artifactID string, refresh bool) (*SearchHit, error) {
	if err := validate(groupID, artifactID); err != nil {
		return nil, err
	}

	var hit SearchHit
	err := c.Cached(ctx, "search:"+groupID+":"+artifactID, refresh, &hit, func() error {
		q := fmt.Sprintf("g:%q AND a:%q", groupID, artifactID)
		var resp solrSelect
		if err := c.Get(ctx, c.searchURL+"?rows=1&wt=json&q="+integrations.URLEncode(q), &resp); err != nil {
			return err
		}
		for _, d := range resp.Response.Docs {
			if d.G != groupID || d.A != artifactID {
				continue
			}
			hit = SearchHit{GroupID: d.G, ArtifactID: d.A, Version: d.LatestVersion, VersionCount: d.VersionCount}
			if hit.Version == "" {
				hit.Version = d.V
			}
			if d.Timestamp > 0 {
				hit.Updated = time.UnixMilli(d.Timestamp).UTC()
			}
			return nil
		}
		return integrations.ErrNotFound
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: maven artifact %s:%s", integrations.ErrNotFound, groupID, artifactID)
		}
		return nil, err
	}
	if hit.Version == "" {
		return nil, fmt.Errorf("%w: no version for %s:%s", integrations.ErrNotFound, groupID, artifactID)
	}
	return &hit, nil
}

func (c *Client) metadataURL(groupID, artifactID string) string {
	return fmt.Sprintf("%s/%s/%s/maven-metadata.xml", c.repoURL, groupPath(groupID), integrations.PathEscape(artifactID))
}

func groupPath(groupID string) string {
	return strings.ReplaceAll(groupID, ".", "/")
}

func parseMetadata(data []byte) (*Metadata, error) {
	var raw metadataXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse maven-metadata.xml: %w", err)
	}
	v := raw.Versioning
	md := &Metadata{
		Latest:      strings.TrimSpace(v.Latest),
		Release:     strings.TrimSpace(v.Release),
		LastUpdated: strings.TrimSpace(v.LastUpdated),
	}
	for _, s := range v.Versions {
		if s = strings.TrimSpace(s); s != "" {
			md.Versions = append(md.Versions, s)
		}
	}
	return md, nil
}

// newest returns the release, or the highest non-SNAPSHOT version.
func (m *Metadata) newest() string {
	if m.Release != "" {
		return m.Release
	}

	var best *semver.Version
	bestRaw := ""
	for _, s := range m.Versions {
		if strings.HasSuffix(s, "-SNAPSHOT") {
			continue
		}
		v, err := semver.NewVersion(s)
		if err != nil {
			// Unparseable versions are ordered by position in the listing.
			if best == nil {
				bestRaw = s
			}
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, s
		}
	}
	return bestRaw
}

func validate(groupID, artifactID string) error {
	if err := errs.ValidateMavenID("groupId", groupID); err != nil {
		return err
	}
	return errs.ValidateMavenID("artifactId", artifactID)
}

// solrSelect is the subset of the search endpoint's JSON that Search reads.
type solrSelect struct {
	Response struct {
		Docs []struct {
			G             string `json:"g"`
			A             string `json:"a"`
			V             string `json:"v"`
			LatestVersion string `json:"latestVersion"`
			VersionCount  int    `json:"versionCount"`
			Timestamp     int64  `json:"timestamp"`
		} `json:"docs"`
	} `json:"response"`
}

type metadataXML struct {
	Versioning struct {
		Latest      string   `xml:"latest"`
		Release     string   `xml:"release"`
		Versions    []string `xml:"versions>version"`
		LastUpdated string   `xml:"lastUpdated"`
	} `xml:"versioning"`
}
