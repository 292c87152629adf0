package maven

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/pomedit/pkg/cache"
	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/integrations"
)

const jacksonMetadata = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>com.fasterxml.jackson.core</groupId>
  <artifactId>jackson-databind</artifactId>
  <versioning>
    <latest>2.18.0-SNAPSHOT</latest>
    <release>2.17.1</release>
    <versions>
      <version>2.16.2</version>
      <version>2.17.1</version>
      <version>2.18.0-SNAPSHOT</version>
    </versions>
    <lastUpdated>20240505120000</lastUpdated>
  </versioning>
</metadata>`

// mirror serves jackson-databind metadata, an empty metadata file for
// guava (so the search endpoint answers), and 404 for everything else.
type mirror struct {
	*httptest.Server
	metadataHits atomic.Int32
	searchHits   atomic.Int32
}

func newMirror(t *testing.T) *mirror {
	t.Helper()
	m := &mirror{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/maven2/com/fasterxml/jackson/core/jackson-databind/maven-metadata.xml":
			m.metadataHits.Add(1)
			fmt.Fprint(w, jacksonMetadata)
		case "/maven2/com/google/guava/guava/maven-metadata.xml":
			m.metadataHits.Add(1)
			fmt.Fprint(w, `<metadata><versioning></versioning></metadata>`)
		case "/solrsearch/select":
			m.searchHits.Add(1)
			if r.URL.Query().Get("q") != `g:"com.google.guava" AND a:"guava"` {
				fmt.Fprint(w, `{"response":{"numFound":0,"docs":[]}}`)
				return
			}
			fmt.Fprint(w, `{"response":{"numFound":1,"docs":[
				{"g":"com.google.guava","a":"guava","latestVersion":"33.2.0-jre","versionCount":120,"timestamp":1714000000000}
			]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mirror) client(c cache.Cache) *Client {
	client := NewClient(c, time.Hour).
		WithSearchURL(m.URL + "/solrsearch/select").
		WithRepositoryURL(m.URL + "/maven2/")
	client.WithBackoff(cache.Backoff{Attempts: 1})
	return client
}

func TestLatestVersion(t *testing.T) {
	m := newMirror(t)
	c := m.client(nil)

	tests := []struct {
		group, artifact string
		want            string
	}{
		{"com.fasterxml.jackson.core", "jackson-databind", "2.17.1"},
		{"com.google.guava", "guava", "33.2.0-jre"},
	}
	for _, tt := range tests {
		t.Run(tt.artifact, func(t *testing.T) {
			got, err := c.LatestVersion(context.Background(), tt.group, tt.artifact, false)
			if err != nil {
				t.Fatalf("LatestVersion() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LatestVersion() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := m.searchHits.Load(); got != 1 {
		t.Errorf("search hits = %d, want 1 (metadata release should short-circuit)", got)
	}
}

func TestLatestVersionNotFound(t *testing.T) {
	m := newMirror(t)
	_, err := m.client(nil).LatestVersion(context.Background(), "org.nowhere", "nothing", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLatestVersionInvalidIDs(t *testing.T) {
	m := newMirror(t)
	for _, ids := range [][2]string{{"", "guava"}, {"com.google guava", "guava"}, {"com.google.guava", "gu/ava"}} {
		_, err := m.client(nil).LatestVersion(context.Background(), ids[0], ids[1], false)
		if err == nil {
			t.Errorf("LatestVersion(%q, %q) succeeded", ids[0], ids[1])
		}
	}
	if m.metadataHits.Load() != 0 || m.searchHits.Load() != 0 {
		t.Error("invalid ids reached the repository")
	}
}

func TestLatestVersionCached(t *testing.T) {
	m := newMirror(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()
	c := m.client(fc)

	for range 3 {
		if _, err := c.LatestVersion(context.Background(), "com.fasterxml.jackson.core", "jackson-databind", false); err != nil {
			t.Fatal(err)
		}
	}
	if got := m.metadataHits.Load(); got != 1 {
		t.Errorf("metadata hits = %d, want 1", got)
	}

	if _, err := c.LatestVersion(context.Background(), "com.fasterxml.jackson.core", "jackson-databind", true); err != nil {
		t.Fatal(err)
	}
	if got := m.metadataHits.Load(); got != 2 {
		t.Errorf("metadata hits after refresh = %d, want 2", got)
	}
}

func TestSearch(t *testing.T) {
	m := newMirror(t)
	hit, err := m.client(nil).Search(context.Background(), "com.google.guava", "guava", false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if hit.Version != "33.2.0-jre" || hit.VersionCount != 120 {
		t.Errorf("Search() = %+v", hit)
	}
	if want := time.UnixMilli(1714000000000).UTC(); !hit.Updated.Equal(want) {
		t.Errorf("Updated = %v, want %v", hit.Updated, want)
	}

	_, err = m.client(nil).Search(context.Background(), "com.google.guava", "failureaccess", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Search(miss) err = %v, want ErrNotFound", err)
	}
	_, err = m.client(nil).Search(context.Background(), "bad group", "x", false)
	if errs.GetCode(err) == "" {
		t.Errorf("Search(bad group) err = %v, want coded validation error", err)
	}
}

func TestFetchMetadata(t *testing.T) {
	m := newMirror(t)
	md, err := m.client(nil).FetchMetadata(context.Background(), "com.fasterxml.jackson.core", "jackson-databind", false)
	if err != nil {
		t.Fatal(err)
	}
	if md.Release != "2.17.1" || md.Latest != "2.18.0-SNAPSHOT" || len(md.Versions) != 3 || md.LastUpdated != "20240505120000" {
		t.Errorf("FetchMetadata() = %+v", md)
	}
}

func TestMetadataNewest(t *testing.T) {
	tests := []struct {
		name string
		md   Metadata
		want string
	}{
		{"release wins", Metadata{Release: "3.0", Versions: []string{"4.0"}}, "3.0"},
		{"numeric ordering", Metadata{Versions: []string{"1.10.0", "1.9.0", "1.2.0"}}, "1.10.0"},
		{"snapshots ignored", Metadata{Versions: []string{"1.0.0", "2.0.0-SNAPSHOT"}}, "1.0.0"},
		{"only snapshots", Metadata{Versions: []string{"2.0.0-SNAPSHOT"}}, ""},
		{"empty", Metadata{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.md.newest(); got != tt.want {
				t.Errorf("newest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMetadataTruncated(t *testing.T) {
	if _, err := parseMetadata([]byte("<metadata><versioning>")); err == nil {
		t.Error("parseMetadata() accepted truncated XML")
	}
}
