package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/integrations"
	"github.com/matzehuels/pomedit/pkg/pipeline"
)

const parentPOM = `<project xmlns="http://maven.apache.org/POM/4.0.0">
    <groupId>io.example</groupId>
    <artifactId>parent</artifactId>
    <version>1.0.0</version>
    <packaging>pom</packaging>
</project>
`

const childPOM = `<project xmlns="http://maven.apache.org/POM/4.0.0">
    <parent>
        <groupId>io.example</groupId>
        <artifactId>parent</artifactId>
        <version>1.0.0</version>
    </parent>
    <artifactId>app</artifactId>
    <dependencies>
        <dependency>
            <groupId>com.google.guava</groupId>
            <artifactId>guava</artifactId>
            <version>33.0.0-jre</version>
        </dependency>
    </dependencies>
</project>
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), logger, 0)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path string, body any) (*http.Response, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestModify(t *testing.T) {
	ts := newTestServer(t)
	resp, body := post(t, ts, "/v1/modify", ModifyRequest{
		ProjectRequest: ProjectRequest{
			Target:  Document{Path: "app/pom.xml", Content: childPOM},
			Parents: []Document{{Path: "pom.xml", Content: parentPOM}},
		},
		Coordinate:    "junit:junit:4.13.2:test",
		UseProperties: true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var out ModifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Changed || out.Coordinate != "junit:junit:4.13.2:test" {
		t.Errorf("response = %+v", out)
	}
	if len(out.Documents) != 2 {
		t.Fatalf("documents = %d, want 2", len(out.Documents))
	}
	child, parent := out.Documents[0], out.Documents[1]
	if !child.Dirty || !strings.Contains(child.Content, "<version>${versions.junit}</version>") {
		t.Errorf("child = %+v", child)
	}
	if !parent.Dirty || !strings.Contains(parent.Content, "<versions.junit>4.13.2</versions.junit>") {
		t.Errorf("parent = %+v", parent)
	}
	if !strings.Contains(child.Diff, "+++ b/app/pom.xml") {
		t.Errorf("child diff = %q", child.Diff)
	}
}

func TestModifyUpgradeLiteral(t *testing.T) {
	ts := newTestServer(t)
	resp, body := post(t, ts, "/v1/modify", ModifyRequest{
		ProjectRequest: ProjectRequest{Target: Document{Content: childPOM}},
		Coordinate:     "com.google.guava:guava:33.2.0-jre",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out ModifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Documents) != 1 || out.Documents[0].Path != "pom.xml" {
		t.Fatalf("documents = %+v", out.Documents)
	}
	got := out.Documents[0].Content
	if !strings.Contains(got, "<version>33.2.0-jre</version>") || strings.Contains(got, "33.0.0-jre") {
		t.Errorf("content:\n%s", got)
	}
}

func TestModifyErrors(t *testing.T) {
	ts := newTestServer(t)
	ambiguous := strings.Replace(parentPOM, "</project>", "    <dependencies/>\n    <dependencies/>\n</project>", 1)
	ambiguous = strings.Replace(ambiguous, "<packaging>pom</packaging>", "<packaging>jar</packaging>", 1)

	tests := []struct {
		name     string
		req      ModifyRequest
		wantCode int
	}{
		{"malformed coordinate", ModifyRequest{
			ProjectRequest: ProjectRequest{Target: Document{Content: parentPOM}},
			Coordinate:     "junit",
		}, http.StatusBadRequest},
		{"missing target", ModifyRequest{Coordinate: "junit:junit:4.13.2"}, http.StatusBadRequest},
		{"pom without import", ModifyRequest{
			ProjectRequest: ProjectRequest{Target: Document{Content: parentPOM}},
			Coordinate:     "io.example:bom:1.0.0",
			Type:           "pom",
		}, http.StatusBadRequest},
		{"ambiguous structure", ModifyRequest{
			ProjectRequest: ProjectRequest{Target: Document{Content: ambiguous}},
			Coordinate:     "junit:junit:4.13.2",
		}, http.StatusConflict},
		{"absolute path", ModifyRequest{
			ProjectRequest: ProjectRequest{Target: Document{Path: "/etc/pom.xml", Content: parentPOM}},
			Coordinate:     "junit:junit:4.13.2",
		}, http.StatusBadRequest},
		{"not an xml file", ModifyRequest{
			ProjectRequest: ProjectRequest{Target: Document{Path: "app/build.gradle", Content: parentPOM}},
			Coordinate:     "junit:junit:4.13.2",
		}, http.StatusBadRequest},
		{"duplicate path", ModifyRequest{
			ProjectRequest: ProjectRequest{
				Target:  Document{Path: "app/pom.xml", Content: childPOM},
				Parents: []Document{{Path: "app/./pom.xml", Content: parentPOM}},
			},
			Coordinate: "junit:junit:4.13.2",
		}, http.StatusBadRequest},
		{"duplicate parent path", ModifyRequest{
			ProjectRequest: ProjectRequest{
				Target: Document{Path: "app/pom.xml", Content: childPOM},
				Parents: []Document{
					{Path: "pom.xml", Content: parentPOM},
					{Path: "pom.xml", Content: parentPOM},
				},
			},
			Coordinate: "junit:junit:4.13.2",
		}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, "/v1/modify", tt.req)
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.wantCode, body)
			}
			var out ErrorResponse
			if err := json.Unmarshal(body, &out); err != nil {
				t.Fatal(err)
			}
			if out.Error == "" || out.Code == "" {
				t.Errorf("error body = %+v", out)
			}
		})
	}
}

func TestModifyBadJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/modify", "application/json", strings.NewReader(`{"coordinate": `))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/v1/modify", "application/json", strings.NewReader(`{"bogus": true}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/v1/modify", "text/plain", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("content type status = %d, want 415", resp.StatusCode)
	}
}

func TestModifyBodyTooLarge(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), logger, 64)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, _ := post(t, ts, "/v1/modify", ModifyRequest{
		ProjectRequest: ProjectRequest{Target: Document{Content: childPOM}},
		Coordinate:     "junit:junit:4.13.2",
	})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestQuery(t *testing.T) {
	ts := newTestServer(t)
	resp, body := post(t, ts, "/v1/query", QueryRequest{
		ProjectRequest: ProjectRequest{
			Target:  Document{Path: "app/pom.xml", Content: childPOM},
			Parents: []Document{{Path: "pom.xml", Content: parentPOM}},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out QueryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Dependencies) != 1 {
		t.Fatalf("dependencies = %+v", out.Dependencies)
	}
	if d := out.Dependencies[0]; d.ArtifactID != "guava" || d.Version != "33.0.0-jre" {
		t.Errorf("dependency = %+v", d)
	}
}

func TestQueryValidation(t *testing.T) {
	ts := newTestServer(t)
	broken := strings.Replace(childPOM, "<groupId>com.google.guava</groupId>", "", 1)

	resp, body := post(t, ts, "/v1/query", QueryRequest{
		ProjectRequest: ProjectRequest{Target: Document{Content: broken}},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("strict status = %d, want 422: %s", resp.StatusCode, body)
	}

	resp, body = post(t, ts, "/v1/query", QueryRequest{
		ProjectRequest: ProjectRequest{Target: Document{Content: broken}},
		Mode:           "permissive",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("permissive status = %d: %s", resp.StatusCode, body)
	}
	var out QueryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Dependencies) != 0 {
		t.Errorf("dependencies = %+v, want none", out.Dependencies)
	}

	resp, _ = post(t, ts, "/v1/query", QueryRequest{
		ProjectRequest: ProjectRequest{Target: Document{Content: childPOM}},
		Mode:           "sloppy",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad mode status = %d, want 400", resp.StatusCode)
	}
}

func TestVersions(t *testing.T) {
	ts := newTestServer(t)
	src := strings.Replace(parentPOM, "</project>", `    <properties>
        <maven.compiler.source>1.8</maven.compiler.source>
        <maven.compiler.target>11</maven.compiler.target>
    </properties>
</project>`, 1)

	resp, body := post(t, ts, "/v1/versions", ProjectRequest{Target: Document{Content: src}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out VersionsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out.Source != "1.8.0" || out.Target != "11.0.0" {
		t.Errorf("response = %+v", out)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeMalformedCoordinate, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeWrongDependencyType, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeAmbiguousStructure, "x"), http.StatusConflict},
		{errs.New(errs.ErrCodeQueryValidation, "x"), http.StatusUnprocessableEntity},
		{fmt.Errorf("lookup: %w", integrations.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("lookup: %w", integrations.ErrNetwork), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), logger, 0)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
