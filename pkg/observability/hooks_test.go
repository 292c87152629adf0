package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// recorder counts the cache events it sees and ignores the rest.
type recorder struct {
	NoopEditHooks
	NoopHTTPHooks
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(ev string) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) OnCacheHit(_ context.Context, keyType string)        { r.record("hit:" + keyType) }
func (r *recorder) OnCacheMiss(_ context.Context, keyType string)       { r.record("miss:" + keyType) }
func (r *recorder) OnCacheSet(_ context.Context, keyType string, _ int) { r.record("set:" + keyType) }

func TestDefaultsAreNoops(t *testing.T) {
	Reset()
	ctx := context.Background()

	if _, ok := Edit().(NoopEditHooks); !ok {
		t.Errorf("Edit() = %T", Edit())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T", HTTP())
	}

	Edit().OnScanComplete(ctx, "pom.xml", 1, time.Second, nil)
	Edit().OnWrite(ctx, "pom.xml", 512)
	HTTP().OnError(ctx, "GET", "repo1.maven.org", "/maven2/", errors.New("refused"))
}

func TestInstallAndReset(t *testing.T) {
	Reset()
	defer Reset()

	rec := &recorder{}
	SetCacheHooks(rec)
	SetCacheHooks(nil)

	ctx := context.Background()
	Cache().OnCacheMiss(ctx, "http")
	Cache().OnCacheSet(ctx, "http", 42)
	Cache().OnCacheHit(ctx, "artifact")

	want := []string{"miss:http", "set:http", "hit:artifact"}
	if strings.Join(rec.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", rec.events, want)
	}

	SetEditHooks(rec)
	SetHTTPHooks(rec)
	if Edit() != EditHooks(rec) || HTTP() != HTTPHooks(rec) {
		t.Error("SetEditHooks/SetHTTPHooks did not install")
	}

	Reset()
	Cache().OnCacheHit(ctx, "http")
	if len(rec.events) != 3 {
		t.Errorf("recorder saw events after Reset: %v", rec.events)
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})).Install()

	ctx := context.Background()
	Edit().OnEditComplete(ctx, "modify", "pom.xml", 2, time.Millisecond, nil)
	Edit().OnScanComplete(ctx, "pom.xml", 0, 0, errors.New("boom"))
	Cache().OnCacheMiss(ctx, "http")
	HTTP().OnResponse(ctx, "GET", "repo1.maven.org", "/maven2/junit/junit/maven-metadata.xml", 404, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"edit done", "changed=2", "scan failed", "cache miss", "status=404"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnWrite(context.Background(), "pom.xml", 10)
	if buf.Len() != 0 {
		t.Errorf("unexpected output at info level: %q", buf.String())
	}
}
