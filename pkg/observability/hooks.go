// Package observability lets the engine report scan, edit, cache and HTTP
// events without knowing who listens.
//
// Emitters call [Edit], [Cache] or [HTTP] and invoke the returned hooks.
// Until something is installed those are no-ops. The CLI installs
// [LogHooks] when --verbose is set.
//
//	observability.SetEditHooks(observability.NewLogHooks(logger))
//
//	observability.Edit().OnEditStart(ctx, "modify", target)
//	// ... rewrite ...
//	observability.Edit().OnEditComplete(ctx, "modify", target, changed, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// EditHooks receives events from the scan-edit-write pipeline.
type EditHooks interface {
	OnScanStart(ctx context.Context, path string)
	// OnScanComplete reports how many parent POMs the walk collected.
	OnScanComplete(ctx context.Context, path string, parents int, duration time.Duration, err error)

	OnEditStart(ctx context.Context, op, target string)
	// OnEditComplete reports how many documents the edit rewrote.
	OnEditComplete(ctx context.Context, op, target string, changed int, duration time.Duration, err error)

	// OnWrite records a file written to disk.
	OnWrite(ctx context.Context, path string, size int)
}

// CacheHooks receives cache lookups. keyType is "http" for repository
// responses and "artifact" for rendered graphs.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives Maven repository requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (refused connection, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopEditHooks discards every event.
type NoopEditHooks struct{}

func (NoopEditHooks) OnScanStart(context.Context, string)                                       {}
func (NoopEditHooks) OnScanComplete(context.Context, string, int, time.Duration, error)         {}
func (NoopEditHooks) OnEditStart(context.Context, string, string)                               {}
func (NoopEditHooks) OnEditComplete(context.Context, string, string, int, time.Duration, error) {}
func (NoopEditHooks) OnWrite(context.Context, string, int)                                      {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// registry holds the active hooks, guarded by mu.
type registry struct {
	edit  EditHooks
	cache CacheHooks
	http  HTTPHooks
}

var (
	mu     sync.RWMutex
	active = defaults()
)

func defaults() registry {
	return registry{edit: NoopEditHooks{}, cache: NoopCacheHooks{}, http: NoopHTTPHooks{}}
}

func update(fn func(r *registry)) {
	mu.Lock()
	fn(&active)
	mu.Unlock()
}

func snapshot() registry {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// SetEditHooks installs h for pipeline events. nil leaves the current hooks.
func SetEditHooks(h EditHooks) {
	if h != nil {
		update(func(r *registry) { r.edit = h })
	}
}

// SetCacheHooks installs h for cache events. nil leaves the current hooks.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h for repository requests. nil leaves the current
// hooks.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Edit, Cache and HTTP return the currently installed hooks.
func Edit() EditHooks   { return snapshot().edit }
func Cache() CacheHooks { return snapshot().cache }
func HTTP() HTTPHooks   { return snapshot().http }

// Reset reinstalls the no-op hooks. Tests call it to undo SetXHooks.
func Reset() {
	update(func(r *registry) { *r = defaults() })
}
