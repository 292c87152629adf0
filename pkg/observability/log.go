package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// logger. The CLI installs it under --verbose.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns LogHooks writing to logger, or to log.Default() when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Install registers h for all hook categories.
func (h *LogHooks) Install() {
	SetEditHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnScanStart(_ context.Context, path string) {
	h.Logger.Debug("scan", "path", path)
}

func (h *LogHooks) OnScanComplete(_ context.Context, path string, parents int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("scan failed", "path", path, "err", err)
		return
	}
	h.Logger.Debug("scan done", "path", path, "parents", parents, "took", d)
}

func (h *LogHooks) OnEditStart(_ context.Context, op, target string) {
	h.Logger.Debug("edit", "op", op, "target", target)
}

func (h *LogHooks) OnEditComplete(_ context.Context, op, target string, changed int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("edit failed", "op", op, "target", target, "err", err)
		return
	}
	h.Logger.Debug("edit done", "op", op, "target", target, "changed", changed, "took", d)
}

func (h *LogHooks) OnWrite(_ context.Context, path string, size int) {
	h.Logger.Debug("write", "path", path, "bytes", size)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "host", host, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "host", host, "path", path, "err", err)
}

var (
	_ EditHooks  = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
