package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log lines.
// Failures are logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnFetchStart(_ context.Context, path string) {
	h.Logger.Debug("page fetch", "path", path)
}

func (h LogHooks) OnFetchComplete(_ context.Context, path string, count int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("page fetch failed", "path", path, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.Logger.Debug("page fetch done", "path", path, "packages", count, "duration", d.Round(time.Millisecond))
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

// Install registers h for all hook categories.
func (h LogHooks) Install() {
	SetPageHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}
