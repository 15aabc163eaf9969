package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level, failures at
// error level. It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

func (h *LogHooks) OnParseStart(_ context.Context, format string) {
	h.logger.Debug("parse started", "format", format)
}

func (h *LogHooks) OnParseComplete(_ context.Context, format string, components int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("parse failed", "format", format, "duration", d, "err", err)
		return
	}
	h.logger.Debug("parse complete", "format", format, "components", components, "duration", d)
}

func (h *LogHooks) OnSolveStart(_ context.Context, components int) {
	h.logger.Debug("solve started", "components", components)
}

func (h *LogHooks) OnSolveComplete(_ context.Context, passes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("solve failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("solve complete", "passes", passes, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}
