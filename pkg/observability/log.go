package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Errors are
// logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnIndexLoaded(_ context.Context, manifest string, chunks, tiles int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("index load failed", "manifest", manifest, "error", err)
		return
	}
	h.logger.Debug("index loaded", "manifest", manifest, "chunks", chunks, "tiles", tiles, "duration", d)
}

func (h *LogHooks) OnVariationStart(_ context.Context, n int, seed uint64) {
	h.logger.Debug("variation start", "n", n, "seed", seed)
}

func (h *LogHooks) OnVariationComplete(_ context.Context, n int, seed uint64, cells int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("variation failed", "n", n, "seed", seed, "error", err)
		return
	}
	h.logger.Debug("variation done", "n", n, "seed", seed, "cells", cells, "duration", d)
}

func (h *LogHooks) OnLegendComplete(_ context.Context, entries int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("legend failed", "error", err)
		return
	}
	h.logger.Debug("legend done", "entries", entries, "duration", d)
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

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status, size int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "bytes", size, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
