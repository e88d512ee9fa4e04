// Package cli implements the dontpanic command-line interface.
//
// Commands are methods on [CLI], which owns the charmbracelet/log logger;
// user-facing status lines go through the lipgloss helpers in ui.go while
// diagnostics go through the logger on stderr.
//
// # Commands
//
//   - render: write a legend and N seeded variations of a phrase
//   - chunks: print the tile range table of a tileset
//   - resolve: look up where ids live in the spritesheets
//   - serve: HTTP preview server
//   - cache: manage the local artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes pipeline and cache hooks to the logger. The logger travels in the
// command's context.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dontpanic/pkg/atlas"
)

// newLogger returns the logger shared by all commands. Timestamps carry
// hundredths of a second.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times the loading of a tileset.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// indexed logs the size of idx with the time spent since newProgress,
// for example "Indexed tileset chunks=12 tiles=4096 sheets=9/11 elapsed=1.234s".
func (p *progress) indexed(idx *atlas.Index, sheets int) {
	p.logger.Info("Indexed tileset",
		"chunks", len(idx.Chunks()),
		"tiles", idx.TileCount(),
		"sheets", fmt.Sprintf("%d/%d", sheets, sheetCount(idx.Chunks())),
		"elapsed", time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the subcommands.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() when a command runs without it.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
