package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dontpanic/pkg/atlas"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("loaded manifest") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("built tile range table") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("built tile range table") }, true},
		{"warn at info", log.InfoLevel, func(l *log.Logger) { l.Warn("sprite not found") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressIndexed(t *testing.T) {
	idx, err := atlas.Open(writeTileset(t))
	if err != nil {
		t.Fatal(err)
	}
	idx.Ranges()

	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).indexed(idx, idx.Images().Len())

	out := buf.String()
	for _, want := range []string{"Indexed tileset", "chunks=2", "tiles=3", "sheets=1/1", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	attached := newLogger(&bytes.Buffer{}, log.InfoLevel)

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"attached", withLogger(context.Background(), attached), attached},
		{"missing", context.Background(), log.Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}
}
