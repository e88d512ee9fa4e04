package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/dontpanic/pkg/atlas"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// sheetSpinner animates on one terminal line while a tileset's
// spritesheets decode, showing how many of them the image cache holds.
type sheetSpinner struct {
	w        io.Writer
	images   *atlas.ImageCache
	total    int
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	started bool
	width   int
}

// newSheetSpinner creates a spinner for the sheets of idx. It stops on
// its own when ctx is cancelled.
func newSheetSpinner(ctx context.Context, w io.Writer, idx *atlas.Index) *sheetSpinner {
	sctx, cancel := context.WithCancel(ctx)
	return &sheetSpinner{
		w:        w,
		images:   idx.Images(),
		total:    sheetCount(idx.Chunks()),
		interval: 80 * time.Millisecond,
		ctx:      sctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
}

// sheetCount returns the number of distinct files named by chunks.
func sheetCount(chunks []atlas.Chunk) int {
	seen := make(map[string]bool)
	for _, c := range chunks {
		if c.HasFile() {
			seen[c.File] = true
		}
	}
	return len(seen)
}

// decoded returns how many sheets are in the image cache, capped at the
// number the manifest names.
func (s *sheetSpinner) decoded() int {
	return min(s.images.Len(), s.total)
}

func (s *sheetSpinner) status() string {
	return fmt.Sprintf("Decoding sheets %d/%d", s.decoded(), s.total)
}

// Start draws a frame every interval until Stop or cancellation.
func (s *sheetSpinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.frame(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *sheetSpinner) frame(glyph string) {
	msg := s.status()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(msg))
	s.width = max(s.width, len(msg)+2)
}

// Stop halts the animation, clears the line and returns the number of
// decoded sheets. It may be called more than once.
func (s *sheetSpinner) Stop() int {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
	})
	return s.decoded()
}

func (s *sheetSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}
