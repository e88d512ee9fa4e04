package atlas

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	apperr "github.com/matzehuels/dontpanic/pkg/errors"
)

// PlaceholderSize is the edge length of the bitmap substituted for a
// missing spritesheet.
const PlaceholderSize = 32

// PlaceholderColor fills the substitute bitmap.
var PlaceholderColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// ImageCache decodes spritesheets on first use and keeps them for the
// lifetime of the process.
type ImageCache struct {
	dir    string
	logger *log.Logger

	mu      sync.Mutex
	images  map[string]image.Image
	missing map[string]bool
}

// NewImageCache creates a cache resolving files relative to dir.
func NewImageCache(dir string, logger *log.Logger) *ImageCache {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &ImageCache{
		dir:     dir,
		logger:  logger,
		images:  make(map[string]image.Image),
		missing: make(map[string]bool),
	}
}

// Exists reports whether file is present on disk.
func (c *ImageCache) Exists(file string) bool {
	info, err := os.Stat(c.resolve(file))
	return err == nil && !info.IsDir()
}

// Image returns the decoded sheet for file. A file that is missing or
// cannot be decoded is replaced by a solid placeholder, which is cached
// like any other sheet.
func (c *ImageCache) Image(file string) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := c.images[file]; ok {
		return img
	}
	img, err := decodeFile(c.resolve(file))
	if err != nil {
		c.logger.Warn("sprite sheet unavailable, using placeholder",
			"file", file,
			"err", apperr.Wrap(apperr.ErrCodeAssetMissing, err, "load %s", file))
		img = Placeholder()
		c.missing[file] = true
	}
	c.images[file] = img
	return img
}

// Extract crops the tile at pos out of its sheet.
//
// The source rectangle is (Col*Width, Row*Height, Width, Height). It is
// not clamped: pixels that fall outside the sheet stay transparent.
func (c *ImageCache) Extract(pos TilePosition) *image.RGBA {
	sheet := c.Image(pos.File)
	dst := image.NewRGBA(image.Rect(0, 0, pos.Width, pos.Height))
	origin := sheet.Bounds().Min.Add(image.Pt(pos.Col*pos.Width, pos.Row*pos.Height))
	draw.Draw(dst, dst.Bounds(), sheet, origin, draw.Src)
	return dst
}

// Len returns the number of cached sheets, placeholders included.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

// IsPlaceholder reports whether file was substituted by the placeholder
// when it was loaded. Files not loaded yet report false.
func (c *ImageCache) IsPlaceholder(file string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.missing[file]
}

// Placeholder returns a new solid placeholder bitmap.
func Placeholder() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(PlaceholderColor), image.Point{}, draw.Src)
	return img
}

func (c *ImageCache) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.dir, file)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
