package atlas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/dontpanic/pkg/errors"
)

// Range is the slice of the global tile-index space owned by one chunk.
type Range struct {
	Start   int // first index (inclusive)
	End     int // last index (exclusive)
	Chunk   int // position of the chunk in the manifest
	Columns int
	Rows    int
}

// Len returns the number of tiles in the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether index falls inside the range.
func (r Range) Contains(index int) bool { return r.Start <= index && index < r.End }

// TilePosition locates one sprite inside a spritesheet.
type TilePosition struct {
	File    string `json:"file"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	OffsetX int    `json:"offset_x"`
	OffsetY int    `json:"offset_y"`
	Col     int    `json:"col"`
	Row     int    `json:"row"`
}

// Tile is the result of resolving a symbolic id. Either layer may be nil.
type Tile struct {
	FG *TilePosition `json:"fg"`
	BG *TilePosition `json:"bg"`
}

// entryRef points at a tile entry inside the manifest.
type entryRef struct {
	chunk int
	tile  int
}

// Index resolves symbolic ids against a manifest.
//
// The id table is built when the manifest is parsed; the range table is
// built on first use and memoized. Both are read-only afterwards, so an
// Index may be shared across goroutines once [Index.Warm] has returned.
type Index struct {
	path      string
	digest    string
	assetsDir string
	manifest  Manifest
	tileW     int
	tileH     int
	scale     float64
	entries   map[string]entryRef
	images    *ImageCache
	logger    *log.Logger

	rangesOnce sync.Once
	ranges     []Range

	assetsOnce   sync.Once
	assetsDigest string
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used for asset warnings.
func WithLogger(l *log.Logger) Option {
	return func(x *Index) { x.logger = l }
}

// WithImageCache shares an existing image cache with the index.
func WithImageCache(c *ImageCache) Option {
	return func(x *Index) { x.images = c }
}

// Load reads and parses the manifest at manifestPath. Spritesheets are
// resolved relative to assetsDir.
//
// Returns an error with code MANIFEST_ERROR if the file cannot be read,
// is not valid JSON, or lacks a usable tile_info record.
func Load(manifestPath, assetsDir string, opts ...Option) (*Index, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeManifest, err, "read manifest %s", manifestPath)
	}
	x, err := Parse(data, assetsDir, opts...)
	if err != nil {
		return nil, err
	}
	x.path = manifestPath
	return x, nil
}

// Parse builds an Index from manifest bytes.
func Parse(data []byte, assetsDir string, opts ...Option) (*Index, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeManifest, err, "decode manifest")
	}
	if len(m.TileInfo) == 0 {
		return nil, apperr.New(apperr.ErrCodeManifest, "manifest has no tile_info record")
	}
	info := m.TileInfo[0]
	if info.Width <= 0 || info.Height <= 0 {
		return nil, apperr.New(apperr.ErrCodeManifest, "tile_info has invalid size %dx%d", info.Width, info.Height)
	}

	for i, c := range m.Chunks {
		if v := c.SpriteWidth; v != nil && *v <= 0 {
			return nil, apperr.New(apperr.ErrCodeManifest, "chunk %d (%s) declares sprite_width %d", i, c.File, *v)
		}
		if v := c.SpriteHeight; v != nil && *v <= 0 {
			return nil, apperr.New(apperr.ErrCodeManifest, "chunk %d (%s) declares sprite_height %d", i, c.File, *v)
		}
	}

	sum := sha256.Sum256(data)
	x := &Index{
		digest:    hex.EncodeToString(sum[:]),
		assetsDir: assetsDir,
		manifest:  m,
		tileW:     info.Width,
		tileH:     info.Height,
		scale:     info.PixelScale,
	}
	if x.scale == 0 {
		x.scale = 1
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.logger == nil {
		x.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if x.images == nil {
		x.images = NewImageCache(assetsDir, x.logger)
	}

	// First entry in manifest order wins.
	x.entries = make(map[string]entryRef)
	for ci, chunk := range m.Chunks {
		for ti, entry := range chunk.Tiles {
			for _, id := range entry.IDs {
				if _, seen := x.entries[id]; !seen {
					x.entries[id] = entryRef{chunk: ci, tile: ti}
				}
			}
		}
	}
	return x, nil
}

// Path returns the manifest path, or "" when parsed from bytes.
func (x *Index) Path() string { return x.path }

// Digest returns the hex SHA-256 of the manifest bytes.
func (x *Index) Digest() string { return x.digest }

// AssetsDir returns the directory spritesheets are resolved against.
func (x *Index) AssetsDir() string { return x.assetsDir }

// TileSize returns the global sprite width and height.
func (x *Index) TileSize() (int, int) { return x.tileW, x.tileH }

// PixelScale returns the manifest pixel scale (1 when not declared).
func (x *Index) PixelScale() float64 { return x.scale }

// Chunks returns the manifest chunks in order.
func (x *Index) Chunks() []Chunk { return x.manifest.Chunks }

// Images returns the spritesheet cache backing the index.
func (x *Index) Images() *ImageCache { return x.images }

// IDCount returns the number of distinct symbolic ids in the manifest.
func (x *Index) IDCount() int { return len(x.entries) }

// IDs returns the distinct symbolic ids in the manifest, sorted.
func (x *Index) IDs() []string { return slices.Sorted(maps.Keys(x.entries)) }

// ChunkDimensions returns the grid size (columns, rows) of chunk i.
//
// Explicit nx/ny win. Otherwise the sheet is decoded (through the image
// cache) and its pixel size divided by the chunk's sprite size. Chunks
// without a file, or whose file is missing, count as a single tile.
func (x *Index) ChunkDimensions(i int) (int, int) {
	c := x.manifest.Chunks[i]
	if c.NX != nil && c.NY != nil {
		return *c.NX, *c.NY
	}
	if !c.HasFile() {
		return 1, 1
	}
	if !x.images.Exists(c.File) {
		x.logger.Warn("cannot compute chunk dimensions, sheet not found", "file", c.File, "chunk", i)
		return 1, 1
	}
	b := x.images.Image(c.File).Bounds()
	w, h := x.spriteSize(c)
	return b.Dx() / w, b.Dy() / h
}

// Ranges returns the chunk range table. It is computed once and reused.
func (x *Index) Ranges() []Range {
	return slices.Clone(x.rangeTable())
}

// TileCount returns the size of the global tile-index space.
func (x *Index) TileCount() int {
	r := x.rangeTable()
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1].End
}

func (x *Index) rangeTable() []Range {
	x.rangesOnce.Do(func() {
		x.ranges = make([]Range, len(x.manifest.Chunks))
		offset := 0
		for i := range x.manifest.Chunks {
			cols, rows := x.ChunkDimensions(i)
			n := cols * rows
			x.ranges[i] = Range{Start: offset, End: offset + n, Chunk: i, Columns: cols, Rows: rows}
			offset += n
		}
		x.logger.Debug("built tile range table", "chunks", len(x.ranges), "tiles", offset)
	})
	return x.ranges
}

// FindTile resolves a symbolic id.
//
// The second return value is false when no tile entry lists the id, and
// also when the matching entry has neither a foreground nor a background
// that lands in a sheet. Callers skip the layer either way. A found Tile
// may still have one nil layer.
func (x *Index) FindTile(id string) (Tile, bool) {
	ref, ok := x.entries[id]
	if !ok {
		return Tile{}, false
	}
	entry := x.manifest.Chunks[ref.chunk].Tiles[ref.tile]
	tile := Tile{
		FG: x.position(entry.FG),
		BG: x.position(entry.BG),
	}
	if tile.FG == nil && tile.BG == nil {
		return Tile{}, false
	}
	return tile, true
}

// Warm builds the range table, fingerprints the assets and decodes every
// sheet referenced by ids. After Warm returns, lookups for those ids
// perform no writes.
func (x *Index) Warm(ids ...string) {
	x.rangeTable()
	x.AssetsDigest()
	for _, id := range ids {
		tile, ok := x.FindTile(id)
		if !ok {
			continue
		}
		for _, pos := range []*TilePosition{tile.FG, tile.BG} {
			if pos != nil {
				x.images.Image(pos.File)
			}
		}
	}
}

func (x *Index) position(ref TileRef) *TilePosition {
	index, ok := ref.Index()
	if !ok {
		return nil
	}
	r, ok := x.owningRange(index)
	if !ok {
		return nil
	}
	c := x.manifest.Chunks[r.Chunk]
	if !c.HasFile() {
		return nil
	}
	w, h := x.spriteSize(c)
	local := index - r.Start
	return &TilePosition{
		File:    c.File,
		Width:   w,
		Height:  h,
		OffsetX: deref(c.SpriteOffsetX, 0),
		OffsetY: deref(c.SpriteOffsetY, 0),
		Col:     local % r.Columns,
		Row:     local / r.Columns,
	}
}

func (x *Index) owningRange(index int) (Range, bool) {
	ranges := x.rangeTable()
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].End > index })
	if i == len(ranges) || !ranges[i].Contains(index) {
		return Range{}, false
	}
	return ranges[i], true
}

func (x *Index) spriteSize(c Chunk) (int, int) {
	return deref(c.SpriteWidth, x.tileW), deref(c.SpriteHeight, x.tileH)
}

func deref(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
