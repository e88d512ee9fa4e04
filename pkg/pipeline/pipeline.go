// Package pipeline drives a complete dontpanic run.
//
// A run loads one tile manifest, writes a legend image, and then renders N
// variations of the phrase, each from its own seed:
//
//	load manifest → legend → for n in 1..N: seed → grids → composite → PNG
//
// The CLI and the preview server both go through [Runner], so caching,
// logging and hooks behave the same everywhere.
//
// # Usage
//
//	opts := pipeline.DefaultOptions()
//	opts.Root = "./UNDEAD_PEOPLE"
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Files)
//
// Options can be loaded from TOML; keys mirror the struct tags:
//
//	base_name = "panic"
//	words = ["DON'T", "PANIC"]
//	variations = 3
//
//	[style]
//	transparent = false
//	background = "#202020"
//
//	[[items]]
//	id = "mon_zombie"
//	weight = 10
package pipeline

import (
	"image/color"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dontpanic/pkg/cache"
	apperr "github.com/matzehuels/dontpanic/pkg/errors"
	"github.com/matzehuels/dontpanic/pkg/glyph"
	"github.com/matzehuels/dontpanic/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultBaseName prefixes every output file.
	DefaultBaseName = "dont_panic"

	// DefaultOutputDir is where artifacts are written.
	DefaultOutputDir = "tmp"

	// DefaultVariations is the number of images per run.
	DefaultVariations = 5

	// DefaultSeedStep spaces the seeds: variation n uses n*DefaultSeedStep.
	DefaultSeedStep = uint64(42)

	// DefaultWorkers renders one variation at a time.
	DefaultWorkers = 1

	// MaxVariations bounds a single run.
	MaxVariations = 1000
)

// DefaultWords is the phrase rendered when none is given.
var DefaultWords = []string{"DON'T", "PANIC"}

// DefaultItems is the weighted sprite catalog. Zero weights appear in the
// legend but are never drawn.
var DefaultItems = []glyph.WeightedID{
	{ID: "mon_zombie_gasbag_fungus", Weight: 1},
	{ID: "mon_creeper_hub", Weight: 1},
	{ID: "mon_zombie_gasbag", Weight: 2},
	{ID: "mon_fungaloid", Weight: 1},
	{ID: "mon_human_snail", Weight: 0},
	{ID: "mon_molebot", Weight: 0},
	{ID: "mon_gator", Weight: 2},
	{ID: "mon_zombie_grappler", Weight: 2},
	{ID: "mon_zombie", Weight: 10},
	{ID: "mon_zombie_fat", Weight: 8},
	{ID: "mon_zombie_tough", Weight: 8},
	{ID: "mon_zombie_runner", Weight: 5},
	{ID: "mon_zombie_acidic", Weight: 3},
	{ID: "mon_zombie_ears", Weight: 3},
	{ID: "mon_zombie_soldier", Weight: 5},
	{ID: "mon_zombie_spitter", Weight: 3},
	{ID: "mon_zombie_prisoner", Weight: 2},
	{ID: "mon_zombie_survivor", Weight: 2},
	{ID: "mon_zombie_soldier_acid_1", Weight: 2},
	{ID: "mon_zombie_soldier_acid_2", Weight: 2},
	{ID: "mon_skeleton_brute", Weight: 1},
	{ID: "jar_3l_glass", Weight: 1},
	{ID: "bio_ads", Weight: 1},
	{ID: "heavy_plus_battery_cell", Weight: 0},
	{ID: "tuba", Weight: 0},
	{ID: "american_180", Weight: 0},
	{ID: "voltmeter", Weight: 0},
	{ID: "towel", Weight: 2},
	{ID: "helmet_motor", Weight: 0},
	{ID: "guidebook", Weight: 1},
}

// DefaultTerrains is the terrain list; terrains are drawn uniformly, so a
// repeated id is twice as likely.
var DefaultTerrains = []string{
	"t_sidewalk",
	"t_concrete",
	"t_sidewalk_bg_dp",
	"t_clay",
	"t_railroad_rubble",
	"t_rock_green",
	"t_grass_long",
	"t_moss",
	"t_moss",
	"t_dirtfloor_no_roof",
	"t_grass",
	"t_floor_resin",
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// StyleOptions is the serializable form of render.Style.
type StyleOptions struct {
	TileSize         int    `toml:"tile_size" json:"tile_size"`
	CellPitch        int    `toml:"cell_pitch" json:"cell_pitch"`
	Margin           int    `toml:"margin" json:"margin"`
	WordGap          int    `toml:"word_gap" json:"word_gap"`
	Padding          int    `toml:"padding" json:"padding"`
	BorderWidth      int    `toml:"border_width" json:"border_width"`
	Transparent      bool   `toml:"transparent" json:"transparent"`
	Background       string `toml:"background" json:"background"`
	SpriteBackground string `toml:"sprite_background" json:"sprite_background"`
	Border           string `toml:"border" json:"border"`
}

// GlyphOptions configures the grid builder.
type GlyphOptions struct {
	Spacing     int     `toml:"spacing" json:"spacing"`
	ThickH      int     `toml:"thickness_h" json:"thickness_h"`
	ThickV      int     `toml:"thickness_v" json:"thickness_v"`
	RotationMax float64 `toml:"rotation_max" json:"rotation_max"`
	JitterX     float64 `toml:"jitter_x" json:"jitter_x"`
	JitterY     float64 `toml:"jitter_y" json:"jitter_y"`
}

// Options configures a run.
type Options struct {
	// Root is a tileset directory or a manifest file.
	Root      string `toml:"root" json:"root,omitempty"`
	OutputDir string `toml:"output_dir" json:"output_dir,omitempty"`
	BaseName  string `toml:"base_name" json:"base_name,omitempty"`

	Words      []string `toml:"words" json:"words"`
	Variations int      `toml:"variations" json:"variations"`
	SeedStep   uint64   `toml:"seed_step" json:"seed_step"`
	Workers    int      `toml:"workers" json:"workers"`
	Legend     bool     `toml:"legend" json:"legend"`

	Style    StyleOptions       `toml:"style" json:"style"`
	Glyph    GlyphOptions       `toml:"glyph" json:"glyph"`
	Items    []glyph.WeightedID `toml:"items" json:"items"`
	Terrains []string           `toml:"terrains" json:"terrains"`

	// Refresh ignores cached artifacts (they are still rewritten).
	Refresh bool `toml:"-" json:"-"`
}

// DefaultOptions returns the classic configuration.
func DefaultOptions() Options {
	return Options{
		OutputDir:  DefaultOutputDir,
		BaseName:   DefaultBaseName,
		Words:      append([]string(nil), DefaultWords...),
		Variations: DefaultVariations,
		SeedStep:   DefaultSeedStep,
		Workers:    DefaultWorkers,
		Legend:     true,
		Style: StyleOptions{
			TileSize:         32,
			CellPitch:        28,
			Margin:           48,
			WordGap:          40,
			Padding:          0,
			BorderWidth:      1,
			Transparent:      true,
			Background:       "#121212",
			SpriteBackground: "#FFFFFF",
			Border:           "#0A0A0A",
		},
		Glyph: GlyphOptions{
			Spacing:     1,
			RotationMax: 15,
			JitterX:     4,
			JitterY:     2,
		},
		Items:    append([]glyph.WeightedID(nil), DefaultItems...),
		Terrains: append([]string(nil), DefaultTerrains...),
	}
}

// LoadOptions overlays the TOML file at path on DefaultOptions. Keys the
// file does not mention keep their defaults; a list in the file replaces
// the default list.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, apperr.Wrap(apperr.ErrCodeConfiguration, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, apperr.New(apperr.ErrCodeConfiguration, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// Validate checks every field a run depends on.
func (o *Options) Validate() error {
	if o.Root == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "tileset root is required")
	}
	if o.OutputDir == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "output directory is required")
	}
	if err := apperr.ValidateBaseName(o.BaseName); err != nil {
		return err
	}
	if err := apperr.ValidatePhrase(o.Words); err != nil {
		return err
	}
	if o.Variations < 0 || o.Variations > MaxVariations {
		return apperr.New(apperr.ErrCodeInvalidInput, "variations must be between 0 and %d", MaxVariations)
	}
	if o.Workers < 1 {
		return apperr.New(apperr.ErrCodeInvalidInput, "workers must be at least 1")
	}
	if _, err := o.RenderStyle(); err != nil {
		return err
	}
	if _, err := o.Builder(); err != nil {
		return err
	}
	return nil
}

// Seed returns the seed of variation n (1-based).
func (o *Options) Seed(n int) uint64 {
	return uint64(n) * o.SeedStep
}

// Phrase joins the words with spaces.
func (o *Options) Phrase() string {
	return strings.Join(o.Words, " ")
}

// SplitPhrase turns free text into upper-cased words.
func SplitPhrase(phrase string) []string {
	return strings.Fields(strings.ToUpper(phrase))
}

// RenderStyle converts the style options.
func (o *Options) RenderStyle() (render.Style, error) {
	s := o.Style
	if s.TileSize <= 0 || s.CellPitch <= 0 {
		return render.Style{}, apperr.New(apperr.ErrCodeInvalidInput, "tile_size and cell_pitch must be positive")
	}
	if s.Margin < 0 || s.WordGap < 0 || s.Padding < 0 || s.BorderWidth < 0 {
		return render.Style{}, apperr.New(apperr.ErrCodeInvalidInput, "margin, word_gap, padding and border_width must not be negative")
	}

	style := render.Style{
		TileSize:    s.TileSize,
		CellPitch:   s.CellPitch,
		Margin:      s.Margin,
		WordGap:     s.WordGap,
		Padding:     s.Padding,
		BorderWidth: s.BorderWidth,
		Transparent: s.Transparent,
	}
	var err error
	if style.Background, err = parseColor("background", s.Background); err != nil {
		return render.Style{}, err
	}
	if style.SpriteBackground, err = parseColor("sprite_background", s.SpriteBackground); err != nil {
		return render.Style{}, err
	}
	if style.Border, err = parseColor("border", s.Border); err != nil {
		return render.Style{}, err
	}
	return style, nil
}

func parseColor(field, value string) (color.Color, error) {
	c, err := render.ParseColor(value)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidColor, err, "invalid %s color", field)
	}
	return c, nil
}

// Builder builds the grid builder from the glyph options and catalogs.
func (o *Options) Builder() (*glyph.Builder, error) {
	g := o.Glyph
	if g.Spacing < 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "spacing must not be negative")
	}
	if g.RotationMax < 0 || g.JitterX < 0 || g.JitterY < 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "rotation and jitter ranges must not be negative")
	}
	items, err := glyph.NewCatalog(o.Items)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid item catalog")
	}
	if len(o.Terrains) == 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "terrain list is empty")
	}
	return &glyph.Builder{
		Items:       items,
		Terrains:    append([]string(nil), o.Terrains...),
		Spacing:     g.Spacing,
		ThickH:      g.ThickH,
		ThickV:      g.ThickV,
		RotationMax: g.RotationMax,
		JitterX:     g.JitterX,
		JitterY:     g.JitterY,
	}, nil
}

// ItemIDs lists the cataloged item ids in order.
func (o *Options) ItemIDs() []string {
	ids := make([]string, len(o.Items))
	for i, it := range o.Items {
		ids[i] = it.ID
	}
	return ids
}

// VariationKeyOpts returns the cache key inputs of variation n.
func (o *Options) VariationKeyOpts(n int) cache.VariationKeyOpts {
	h, _ := cache.HashValue(struct {
		Style    StyleOptions
		Glyph    GlyphOptions
		Items    []glyph.WeightedID
		Terrains []string
	}{o.Style, o.Glyph, o.Items, o.Terrains})
	return cache.VariationKeyOpts{Words: o.Words, Seed: o.Seed(n), StyleHash: h}
}

// LegendKeyOpts returns the cache key inputs of the legend.
func (o *Options) LegendKeyOpts() cache.LegendKeyOpts {
	return cache.LegendKeyOpts{Items: o.ItemIDs(), Terrains: o.Terrains}
}

// =============================================================================
// Results
// =============================================================================

// Variation is one rendered image.
type Variation struct {
	N      int
	Seed   uint64
	PNG    []byte
	Stats  render.Stats
	Cached bool
}

// Result describes a finished run.
type Result struct {
	RunID    string
	Manifest string

	// Legend is the legend path, empty when disabled.
	Legend string
	// Files lists the variation paths in order.
	Files []string

	Stats     render.Stats
	CacheHits int
	Duration  time.Duration
}
