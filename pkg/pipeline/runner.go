package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dontpanic/pkg/atlas"
	"github.com/matzehuels/dontpanic/pkg/cache"
	"github.com/matzehuels/dontpanic/pkg/glyph"
	"github.com/matzehuels/dontpanic/pkg/observability"
	"github.com/matzehuels/dontpanic/pkg/render"
)

// Runner executes runs with artifact caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the whole pipeline: load the manifest, write the legend,
// then render and write every variation.
//
// Manifest errors abort the run before anything is written. With more
// than one worker the index is warmed first and variations render in
// parallel, each from its own generator.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])

	idx, err := r.loadIndex(ctx, opts.Root, logger)
	if err != nil {
		return nil, err
	}
	result.Manifest = idx.Path()

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	idx.Warm(append(opts.ItemIDs(), opts.Terrains...)...)

	if opts.Legend {
		data, err := r.RenderLegend(ctx, idx, opts)
		if err != nil {
			return nil, fmt.Errorf("legend: %w", err)
		}
		path := filepath.Join(opts.OutputDir, opts.BaseName+"_index.png")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write legend: %w", err)
		}
		result.Legend = path
		logger.Info("wrote legend", "path", path)
	}

	variations := make([]*Variation, opts.Variations)
	files := make([]string, opts.Variations)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for n := 1; n <= opts.Variations; n++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := r.renderVariation(gctx, idx, opts, n, logger)
			if err != nil {
				return fmt.Errorf("variation %d: %w", n, err)
			}
			path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_%d.png", opts.BaseName, n))
			if err := os.WriteFile(path, v.PNG, 0o644); err != nil {
				return fmt.Errorf("write variation %d: %w", n, err)
			}
			logger.Info("wrote variation", "n", n, "seed", v.Seed, "cached", v.Cached, "path", path)

			mu.Lock()
			variations[n-1] = v
			files[n-1] = path
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, v := range variations {
		result.Stats.Add(v.Stats)
		if v.Cached {
			result.CacheHits++
		}
	}
	result.Files = files
	result.Duration = time.Since(start)

	logger.Info("run complete",
		"variations", len(files),
		"cells", result.Stats.Cells,
		"cache_hits", result.CacheHits,
		"duration", result.Duration)
	return result, nil
}

// LoadIndex finds and loads the manifest under root.
func (r *Runner) LoadIndex(ctx context.Context, root string) (*atlas.Index, error) {
	return r.loadIndex(ctx, root, r.Logger)
}

func (r *Runner) loadIndex(ctx context.Context, root string, logger *log.Logger) (*atlas.Index, error) {
	start := time.Now()
	idx, err := atlas.Open(root, atlas.WithLogger(logger))
	if err != nil {
		observability.Pipeline().OnIndexLoaded(ctx, root, 0, 0, time.Since(start), err)
		return nil, err
	}
	d := time.Since(start)
	observability.Pipeline().OnIndexLoaded(ctx, idx.Path(), len(idx.Chunks()), idx.TileCount(), d, nil)
	logger.Info("loaded manifest",
		"path", idx.Path(),
		"chunks", len(idx.Chunks()),
		"tiles", idx.TileCount(),
		"ids", idx.IDCount(),
		"duration", d)
	return idx, nil
}

// RenderVariation renders variation n (1-based) as PNG, serving it from
// the cache when the same inputs were rendered before.
func (r *Runner) RenderVariation(ctx context.Context, idx *atlas.Index, opts Options, n int) (*Variation, error) {
	return r.renderVariation(ctx, idx, opts, n, r.Logger)
}

func (r *Runner) renderVariation(ctx context.Context, idx *atlas.Index, opts Options, n int, logger *log.Logger) (*Variation, error) {
	seed := opts.Seed(n)
	ko := opts.VariationKeyOpts(n)
	ko.Assets = idx.AssetsDigest()
	key := r.Keyer.VariationKey(idx.Digest(), ko)

	if data, ok := r.cached(ctx, key, "variation", opts.Refresh); ok {
		return &Variation{N: n, Seed: seed, PNG: data, Cached: true}, nil
	}

	style, err := opts.RenderStyle()
	if err != nil {
		return nil, err
	}
	builder, err := opts.Builder()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnVariationStart(ctx, n, seed)

	grids := builder.BuildWords(opts.Words, glyph.NewRand(seed))
	img, stats := render.NewCompositor(idx, style, logger).Render(grids)
	data, err := render.EncodePNG(img)

	observability.Pipeline().OnVariationComplete(ctx, n, seed, stats.Cells, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if stats.Placeholders > 0 {
		logger.Warn("not caching variation drawn from placeholder sheets", "n", n, "layers", stats.Placeholders)
	} else {
		r.store(ctx, key, "variation", data, cache.TTLVariation)
	}
	logger.Debug("rendered variation", "n", n, "seed", seed, "cells", stats.Cells, "skipped", stats.Skipped, "duration", time.Since(start))
	return &Variation{N: n, Seed: seed, PNG: data, Stats: stats}, nil
}

// RenderLegend renders the legend for the configured catalogs as PNG.
func (r *Runner) RenderLegend(ctx context.Context, idx *atlas.Index, opts Options) ([]byte, error) {
	ko := opts.LegendKeyOpts()
	ko.Assets = idx.AssetsDigest()
	key := r.Keyer.LegendKey(idx.Digest(), ko)
	if data, ok := r.cached(ctx, key, "legend", opts.Refresh); ok {
		return data, nil
	}

	start := time.Now()
	items := opts.ItemIDs()
	img, err := render.Legend(idx, items, opts.Terrains)
	var data []byte
	if err == nil {
		data, err = render.EncodePNG(img)
	}
	observability.Pipeline().OnLegendComplete(ctx, len(items)+len(opts.Terrains), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if idx.Degraded(append(items, opts.Terrains...)...) {
		r.Logger.Warn("not caching legend drawn from placeholder sheets")
	} else {
		r.store(ctx, key, "legend", data, cache.TTLLegend)
	}
	return data, nil
}

func (r *Runner) cached(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
