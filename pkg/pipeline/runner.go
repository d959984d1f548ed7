package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kintreehq/kintree/pkg/cache"
	"github.com/kintreehq/kintree/pkg/gedcom"
	"github.com/kintreehq/kintree/pkg/graph"
	"github.com/kintreehq/kintree/pkg/layout"
	"github.com/kintreehq/kintree/pkg/observability"
	"github.com/kintreehq/kintree/pkg/render"
	"github.com/kintreehq/kintree/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the store, cache, and logger - it
// doesn't hold pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Store  store.Store
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given store and cache.
// If cache is nil, a NullCache is used (caching disabled).
// A nil store is allowed; such a runner can only load trees by path.
func NewRunner(st store.Store, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  st,
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	t, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Tree = t
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.PersonCount = len(t.Persons)

	r.Logger.Info("loaded tree",
		"tree", t.ID,
		"persons", len(t.Persons),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"positions", len(l.Positions),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load fetches the tree named by the options: from the runner's store
// when TreeID is set, from a JSON or GEDCOM file when TreePath is set.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Tree, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	source := opts.TreeID
	if source == "" {
		source = opts.TreePath
	}
	observability.Pipeline().OnLoadStart(ctx, source)
	start := time.Now()

	t, err := r.load(ctx, opts)

	persons := 0
	if t != nil {
		persons = len(t.Persons)
	}
	observability.Pipeline().OnLoadComplete(ctx, source, persons, time.Since(start), err)
	return t, err
}

func (r *Runner) load(ctx context.Context, opts Options) (*graph.Tree, error) {
	if opts.TreeID != "" {
		if r.Store == nil {
			return nil, fmt.Errorf("no store configured: cannot load tree %q by ID", opts.TreeID)
		}
		return r.Store.GetTree(ctx, opts.TreeID)
	}

	switch strings.ToLower(filepath.Ext(opts.TreePath)) {
	case ".ged", ".gedcom":
		return gedcom.DecodeFile(opts.TreePath)
	default:
		return graph.ReadTreeFile(opts.TreePath)
	}
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, t *graph.Tree, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)

	cacheKey := cache.LayoutKey(t.ID, t.UpdatedAt, opts.Collapsed)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, t.ID, len(t.Persons))
	start := time.Now()

	collapsed := make(map[string]bool, len(opts.Collapsed))
	for _, id := range opts.Collapsed {
		collapsed[id] = true
	}
	pos := layout.Compute(t.Persons, t.Relationships, collapsed)
	l := graph.LayoutFromPositions(t.ID, collapsed, pos)

	observability.Pipeline().OnLayoutComplete(ctx, t.ID, time.Since(start), nil)

	// Cache the result
	if data, err := graph.MarshalLayout(l); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, t *graph.Tree, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *graph.Tree, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutKey := cache.LayoutKey(t.ID, t.UpdatedAt, opts.Collapsed)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			cacheKey := cache.RenderKey(layoutKey, opts.RenderKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "render")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "render")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderStart(ctx, format)
		start := time.Now()

		data, err := r.renderFormat(ctx, t, l, format, opts)

		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := cache.RenderKey(layoutKey, opts.RenderKeyOpts(format))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLRender) == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t *graph.Tree, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, l, opts)
	return artifacts, err
}

// renderFormat produces a single artifact.
func (r *Runner) renderFormat(ctx context.Context, t *graph.Tree, l graph.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalLayout(l)
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.ShowEdges {
			svgOpts = append(svgOpts, render.WithEdges())
		}
		return render.RenderSVG(t, l, svgOpts...), nil
	case FormatDOT:
		return []byte(render.ToDOT(t, render.DOTOptions{Detailed: opts.Detailed})), nil
	case FormatPNG:
		dot := render.ToDOT(t, render.DOTOptions{Detailed: opts.Detailed})
		return render.RenderDOT(ctx, dot, "png")
	default:
		return nil, ValidateFormat(format)
	}
}

// Close releases resources held by the runner (the cache and the store).
func (r *Runner) Close(ctx context.Context) error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
