// Package pipeline provides the extract → layout → render pipeline shared
// by the CLI and the HTTP API.
//
// Centralizing the stages keeps behavior identical across entry points:
// both go through the same cache keys, the same option defaults, and the
// same logging. Each stage can also run on its own.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, doc, index, pipeline.Options{
//	    ERDView: true,
//	    Formats: []string{"json", "svg"},
//	})
package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/osduviz/schemagraph/pkg/cache"
	sgerrors "github.com/osduviz/schemagraph/pkg/errors"
	"github.com/osduviz/schemagraph/pkg/graph"
	"github.com/osduviz/schemagraph/pkg/layout"
	"github.com/osduviz/schemagraph/pkg/render"
	"github.com/osduviz/schemagraph/pkg/schema"
)

// =============================================================================
// Options - Single Source of Truth for CLI and API defaults
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// ERDView selects the entity-relationship view; false selects the
	// legacy per-kind view (and the layered layout that goes with it).
	ERDView bool

	// Filter narrows the main entity's displayed properties/relations.
	Filter string

	// Layout controls whether positions are computed.
	Layout bool

	// Formats lists the render outputs: "json", "dot", "svg", "png".
	Formats []string

	// TTL bounds cache entry lifetime. Zero means the backend default.
	TTL time.Duration
}

// Defaults returns the standard options: ERD view, layout on, JSON out.
func Defaults() Options {
	return Options{
		ERDView: true,
		Layout:  true,
		Formats: []string{"json"},
	}
}

// Result carries the pipeline output.
type Result struct {
	Graph graph.Graph

	// Artifacts maps format name to rendered bytes.
	Artifacts map[string][]byte

	// CacheHit reports whether the graph came from cache.
	CacheHit bool

	Elapsed time.Duration
}

// =============================================================================
// Runner
// =============================================================================

// Runner executes pipeline stages with caching and logging.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching and a
// nil logger discards output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{cache: c, logger: logger}
}

// Execute runs the full pipeline for one schema document.
func (r *Runner) Execute(ctx context.Context, doc schema.Document, ix *schema.Index, opts Options) (*Result, error) {
	start := time.Now()

	g, hit, err := r.Extract(ctx, doc, ix, opts)
	if err != nil {
		return nil, err
	}

	if opts.Layout {
		g = r.ComputeLayout(g, opts)
	}

	artifacts, err := r.Render(g, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		Graph:     g,
		Artifacts: artifacts,
		CacheHit:  hit,
		Elapsed:   time.Since(start),
	}, nil
}

// Extract builds the graph for a schema document, consulting the cache
// first. The cache key hashes the schema bytes and the options that shape
// the output, so entries never serve a different input.
func (r *Runner) Extract(ctx context.Context, doc schema.Document, ix *schema.Index, opts Options) (graph.Graph, bool, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return graph.Graph{}, false, sgerrors.Wrap(sgerrors.ErrCodeInvalidSchema, err, "encode schema for cache key")
	}
	key := cache.GraphKey(cache.Hash(raw), opts.ERDView, opts.Filter)

	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		if g, err := graph.Unmarshal(data); err == nil {
			r.logger.Debug("graph cache hit", "key", key[:16])
			return g, true, nil
		}
	}

	g := graph.Build(doc, ix, graph.Options{ERDView: opts.ERDView, Filter: opts.Filter})
	r.logger.Debug("extracted graph", "nodes", len(g.Nodes), "edges", len(g.Edges))

	if data, err := graph.Marshal(g); err == nil {
		if err := r.cache.Set(ctx, key, data, opts.TTL); err != nil {
			r.logger.Debug("graph cache write failed", "err", err)
		}
	}
	return g, false, nil
}

// ComputeLayout positions the graph's nodes.
func (r *Runner) ComputeLayout(g graph.Graph, opts Options) graph.Graph {
	mode := layout.ModeERD
	if !opts.ERDView {
		mode = layout.ModeLayered
	}
	out := layout.Apply(g, mode)
	r.logger.Debug("computed layout", "mode", mode, "nodes", len(out.Nodes))
	return out
}

// Render produces the requested output artifacts.
func (r *Runner) Render(g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		switch format {
		case "json":
			data, err := graph.Marshal(g)
			if err != nil {
				return nil, sgerrors.Wrap(sgerrors.ErrCodeInternal, err, "marshal graph")
			}
			artifacts["json"] = data
		case "dot":
			artifacts["dot"] = []byte(r.dot(g, &dot))
		case "svg":
			data, err := render.RenderSVG(r.dot(g, &dot))
			if err != nil {
				return nil, sgerrors.Wrap(sgerrors.ErrCodeInternal, err, "render svg")
			}
			artifacts["svg"] = data
		case "png":
			data, err := render.RenderPNG(r.dot(g, &dot))
			if err != nil {
				return nil, sgerrors.Wrap(sgerrors.ErrCodeInternal, err, "render png")
			}
			artifacts["png"] = data
		default:
			return nil, sgerrors.New(sgerrors.ErrCodeInvalidFormat, "unknown format %q", format)
		}
	}
	return artifacts, nil
}

// dot memoizes DOT emission across formats within one render call.
func (r *Runner) dot(g graph.Graph, memo *string) string {
	if *memo == "" {
		*memo = render.ToDOT(g, render.Options{Detailed: true})
	}
	return *memo
}
