package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relayout/pkg/cache"
	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute runs the complete solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Document: opts.Document}

	// Stage 1: Solve
	solveStart := time.Now()
	sol, solveHit, err := r.SolveWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Solution = sol
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.Components = len(sol.Components)
	result.Stats.PassesX = sol.PassesX
	result.Stats.PassesY = sol.PassesY
	result.CacheInfo.SolveHit = solveHit
	result.DocHash, _ = opts.Document.Hash()

	result.Width, result.Height = sol.Fit(opts.Width, opts.Height)
	result.Placements = layout.Place(sol, result.Width, result.Height)

	r.Logger.Info("solved layout",
		"components", result.Stats.Components,
		"passes", max(sol.PassesX, sol.PassesY),
		"min", fmt.Sprintf("%gx%g", sol.MinWidth, sol.MinHeight),
		"cached", solveHit,
		"duration", result.Stats.SolveTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sol, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo solves the document with caching and returns cache hit
// info. Only successful solutions are stored.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, opts Options) (*layout.Solution, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}

	cacheKey, err := r.solveKey(opts)
	if err != nil {
		return nil, false, err
	}

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			var sol layout.Solution
			if err := json.Unmarshal(data, &sol); err == nil {
				observability.Cache().OnCacheHit(ctx, "solve")
				return &sol, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "solve")
	}

	sol, err := Solve(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(sol); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSolve); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "solve", len(data))
		}
	}
	return sol, false, nil
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Solve(ctx context.Context, opts Options) (*layout.Solution, error) {
	sol, _, err := r.SolveWithCacheInfo(ctx, opts)
	return sol, err
}

// solveKey hashes the document together with the measurement settings,
// which change the sizes of labelled components.
func (r *Runner) solveKey(opts Options) (string, error) {
	docHash, err := opts.Document.Hash()
	if err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	key := fmt.Sprintf("%s/%g/%g", docHash, opts.CellWidth, opts.CellHeight)
	return r.Keyer.SolveKey(cache.Hash([]byte(key))), nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit is reported only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sol *layout.Solution, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Labels live in the document, not the solution, so both go into the key.
	solData, err := json.Marshal(sol)
	if err != nil {
		return nil, false, fmt.Errorf("serialize solution for cache key: %w", err)
	}
	docHash, err := opts.Document.Hash()
	if err != nil {
		return nil, false, fmt.Errorf("hash document: %w", err)
	}
	keyHash := cache.Hash(append(solData, docHash...))

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(keyHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, opts.Document, sol, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(keyHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sol *layout.Solution, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sol, opts)
	return artifacts, err
}

// ParseFile reads a document from disk through the pipeline hooks.
func (r *Runner) ParseFile(ctx context.Context, path string) (*document.Document, error) {
	format, err := document.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	doc, err := Parse(ctx, data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Logger.Debug("parsed document", "path", path, "name", doc.Name, "components", len(doc.Components))
	return doc, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
