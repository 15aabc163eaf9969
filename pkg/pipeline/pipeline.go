// Package pipeline provides the parse → solve → render pipeline for relayout.
//
// The CLI, the HTTP server and the terminal preview all run documents
// through this package, so that caching, defaults and validation behave the
// same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode and validate a layout document (JSON, YAML, TOML)
//  2. Solve: Resolve every edge constraint and derive the minimum size
//  3. Render: Place components and write the requested formats
//
// Solutions are cached by document hash, artifacts by solution hash and
// render options. Failed solves are never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document: doc,
//	    Formats:  []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relayout/pkg/cache"
	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/measure"
	"github.com/matzehuels/relayout/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultCellWidth is the width of one label cell in layout units.
	DefaultCellWidth = measure.DefaultCellWidth

	// DefaultCellHeight is the height of one label line in layout units.
	DefaultCellHeight = measure.DefaultLineHeight
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"   // placed boxes as SVG
	FormatJSON  = "json"  // solution and boxes
	FormatText  = "txt"   // ASCII drawing
	FormatDOT   = "dot"   // constraint graph source
	FormatGraph = "graph" // constraint graph rendered to SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatJSON:  true,
	FormatText:  true,
	FormatDOT:   true,
	FormatGraph: true,
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// Extension returns the file extension for an output format.
func Extension(format string) string {
	switch format {
	case FormatGraph:
		return "graph.svg"
	default:
		return format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	Document *document.Document `json:"document"`

	// Requested container size. Zero or too small values are raised to the
	// solution's minimum; a document's own width/height fill in zeros.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Label measurement
	CellWidth  float64 `json:"cell_width,omitempty"`
	CellHeight float64 `json:"cell_height,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Slots      bool     `json:"slots,omitempty"`
	Highlight  string   `json:"highlight,omitempty"`
	TextScaleX float64  `json:"text_scale_x,omitempty"`
	TextScaleY float64  `json:"text_scale_y,omitempty"`

	// Refresh bypasses cached solutions and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Document   *document.Document
	DocHash    string
	Solution   *layout.Solution
	Placements []layout.Placement
	Width      float64 // container size the placements were computed for
	Height     float64
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components int
	PassesX    int
	PassesY    int
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // Whether the solution came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForSolve checks the document and sizes and applies solve defaults.
func (o *Options) ValidateForSolve() error {
	if o.Document == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	for name, v := range map[string]float64{
		"width": o.Width, "height": o.Height,
		"cell width": o.CellWidth, "cell height": o.CellHeight,
	} {
		if err := errors.ValidateSize(name, v); err != nil {
			return err
		}
	}
	o.SetSolveDefaults()
	return nil
}

// SetSolveDefaults sets default values for solving.
func (o *Options) SetSolveDefaults() {
	if o.Width == 0 && o.Document != nil {
		o.Width = o.Document.Width
	}
	if o.Height == 0 && o.Document != nil {
		o.Height = o.Document.Height
	}
	if o.CellWidth == 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight == 0 {
		o.CellHeight = DefaultCellHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.TextScaleX == 0 {
		o.TextScaleX = sink.DefaultTextScaleX
	}
	if o.TextScaleY == 0 {
		o.TextScaleY = sink.DefaultTextScaleY
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// MeasureOptions returns the label measurement options.
func (o *Options) MeasureOptions() []measure.Option {
	return []measure.Option{measure.WithCellSize(o.CellWidth, o.CellHeight)}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:    format,
		Width:     o.Width,
		Height:    o.Height,
		Slots:     o.Slots,
		Highlight: o.Highlight,
	}
	if format == FormatText {
		opts.ScaleX, opts.ScaleY = o.TextScaleX, o.TextScaleY
	}
	return opts
}
