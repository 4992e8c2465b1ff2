package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mlopsdiagrams/pkg/cache"
	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/observability"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// Backend lays out diagrams and exports them.
type Backend interface {
	// Render writes the diagram to its output target.
	Render(ctx context.Context, d *diagram.Diagram) error

	// Bytes returns the diagram encoded in format without touching disk.
	Bytes(ctx context.Context, d *diagram.Diagram, format string) ([]byte, error)
}

// Graphviz is the [Backend] built on Graphviz. Raster and SVG output is
// laid out in-process through go-graphviz; PDF goes through SVG and
// rsvg-convert; "dot" and "mmd" are text serialisations that need no
// layout.
//
// Laid-out artifacts are cached by the hash of their DOT source, so a
// second run over unchanged diagrams skips Graphviz entirely.
type Graphviz struct {
	Icons  *IconSet
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// Option configures a [Graphviz] backend.
type Option func(*Graphviz)

// WithIcons draws nodes with the icons in set.
func WithIcons(set *IconSet) Option { return func(g *Graphviz) { g.Icons = set } }

// WithCache caches laid-out artifacts in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(g *Graphviz) { g.Cache, g.TTL = c, ttl }
}

// WithKeyer overrides the cache key scheme.
func WithKeyer(k cache.Keyer) Option { return func(g *Graphviz) { g.Keyer = k } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option { return func(g *Graphviz) { g.Logger = l } }

// NewGraphviz creates a Graphviz backend. Without options it draws
// categories as coloured shapes and caches nothing.
func NewGraphviz(opts ...Option) *Graphviz {
	g := &Graphviz{TTL: cache.DefaultTTL}
	for _, opt := range opts {
		opt(g)
	}
	if g.Cache == nil {
		g.Cache = cache.NewNullCache()
	}
	if g.Keyer == nil {
		g.Keyer = cache.NewDefaultKeyer()
	}
	if g.Logger == nil {
		g.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return g
}

// Render encodes d in its target format and writes the file, creating
// parent directories as needed.
func (g *Graphviz) Render(ctx context.Context, d *diagram.Diagram) error {
	t := d.Target()
	data, err := g.Bytes(ctx, d, t.Format)
	if err != nil {
		return err
	}
	path := t.Path()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "create output directory for %s", path)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "write %s", path)
	}
	g.Logger.Debug("wrote diagram", "diagram", d.Name(), "path", path, "bytes", len(data))
	return nil
}

// Bytes encodes d in format.
func (g *Graphviz) Bytes(ctx context.Context, d *diagram.Diagram, format string) (data []byte, err error) {
	if !output.IsSupported(format) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (must be one of: %v)", format, output.Formats())
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, d.Name(), format)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, d.Name(), format, len(data), time.Since(start), err)
	}()

	if format == output.FormatMermaid {
		return []byte(ToMermaid(d)), nil
	}

	dot, err := ToDOT(d, DOTOptions{Icons: g.Icons})
	if err != nil {
		return nil, err
	}
	if format == output.FormatDOT {
		return []byte(dot), nil
	}

	key := g.Keyer.RenderKey(cache.Hash([]byte(dot)), format)
	if cached, hit, err := g.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		g.Logger.Debug("render cache hit", "diagram", d.Name(), "format", format)
		return cached, nil
	} else if err != nil {
		g.Logger.Warn("render cache read failed", "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	data, err = layout(ctx, dot, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s as %s", d.Name(), format)
	}
	g.Logger.Debug("laid out diagram", "diagram", d.Name(), "format", format, "duration", time.Since(start))

	if err := g.Cache.Set(ctx, key, data, g.TTL); err != nil {
		g.Logger.Warn("render cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return data, nil
}

// layout runs Graphviz over DOT source and encodes the result.
func layout(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case output.FormatPDF:
		svg, err := RenderDOT(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return ToPDF(ctx, svg)
	case output.FormatSVG:
		return RenderDOT(ctx, dot, graphviz.SVG)
	case output.FormatPNG:
		return RenderDOT(ctx, dot, graphviz.PNG)
	case output.FormatJPG, output.FormatJPEG:
		return RenderDOT(ctx, dot, graphviz.JPG)
	}
	return nil, fmt.Errorf("no layout for format %q", format)
}

// RenderDOT lays out DOT source with the dot engine and encodes it.
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.DOT)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return buf.Bytes(), nil
}

var _ Backend = (*Graphviz)(nil)
var _ diagram.Renderer = (*Graphviz)(nil)
