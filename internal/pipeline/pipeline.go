// Package pipeline turns a market file into an SVG map:
// load -> project -> resolve -> cluster -> render -> write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketmap/internal/cluster"
	"marketmap/internal/config"
	"marketmap/internal/geo"
	"marketmap/internal/layout"
	"marketmap/internal/market"
	"marketmap/internal/metrics"
	"marketmap/internal/render"
)

// ErrNoMarkets indicates an input file without any market rows.
var ErrNoMarkets = errors.New("pipeline: no markets found")

// Request describes one map to build.
type Request struct {
	Input     string        // market file (.csv or .json)
	Output    string        // SVG path; derived from Input when empty
	OutputDir string        // directory for derived output names
	Config    config.Config // styling and layout settings
	Title     string        // SVG title; defaults to the state or input name
	DryRun    bool          // build but do not write the file
	Highlight []string      // selected markets whose cluster is emphasized
}

// OutputPath is where the request's SVG is written.
func (r Request) OutputPath() string {
	path := OutputFilename(r.Input, r.Output)
	if r.Output == "" && r.OutputDir != "" {
		path = filepath.Join(r.OutputDir, path)
	}
	return path
}

// Output is the result of a successful build.
type Output struct {
	Path     string
	SVG      string
	Markets  []market.Market
	Result   layout.Result
	Clusters []cluster.Cluster
	Index    render.PositionIndex
	Width    float64
	Height   float64
}

// Builder runs builds with shared logging and metrics.
type Builder struct {
	log     *zap.Logger
	metrics *metrics.Registry
}

// NewBuilder returns a Builder. A nil logger discards logs and a nil
// registry disables metrics.
func NewBuilder(log *zap.Logger, reg *metrics.Registry) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log, metrics: reg}
}

// Build produces one map. The context is checked between steps; the steps
// themselves are fast and not interruptible.
func (b *Builder) Build(ctx context.Context, req Request) (out Output, err error) {
	start := time.Now()
	log := b.log.With(zap.String("input", req.Input))
	defer func() {
		if b.metrics != nil {
			b.metrics.RecordRender(len(out.SVG), time.Since(start), err)
		}
		if err != nil {
			log.Error("build failed", zap.Error(err))
		}
	}()

	cfg := req.Config
	markets, err := market.LoadFile(req.Input)
	if err != nil {
		return Output{}, err
	}
	markets = market.Top(markets, cfg.Canvas.Top)
	if len(markets) == 0 {
		return Output{}, fmt.Errorf("%w in %s", ErrNoMarkets, req.Input)
	}
	log.Debug("markets loaded", zap.Int("count", len(markets)))
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	proj, err := project(markets, cfg)
	if err != nil {
		return Output{}, err
	}
	width, height := proj.Size()
	markers := make([]layout.Marker, len(markets))
	for i, m := range markets {
		p := proj.Project(m.Lat, m.Lng)
		markers[i] = layout.Marker{Label: m.Name, X: p.X, Y: p.Y}
	}
	log.Debug("projected", zap.Float64("width", width), zap.Float64("height", height), zap.String("state", cfg.Canvas.State))

	opts := cfg.LayoutOptions()
	resolveStart := time.Now()
	res, err := layout.Resolve(markers, layout.Bounds{Width: width, Height: height}, cfg.LayoutParams(), &opts)
	if err != nil {
		return Output{}, fmt.Errorf("resolving layout: %w", err)
	}
	b.recordResolve(res, len(markers), time.Since(resolveStart))
	log.Debug("resolved",
		zap.Stringer("phase", res.Stats.LastPhase),
		zap.Int("unresolved", res.Unresolved.Len()),
		zap.Float64("effective_padding", res.Stats.EffectivePadding))
	if res.Unresolved.Len() > 0 {
		log.Warn("markers still overlap", zap.Strings("labels", res.Unresolved.Labels()))
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	var clusters []cluster.Cluster
	if cfg.Cluster.Enabled {
		if clusters, err = group(markers, res.Placements, cfg.Cluster.Threshold); err != nil {
			return Output{}, err
		}
	}

	scene := render.Scene{
		Width:    width,
		Height:   height,
		Title:    title(req),
		Pins:     pins(markets, markers, res, cfg),
		Clusters: clusters,
		Active:   req.Highlight,
	}
	out = Output{
		SVG:      render.SVG(scene, cfg),
		Markets:  markets,
		Result:   res,
		Clusters: clusters,
		Index:    render.NewPositionIndex(res.Placements),
		Width:    width,
		Height:   height,
	}

	out.Path = req.OutputPath()
	if !req.DryRun {
		if err := os.WriteFile(out.Path, []byte(out.SVG), 0o644); err != nil {
			return Output{}, fmt.Errorf("error writing SVG file: %w", err)
		}
	}
	log.Info("map generated",
		zap.String("output", out.Path),
		zap.Int("markets", len(markets)),
		zap.Stringer("phase", res.Stats.LastPhase),
		zap.Int("unresolved", res.Unresolved.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// project fits the surface to the configured state, or to the markets
// themselves when no state is set.
func project(markets []market.Market, cfg config.Config) (*geo.Projector, error) {
	if cfg.Canvas.State != "" {
		gb, err := geo.LookupState(cfg.Canvas.State)
		if err != nil {
			return nil, err
		}
		return geo.FitBounds(gb, cfg.Canvas.Width, cfg.Canvas.GeoPadding)
	}
	coords := make([]geo.Coord, len(markets))
	for i, m := range markets {
		coords[i] = geo.Coord{Lat: m.Lat, Lng: m.Lng}
	}
	return geo.FitProjector(coords, cfg.Canvas.Width, cfg.Canvas.GeoPadding)
}

// group clusters markets by their true projected positions, since layout
// spreads placements past any useful threshold, then moves each member and
// center to where the pins were actually placed.
func group(markers []layout.Marker, placements []layout.Placement, threshold float64) ([]cluster.Cluster, error) {
	members := make([]cluster.Member, len(markers))
	placed := make(map[string]layout.Placement, len(placements))
	for i, m := range markers {
		members[i] = cluster.Member{Label: m.Label, X: m.X, Y: m.Y}
		placed[placements[i].Label] = placements[i]
	}
	clusters, err := cluster.Group(members, threshold)
	if err != nil {
		return nil, err
	}
	for ci := range clusters {
		c := &clusters[ci]
		var sx, sy float64
		for mi := range c.Members {
			p := placed[c.Members[mi].Label]
			c.Members[mi].X, c.Members[mi].Y = p.X, p.Y
			sx += p.X
			sy += p.Y
		}
		n := float64(len(c.Members))
		c.CenterX, c.CenterY = sx/n, sy/n
	}
	return clusters, nil
}

func pins(markets []market.Market, markers []layout.Marker, res layout.Result, cfg config.Config) []render.Pin {
	out := make([]render.Pin, len(markets))
	for i, m := range markets {
		r := cfg.Marker.BaseRadius
		if cfg.Marker.ScaleByPop {
			r = market.RadiusFor(m.Population, cfg.Marker.BaseRadius)
		}
		p := res.Placements[i]
		out[i] = render.Pin{
			Label:      m.Name,
			X:          p.X,
			Y:          p.Y,
			TrueX:      markers[i].X,
			TrueY:      markers[i].Y,
			Radius:     r,
			Rank:       m.Rank,
			Unresolved: res.Unresolved.Has(m.Name),
		}
	}
	return out
}

func (b *Builder) recordResolve(res layout.Result, n int, d time.Duration) {
	if b.metrics == nil {
		return
	}
	s := res.Stats
	b.metrics.RecordResolve(metrics.ResolveStats{
		Markers:         n,
		Unresolved:      res.Unresolved.Len(),
		LastPhase:       s.LastPhase.String(),
		ForcePasses:     s.ForcePasses,
		DirectionPasses: s.DirectionPasses,
		SlackPasses:     s.SlackPasses,
		FallbackPasses:  s.FallbackPasses,
	}, d)
}

func title(req Request) string {
	if req.Title != "" {
		return req.Title
	}
	if s := req.Config.Canvas.State; s != "" {
		if abbrev, ok := geo.Abbrev(s); ok {
			return abbrev + " markets"
		}
	}
	base := filepath.Base(req.Input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputFilename determines the output filename for the SVG file.
// If output is provided and not empty, it returns that filename.
// Otherwise, it derives the filename from the input file by replacing
// the extension with .svg (e.g., "texas.csv" becomes "texas.svg").
func OutputFilename(input, output string) string {
	if output != "" {
		return output
	}

	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".svg"
}
