// Package config holds the YAML configuration for map generation.
//
// A config file only needs the keys it changes: Load decodes the file on top
// of Default, so omitted sections keep their default values. The result is
// validated with struct tags before use.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"marketmap/internal/layout"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

var validate = validator.New()

// Canvas controls the drawing surface derived from the projection.
type Canvas struct {
	Width      float64 `yaml:"width" validate:"gt=0"`             // Surface width in pixels; height follows the map's aspect ratio
	GeoPadding float64 `yaml:"geo_padding" validate:"gte=0,lt=1"` // Fraction of the geographic extent added on each side
	State      string  `yaml:"state"`                             // Fit the map to this state's box instead of the markers (abbreviation or slug)
	Frame      bool    `yaml:"frame"`                             // Draw a border around the surface
	Top        int     `yaml:"top" validate:"gte=0"`              // Draw only the N best-ranked markets (0 = all)
}

// Layout mirrors the resolver's parameters and tuning knobs.
type Layout struct {
	MinDistance        float64 `yaml:"min_distance" validate:"gt=0"`         // Minimum center-to-center distance between pins
	Padding            float64 `yaml:"padding" validate:"gte=0"`             // Minimum distance from a pin center to the edge
	ForceIterations    int     `yaml:"force_iterations" validate:"gte=0"`    // Force-push passes
	Damping            float64 `yaml:"damping" validate:"gt=0,lte=1"`        // Share of overlap corrected per force step
	DirectionPasses    int     `yaml:"direction_passes" validate:"gte=0"`    // Exhaustive direction search passes
	SlackPasses        int     `yaml:"slack_passes" validate:"gte=0"`        // Slack-based separation passes
	FallbackIterations int     `yaml:"fallback_iterations" validate:"gte=0"` // Direct push passes per padding level
	RelaxPadding       bool    `yaml:"relax_padding"`                        // Allow the last phase to shrink padding
	PaddingStep        float64 `yaml:"padding_step" validate:"gt=0"`         // Padding decrement per relaxed level
	PaddingFloor       float64 `yaml:"padding_floor" validate:"gte=0"`       // Smallest relaxed padding
	Epsilon            float64 `yaml:"epsilon" validate:"gt=0"`              // Distance under which two pins count as coincident
	SafetyMargin       float64 `yaml:"safety_margin" validate:"gte=0"`       // Added to every required separation
}

// Marker styles the pins.
type Marker struct {
	Shape           string  `yaml:"shape" validate:"oneof=circle square diamond triangle"` // Pin shape
	BaseRadius      float64 `yaml:"base_radius" validate:"gt=0"`                           // Radius before population scaling
	ScaleByPop      bool    `yaml:"scale_by_population"`                                   // Grow pins with metro population
	StrokeWidth     float64 `yaml:"stroke_width" validate:"gte=0"`                         // Pin border width
	RingWidth       float64 `yaml:"ring_width" validate:"gte=0"`                           // White outer ring width (0 disables)
	RankBadgeMax    int     `yaml:"rank_badge_max" validate:"gte=0"`                       // Draw a rank badge for ranks 1..N
	UnresolvedScale float64 `yaml:"unresolved_scale" validate:"gt=0,lte=1"`                // Radius factor for pins still overlapping
	LabelOffset     float64 `yaml:"label_offset" validate:"gte=0"`                         // Gap between pin and its label
	ShowLabels      bool    `yaml:"show_labels"`                                           // Draw market names
}

// Colors are SVG color values.
type Colors struct {
	Background string `yaml:"background" validate:"required"`
	Frame      string `yaml:"frame" validate:"required"`
	Marker     string `yaml:"marker" validate:"required"`
	Stroke     string `yaml:"stroke" validate:"required"`
	Ring       string `yaml:"ring" validate:"required"`
	Badge      string `yaml:"badge" validate:"required"`
	BadgeText  string `yaml:"badge_text" validate:"required"`
	Text       string `yaml:"text" validate:"required"`
	Cluster    string `yaml:"cluster" validate:"required"`
}

// Font styles labels and badges.
type Font struct {
	Family string  `yaml:"family" validate:"required"`
	Size   float64 `yaml:"size" validate:"gt=0"`
}

// Cluster controls the grouping badges.
type Cluster struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold" validate:"gt=0"` // Pins closer than this share a cluster
}

// Logging configures the zap logger.
type Logging struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=console json"`
	File       string `yaml:"file"`                          // Optional rotating log file
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`  // Rotate after this many megabytes
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`  // Rotated files to keep
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"` // Days to keep rotated files
}

// Metrics configures the Prometheus textfile output.
type Metrics struct {
	File string `yaml:"file"` // Write metrics here after each run (empty disables)
}

// Config is the complete configuration for map generation.
type Config struct {
	Canvas  Canvas  `yaml:"canvas"`
	Layout  Layout  `yaml:"layout"`
	Marker  Marker  `yaml:"marker"`
	Colors  Colors  `yaml:"colors"`
	Font    Font    `yaml:"font"`
	Cluster Cluster `yaml:"cluster"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

// Default returns the configuration used when no file is given:
//   - 500px wide canvas with 20% geographic padding
//   - 32px minimum pin distance and 18px edge padding
//   - resolver tuning from layout.DefaultOptions
//   - circle pins of radius 6 scaled by population, rank badges for the top 5
func Default() Config {
	o := layout.DefaultOptions()
	return Config{
		Canvas: Canvas{
			Width:      500,
			GeoPadding: 0.2,
		},
		Layout: Layout{
			MinDistance:        32,
			Padding:            18,
			ForceIterations:    o.ForceIterations,
			Damping:            o.Damping,
			DirectionPasses:    o.DirectionPasses,
			SlackPasses:        o.SlackPasses,
			FallbackIterations: o.FallbackIterations,
			RelaxPadding:       o.RelaxPadding,
			PaddingStep:        o.PaddingStep,
			PaddingFloor:       o.PaddingFloor,
			Epsilon:            o.Epsilon,
			SafetyMargin:       o.SafetyMargin,
		},
		Marker: Marker{
			Shape:           "circle",
			BaseRadius:      6,
			ScaleByPop:      true,
			StrokeWidth:     1.5,
			RingWidth:       2,
			RankBadgeMax:    5,
			UnresolvedScale: 0.6,
			LabelOffset:     4,
			ShowLabels:      true,
		},
		Colors: Colors{
			Background: "#ffffff",
			Frame:      "#d0d5dd",
			Marker:     "#1f6feb",
			Stroke:     "#0b3d91",
			Ring:       "#ffffff",
			Badge:      "#f59e0b",
			BadgeText:  "#ffffff",
			Text:       "#333333",
			Cluster:    "#1f6feb",
		},
		Font: Font{
			Family: "Arial, sans-serif",
			Size:   11,
		},
		Cluster: Cluster{
			Enabled:   true,
			Threshold: 25,
		},
		Logging: Logging{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the result.
// An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges. Whether the padding fits the surface depends
// on the projected height, so that check happens at resolve time.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Layout.PaddingFloor > c.Layout.Padding {
		return fmt.Errorf("%w: layout.padding_floor %g exceeds layout.padding %g",
			ErrInvalidConfig, c.Layout.PaddingFloor, c.Layout.Padding)
	}
	return nil
}

// LayoutParams returns the resolver's policy values.
func (c Config) LayoutParams() layout.Params {
	return layout.Params{MinDistance: c.Layout.MinDistance, Padding: c.Layout.Padding}
}

// LayoutOptions returns the resolver's tuning.
func (c Config) LayoutOptions() layout.Options {
	l := c.Layout
	return layout.Options{
		ForceIterations:    l.ForceIterations,
		Damping:            l.Damping,
		DirectionPasses:    l.DirectionPasses,
		SlackPasses:        l.SlackPasses,
		FallbackIterations: l.FallbackIterations,
		RelaxPadding:       l.RelaxPadding,
		PaddingStep:        l.PaddingStep,
		PaddingFloor:       l.PaddingFloor,
		Epsilon:            l.Epsilon,
		SafetyMargin:       l.SafetyMargin,
	}
}
