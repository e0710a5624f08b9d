package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketmap/internal/layout"
	"marketmap/internal/metrics"
)

// resolveOutput is the JSON written by the resolve command.
type resolveOutput struct {
	Placements []layout.Placement `json:"placements"`
	Unresolved []string           `json:"unresolved"`
	Phase      string             `json:"phase"`
	Padding    float64            `json:"effective_padding"`
}

// newResolveCmd exposes the layout resolver directly: surface coordinates in,
// adjusted coordinates out, no projection or rendering.
func newResolveCmd(a *app) *cobra.Command {
	var (
		input                               string
		width, height, minDistance, padding float64
		relax                               bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Separate raw surface markers and print the placements as JSON",
		Long: `Resolve reads a JSON array of {"label","x","y"} markers (from a file or
"-" for stdin) and prints the adjusted placements and the labels that could
not be separated.

Layout tuning comes from the config file; the flags override the surface
size and the minimum distance and padding.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			markers, err := readMarkers(cmd, input)
			if err != nil {
				return err
			}

			params := a.cfg.LayoutParams()
			if cmd.Flags().Changed("min-distance") {
				params.MinDistance = minDistance
			}
			if cmd.Flags().Changed("padding") {
				params.Padding = padding
			}
			opts := a.cfg.LayoutOptions()
			if cmd.Flags().Changed("relax-padding") {
				opts.RelaxPadding = relax
			}

			start := time.Now()
			res, err := layout.Resolve(markers, layout.Bounds{Width: width, Height: height}, params, &opts)
			if err != nil {
				return err
			}
			a.metrics.RecordResolve(metrics.ResolveStats{
				Markers:         len(markers),
				Unresolved:      res.Unresolved.Len(),
				LastPhase:       res.Stats.LastPhase.String(),
				ForcePasses:     res.Stats.ForcePasses,
				DirectionPasses: res.Stats.DirectionPasses,
				SlackPasses:     res.Stats.SlackPasses,
				FallbackPasses:  res.Stats.FallbackPasses,
			}, time.Since(start))
			a.log.Debug("resolved",
				zap.Int("markers", len(markers)),
				zap.Stringer("phase", res.Stats.LastPhase),
				zap.Int("unresolved", res.Unresolved.Len()))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resolveOutput{
				Placements: res.Placements,
				Unresolved: res.Unresolved.Labels(),
				Phase:      res.Stats.LastPhase.String(),
				Padding:    res.Stats.EffectivePadding,
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "-", "Markers JSON file, or - for stdin")
	cmd.Flags().Float64Var(&width, "width", 500, "Surface width")
	cmd.Flags().Float64Var(&height, "height", 500, "Surface height")
	cmd.Flags().Float64Var(&minDistance, "min-distance", 0, "Minimum center distance (default from config)")
	cmd.Flags().Float64Var(&padding, "padding", 0, "Edge padding (default from config)")
	cmd.Flags().BoolVar(&relax, "relax-padding", false, "Allow the fallback phase to shrink padding")
	return cmd
}

func readMarkers(cmd *cobra.Command, input string) ([]layout.Marker, error) {
	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("error opening markers file: %w", err)
		}
		defer f.Close()
		r = f
	}
	var markers []layout.Marker
	if err := json.NewDecoder(r).Decode(&markers); err != nil {
		return nil, fmt.Errorf("error decoding markers: %w", err)
	}
	return markers, nil
}
