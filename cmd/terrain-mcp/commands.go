package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/ironsheep/terrain-contour-mcp/internal/classify"
	"github.com/ironsheep/terrain-contour-mcp/internal/config"
	imgutil "github.com/ironsheep/terrain-contour-mcp/internal/imaging"
	"github.com/ironsheep/terrain-contour-mcp/internal/terrain"
	"github.com/ironsheep/terrain-contour-mcp/internal/vectorize"
)

// pipelineFlags are the classifier and hole-mode flags shared by vectorize and
// generate. Their defaults come from the environment configuration.
type pipelineFlags struct {
	fill, hole float64
	policy     string
	mode       string
	stride     int
	source     string
}

func (p *pipelineFlags) register(cmd *cobra.Command, cfg config.Config) {
	f := cmd.Flags()
	f.Float64Var(&p.fill, "fill", cfg.FillThreshold, "fill threshold 0-1: red >= round(fill*255) is terrain")
	f.Float64Var(&p.hole, "hole", cfg.HoleThreshold, "hole threshold 0-1: red < round(hole*255) is a hole")
	f.StringVar(&p.policy, "policy", cfg.Policy.String(), "out-of-range thresholds: clamp or reject")
	f.StringVar(&p.mode, "mode", cfg.HoleMode, "hole representation: outline or points")
	f.IntVar(&p.stride, "stride", cfg.Stride, "sampling step for --mode points")
	f.StringVar(&p.source, "source", cfg.SampleSource, "grid sampled by --mode points: hole or fill")
}

// vectorizeConfig overlays the flag values on base and builds the pipeline configuration.
func (p *pipelineFlags) vectorizeConfig(base config.Config) (vectorize.Config, error) {
	policy, err := classify.ParsePolicy(p.policy)
	if err != nil {
		return vectorize.Config{}, err
	}
	base.FillThreshold, base.HoleThreshold, base.Policy = p.fill, p.hole, policy
	base.HoleMode, base.Stride, base.SampleSource = p.mode, p.stride, p.source
	return base.VectorizeConfig()
}

func newVectorizeCmd(a *app) *cobra.Command {
	var (
		flags   pipelineFlags
		stats   bool
		minArea int
		prep    imgutil.PrepareOptions
		output  string
	)

	cmd := &cobra.Command{
		Use:     "vectorize <image>",
		Short:   "trace a heightmap into outline paths and print the result as JSON",
		Args:    cobra.ExactArgs(1),
		Example: "vectorize --fill 0.55 --hole 0.3 --mode points --stride 4 map.png",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.vectorizeConfig(a.cfg)
			if err != nil {
				return err
			}
			cfg.Stats = stats
			cfg.MinRegionArea = minArea

			img, err := imgutil.NewImageCache().Load(args[0])
			if err != nil {
				return err
			}
			prepared, err := imgutil.Prepare(img, prep)
			if err != nil {
				return err
			}

			res, err := vectorize.New(nil, a.log).Run(imgutil.ToFrame(prepared), cfg)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), output, res)
		},
	}

	flags.register(cmd, a.cfg)
	f := cmd.Flags()
	f.BoolVar(&stats, "stats", false, "include cell counts and region statistics")
	f.IntVar(&minArea, "min-area", 0, "ignore regions smaller than this in --stats")
	f.StringVar(&prep.Region, "region", "", "crop to a named region (top-left, center, left-half, ...)")
	f.Float64Var(&prep.Scale, "scale", 1, "resize factor applied before classifying")
	f.BoolVar(&prep.Grayscale, "grayscale", false, "classify luminance instead of the red channel")
	f.BoolVar(&prep.Invert, "invert", false, "swap high and low ground")
	f.Float64Var(&prep.Blur, "smooth", 0, "gaussian blur sigma applied before classifying")
	f.StringVarP(&output, "output", "o", "", "write JSON to this file instead of stdout")

	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		opts  terrain.Options
		out   string
		vec   bool
		flags pipelineFlags
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "generate a Perlin noise heightmap image",
		Args:    cobra.NoArgs,
		Example: "generate --width 512 --height 256 --seed 7 --out map.png",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.vectorizeConfig(a.cfg)
			if err != nil {
				return err
			}
			img, err := terrain.Generate(opts)
			if err != nil {
				return err
			}
			if err := imaging.Save(img, out); err != nil {
				return fmt.Errorf("failed to save heightmap: %w", err)
			}
			a.log.Info().
				Str("file", out).
				Int("width", opts.Width).
				Int("height", opts.Height).
				Int64("seed", opts.Seed).
				Msg("heightmap written")

			if !vec {
				return nil
			}
			res, err := vectorize.New(nil, a.log).Run(imgutil.ToFrame(img), cfg)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), "", res)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Width, "width", 256, "width in pixels")
	f.IntVar(&opts.Height, "height", 256, "height in pixels")
	f.Int64Var(&opts.Seed, "seed", 0, "noise seed")
	f.Float64Var(&opts.BlurRadius, "blur", 0, "gaussian blur radius applied after generation")
	f.StringVar(&out, "out", "", "output image file; format from extension")
	f.BoolVar(&vec, "vectorize", false, "also print the vectorized outline as JSON")
	flags.register(cmd, a.cfg)
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// writeJSON encodes v indented to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v interface{}) error {
	if path == "" {
		return encodeJSON(w, v)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := encodeJSON(f, v); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
