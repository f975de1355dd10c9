package vectorize

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/terrain-contour-mcp/internal/classify"
	"github.com/ironsheep/terrain-contour-mcp/internal/contour"
	"github.com/ironsheep/terrain-contour-mcp/internal/logging"
	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
	"github.com/ironsheep/terrain-contour-mcp/internal/regions"
)

// evenOdd is the fill rule flag always handed to the tracer.
const evenOdd = true

// Config controls one pipeline run.
type Config struct {
	// Thresholds are the fill and hole knobs plus the out-of-range policy.
	Thresholds classify.Thresholds

	// HoleMode picks the hole representation. nil means TracedOutline.
	HoleMode HoleMode

	// Stats requests region labelling and cell counts in the Result.
	Stats bool

	// MinRegionArea drops smaller regions from Stats.
	MinRegionArea int
}

// Pipeline runs sampling, classification, tracing and hole sampling.
//
// A Pipeline holds no per-run state and is safe for concurrent use as long as its
// Tracer is.
type Pipeline struct {
	tracer contour.Tracer
	log    zerolog.Logger
}

// New creates a pipeline around the given tracer. A nil tracer selects
// contour.BoundaryTracer.
func New(tracer contour.Tracer, logger zerolog.Logger) *Pipeline {
	if tracer == nil {
		tracer = contour.BoundaryTracer{}
	}
	return &Pipeline{
		tracer: tracer,
		log:    logging.Component(logger, "vectorize"),
	}
}

// Run converts one pixel buffer into a Result.
//
// # Stages
//
//  1. Validate the frame geometry, thresholds and hole mode. Nothing is allocated
//     when any of them is rejected.
//  2. Sample channel 0 of every pixel into an intensity grid.
//  3. Classify the grid into fill and hole grids.
//  4. Trace the fill grid with the even-odd flag set.
//  5. Trace the hole grid (TracedOutline) or stride-sample a grid (SampledPoints).
//
// # Errors
//
//   - raster.ErrInvalidWidth, raster.ErrInvalidBufferLength for bad geometry
//   - classify.ErrThresholdOutOfRange under classify.RejectOutOfRange
//   - classify.ErrInvalidStride for SampledPoints with Stride < 1
//   - any tracer error, wrapped with the grid it failed on
func (p *Pipeline) Run(frame raster.Frame, cfg Config) (*Result, error) {
	start := time.Now()

	mode := normalizeMode(cfg.HoleMode)
	if err := validate(frame, cfg.Thresholds, mode); err != nil {
		p.log.Debug().Err(err).Msg("rejected input")
		return nil, err
	}

	intensity, err := raster.Sample(frame)
	if err != nil {
		return nil, err
	}
	grids, err := classify.Classify(intensity, cfg.Thresholds)
	if err != nil {
		return nil, err
	}

	path, err := p.TraceFill(grids)
	if err != nil {
		return nil, err
	}

	res := &Result{path: path, mode: mode}
	switch m := mode.(type) {
	case TracedOutline:
		res.holePath, err = p.tracer.Trace(grids.Hole, evenOdd)
		if err != nil {
			return nil, fmt.Errorf("failed to trace hole grid: %w", err)
		}
	case SampledPoints:
		source := grids.Hole
		if m.Source == EmptyFillCells {
			source = grids.Fill
		}
		res.holePoints, err = classify.SamplePoints(source, m.Stride, m.marker())
		if err != nil {
			return nil, err
		}
	}

	if cfg.Stats {
		res.stats = &Stats{
			Width:       intensity.Width,
			Height:      intensity.Height,
			FillCells:   grids.Fill.Count(1),
			HoleCells:   grids.Hole.Count(1),
			FillByte:    grids.FillByte,
			HoleByte:    grids.HoleByte,
			Islands:     regions.Label(grids.Fill, 1, cfg.MinRegionArea),
			HoleRegions: regions.Label(grids.Hole, 1, cfg.MinRegionArea),
		}
	}

	p.log.Debug().
		Int("width", intensity.Width).
		Int("height", intensity.Height).
		Uint8("fill_byte", grids.FillByte).
		Uint8("hole_byte", grids.HoleByte).
		Str("hole_mode", mode.String()).
		Int("path_bytes", len(path)).
		Dur("elapsed", time.Since(start)).
		Msg("vectorized frame")

	return res, nil
}

// Grids exposes the intermediate binary grids for previews and diagnostics.
// It applies the same validation as Run.
func (p *Pipeline) Grids(frame raster.Frame, t classify.Thresholds) (*classify.Grids, error) {
	if err := validate(frame, t, TracedOutline{}); err != nil {
		return nil, err
	}
	intensity, err := raster.Sample(frame)
	if err != nil {
		return nil, err
	}
	return classify.Classify(intensity, t)
}

// TraceFill traces only the fill grid of grids, as Run does for its path. Callers
// that already hold the grids from Grids use it to skip the hole stage.
func (p *Pipeline) TraceFill(grids *classify.Grids) (string, error) {
	path, err := p.tracer.Trace(grids.Fill, evenOdd)
	if err != nil {
		return "", fmt.Errorf("failed to trace fill grid: %w", err)
	}
	return path, nil
}

// normalizeMode resolves nil and pointer forms to the value types Result switches on.
func normalizeMode(mode HoleMode) HoleMode {
	switch m := mode.(type) {
	case nil, *TracedOutline:
		return TracedOutline{}
	case *SampledPoints:
		if m == nil {
			return TracedOutline{}
		}
		return *m
	}
	return mode
}

func validate(frame raster.Frame, t classify.Thresholds, mode HoleMode) error {
	if _, _, err := frame.Dimensions(); err != nil {
		return err
	}
	if _, _, err := t.Bytes(); err != nil {
		return err
	}
	if m, ok := mode.(SampledPoints); ok && m.Stride < 1 {
		return fmt.Errorf("%w: %d", classify.ErrInvalidStride, m.Stride)
	}
	return nil
}
