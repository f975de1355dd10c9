package vectorize

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/terrain-contour-mcp/internal/classify"
	"github.com/ironsheep/terrain-contour-mcp/internal/contour"
	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
)

var quiet = zerolog.New(io.Discard)

// uniformFrame returns a width x height frame with every channel set to v.
func uniformFrame(t *testing.T, width, height int, v byte) raster.Frame {
	t.Helper()
	pix := make([]byte, width*height*raster.BytesPerPixel)
	for i := range pix {
		pix[i] = v
	}
	return raster.Frame{Pix: pix, Width: width, Height: height}
}

// patternFrame expands 0/1 rows into pixels whose red channel is 0 or 255.
func patternFrame(t *testing.T, rows [][]uint8) raster.Frame {
	t.Helper()
	var pix []byte
	for _, row := range rows {
		for _, v := range row {
			pix = append(pix, v*255, 0, 0, 255)
		}
	}
	return raster.Frame{Pix: pix, Width: len(rows[0]), Height: len(rows)}
}

func TestRun_AllFilled(t *testing.T) {
	p := New(nil, quiet)
	frame := uniformFrame(t, 6, 5, 255)
	thresholds := classify.Thresholds{Fill: 0.5, Hole: 0.3}

	res, err := p.Run(frame, Config{Thresholds: thresholds})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Path() != "M0 0H6V5H0Z" {
		t.Errorf("Path: got %q, want single outer ring", res.Path())
	}
	holes, ok := res.HolePath()
	if !ok || holes != "" {
		t.Errorf("HolePath: got %q, %v; want empty outline", holes, ok)
	}
	if _, ok := res.HolePoints(); ok {
		t.Error("outline mode should not report hole points")
	}

	res, err = p.Run(frame, Config{Thresholds: thresholds, HoleMode: SampledPoints{Stride: 2}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	points, ok := res.HolePoints()
	if !ok {
		t.Fatal("points mode should report hole points")
	}
	if len(points) != 0 {
		t.Errorf("HolePoints: got %v, want empty", points)
	}
	if _, ok := res.HolePath(); ok {
		t.Error("points mode should not report a hole path")
	}
}

func TestRun_RoundTripPattern(t *testing.T) {
	pattern := [][]uint8{
		{1, 1, 0},
		{1, 1, 1},
		{0, 1, 1},
	}
	p := New(nil, quiet)

	grids, err := p.Grids(patternFrame(t, pattern), classify.Thresholds{Fill: 0.5, Hole: 0.5})
	if err != nil {
		t.Fatalf("Grids failed: %v", err)
	}
	for r, row := range pattern {
		for c, want := range row {
			if got := grids.Fill.At(r, c); got != want {
				t.Errorf("fill (%d,%d): got %d, want %d", r, c, got, want)
			}
		}
	}

	res, err := p.Run(patternFrame(t, pattern), Config{Thresholds: classify.Thresholds{Fill: 0.5, Hole: 0.5}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Path() != "M0 0H2V1H3V3H1V2H0Z" {
		t.Errorf("Path: got %q", res.Path())
	}
	if holes, _ := res.HolePath(); holes != "M2 0H3V1H2ZM0 2H1V3H0Z" {
		t.Errorf("HolePath: got %q", holes)
	}
}

func TestRun_TracerContract(t *testing.T) {
	var calls []*raster.BinaryGrid
	fake := contour.TracerFunc(func(g *raster.BinaryGrid, evenOdd bool) (string, error) {
		if !evenOdd {
			t.Error("pipeline must request the even-odd rule")
		}
		calls = append(calls, g)
		return "fake", nil
	})

	p := New(fake, quiet)
	res, err := p.Run(patternFrame(t, [][]uint8{{1, 0}}), Config{
		Thresholds: classify.Thresholds{Fill: 0.5, Hole: 0.5},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("tracer calls: got %d, want 2 (fill then hole)", len(calls))
	}
	if calls[0].Cells[0] != 1 || calls[0].Cells[1] != 0 {
		t.Errorf("first call should receive the fill grid, got %v", calls[0].Cells)
	}
	if calls[1].Cells[0] != 0 || calls[1].Cells[1] != 1 {
		t.Errorf("second call should receive the hole grid, got %v", calls[1].Cells)
	}
	if res.Path() != "fake" {
		t.Errorf("Path should be forwarded unchanged, got %q", res.Path())
	}
}

func TestTraceFill_TracesFillGridOnly(t *testing.T) {
	var calls int
	p := New(contour.TracerFunc(func(g *raster.BinaryGrid, evenOdd bool) (string, error) {
		calls++
		if g.Cells[0] != 1 || g.Cells[1] != 0 {
			t.Errorf("TraceFill should pass the fill grid, got %v", g.Cells)
		}
		return "fill", nil
	}), quiet)

	grids, err := p.Grids(patternFrame(t, [][]uint8{{1, 0}}), classify.Thresholds{Fill: 0.5, Hole: 0.5})
	if err != nil {
		t.Fatalf("Grids failed: %v", err)
	}
	path, err := p.TraceFill(grids)
	if err != nil {
		t.Fatalf("TraceFill failed: %v", err)
	}
	if path != "fill" || calls != 1 {
		t.Errorf("got %q after %d calls, want one fill trace", path, calls)
	}

	res, err := New(nil, quiet).Run(patternFrame(t, [][]uint8{{1, 0}}), Config{Thresholds: classify.Thresholds{Fill: 0.5, Hole: 0.5}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	direct, _ := New(nil, quiet).TraceFill(grids)
	if direct != res.Path() {
		t.Errorf("TraceFill %q differs from Run path %q", direct, res.Path())
	}
}

func TestRun_TracerErrorPropagates(t *testing.T) {
	boom := errors.New("tracer exploded")
	p := New(contour.TracerFunc(func(*raster.BinaryGrid, bool) (string, error) {
		return "", boom
	}), quiet)

	res, err := p.Run(uniformFrame(t, 2, 2, 255), Config{Thresholds: classify.Thresholds{Fill: 0.5}})
	if !errors.Is(err, boom) {
		t.Errorf("error: got %v, want wrapped tracer error", err)
	}
	if res != nil {
		t.Error("no partial result on tracer failure")
	}
}

func TestRun_InvalidInput(t *testing.T) {
	traced := false
	p := New(contour.TracerFunc(func(*raster.BinaryGrid, bool) (string, error) {
		traced = true
		return "", nil
	}), quiet)

	tests := []struct {
		name    string
		frame   raster.Frame
		cfg     Config
		wantErr error
	}{
		{"zero width", raster.Frame{Pix: make([]byte, 16), Width: 0}, Config{}, raster.ErrInvalidWidth},
		{"length not divisible by 4", raster.Frame{Pix: make([]byte, 10), Width: 1}, Config{}, raster.ErrInvalidBufferLength},
		{"height mismatch", raster.Frame{Pix: make([]byte, 16), Width: 2, Height: 3}, Config{}, raster.ErrInvalidBufferLength},
		{
			"rejected threshold",
			uniformFrame(t, 2, 2, 0),
			Config{Thresholds: classify.Thresholds{Fill: 1.2, Policy: classify.RejectOutOfRange}},
			classify.ErrThresholdOutOfRange,
		},
		{
			"zero stride",
			uniformFrame(t, 2, 2, 0),
			Config{HoleMode: SampledPoints{Stride: 0}},
			classify.ErrInvalidStride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traced = false
			res, err := p.Run(tt.frame, tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error: got %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Error("expected nil result")
			}
			if traced {
				t.Error("tracer must not run on invalid input")
			}
		})
	}
}

func TestRun_ClampedThresholds(t *testing.T) {
	p := New(nil, quiet)
	res, err := p.Run(uniformFrame(t, 2, 2, 255), Config{
		Thresholds: classify.Thresholds{Fill: 3, Hole: -3},
		Stats:      true,
	})
	if err != nil {
		t.Fatalf("clamping should not fail: %v", err)
	}
	if s := res.Stats(); s.FillByte != 255 || s.HoleByte != 0 {
		t.Errorf("bytes: got %d/%d, want 255/0", s.FillByte, s.HoleByte)
	}
}

func TestRun_SampledPointsSources(t *testing.T) {
	// Row 0 is dark, row 1 mid grey, row 2 bright.
	var pix []byte
	for _, v := range []byte{10, 128, 250} {
		for c := 0; c < 4; c++ {
			pix = append(pix, v, v, v, 255)
		}
	}
	frame := raster.Frame{Pix: pix, Width: 4, Height: 3}
	thresholds := classify.Thresholds{Fill: 0.8, Hole: 0.2}
	p := New(nil, quiet)

	res, err := p.Run(frame, Config{Thresholds: thresholds, HoleMode: SampledPoints{Stride: 2}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	holes, _ := res.HolePoints()
	// Only row 0 is below the hole threshold; visited columns 0 and 2.
	assertPoints(t, holes, []uint32{0, 0, 0, 2})

	res, err = p.Run(frame, Config{Thresholds: thresholds, HoleMode: SampledPoints{Stride: 2, Source: EmptyFillCells}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	empty, _ := res.HolePoints()
	// Rows 0 and 1 are not filled; stride 2 visits rows 0 and 2.
	assertPoints(t, empty, []uint32{0, 0, 0, 2})

	res, err = p.Run(frame, Config{Thresholds: thresholds, HoleMode: &SampledPoints{Stride: 1}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if pts, ok := res.HolePoints(); !ok || len(pts) != 8 {
		t.Errorf("pointer mode: got %v, %v; want 4 pairs", pts, ok)
	}
}

func assertPoints(t *testing.T, got, want []uint32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("points: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("points: got %v, want %v", got, want)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	pix := make([]byte, 16*9*4)
	for i := range pix {
		pix[i] = byte((i * 37) % 251)
	}
	frame := raster.Frame{Pix: pix, Width: 16}
	p := New(nil, quiet)

	for _, mode := range []HoleMode{TracedOutline{}, SampledPoints{Stride: 3}} {
		cfg := Config{Thresholds: classify.Thresholds{Fill: 0.55, Hole: 0.3}, HoleMode: mode}
		a, err := p.Run(frame, cfg)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		b, err := p.Run(frame, cfg)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		ja, _ := json.Marshal(a)
		jb, _ := json.Marshal(b)
		if string(ja) != string(jb) {
			t.Errorf("%s: runs differ\n%s\n%s", mode, ja, jb)
		}
	}
}

func TestResult_HolePointsIsCopy(t *testing.T) {
	p := New(nil, quiet)
	res, err := p.Run(uniformFrame(t, 3, 3, 0), Config{
		Thresholds: classify.Thresholds{Fill: 0.5, Hole: 0.5},
		HoleMode:   SampledPoints{Stride: 1},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	pts, _ := res.HolePoints()
	pts[0] = 99
	again, _ := res.HolePoints()
	if again[0] == 99 {
		t.Error("HolePoints must not expose internal storage")
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	p := New(nil, quiet)
	frame := uniformFrame(t, 2, 2, 0)
	thresholds := classify.Thresholds{Fill: 0.5, Hole: 0.5}

	res, _ := p.Run(frame, Config{Thresholds: thresholds, HoleMode: SampledPoints{Stride: 1}, Stats: true})
	var decoded struct {
		Path  string   `json:"path"`
		Mode  string   `json:"hole_mode"`
		Holes []uint32 `json:"holes"`
		Stats *Stats   `json:"stats"`
	}
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("holes should decode as integers: %v (%s)", err, b)
	}
	if decoded.Path != "" || len(decoded.Holes) != 8 {
		t.Errorf("decoded: %+v", decoded)
	}
	if decoded.Mode != "points(stride=1,source=hole)" {
		t.Errorf("hole_mode: got %q", decoded.Mode)
	}
	if decoded.Stats == nil || decoded.Stats.HoleCells != 4 || decoded.Stats.HoleRegions.Count != 1 {
		t.Errorf("stats: got %+v", decoded.Stats)
	}

	res, _ = p.Run(frame, Config{Thresholds: thresholds})
	var outline map[string]interface{}
	b, _ = json.Marshal(res)
	if err := json.Unmarshal(b, &outline); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if outline["holes"] != "M0 0H2V2H0Z" {
		t.Errorf("holes: got %v", outline["holes"])
	}
	if _, ok := outline["stats"]; ok {
		t.Error("stats should be omitted when not requested")
	}
}

func TestParseHoleMode(t *testing.T) {
	tests := []struct {
		mode, source string
		stride       int
		want         HoleMode
		wantErr      bool
	}{
		{"", "", 0, TracedOutline{}, false},
		{"outline", "", 5, TracedOutline{}, false},
		{"points", "", 4, SampledPoints{Stride: 4}, false},
		{"POINTS", "fill", 2, SampledPoints{Stride: 2, Source: EmptyFillCells}, false},
		{"points", "water", 2, nil, true},
		{"mesh", "", 1, nil, true},
	}

	for _, tt := range tests {
		got, err := ParseHoleMode(tt.mode, tt.stride, tt.source)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHoleMode(%q,%d,%q): err %v", tt.mode, tt.stride, tt.source, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHoleMode(%q,%d,%q): got %v, want %v", tt.mode, tt.stride, tt.source, got, tt.want)
		}
	}
}
