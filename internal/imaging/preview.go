package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/channel"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/terrain-contour-mcp/internal/contour"
	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
)

// Default preview colours.
const (
	DefaultFillColor = "#3c9a4a"
	DefaultHoleColor = "#2b5fb8"
	DefaultPathColor = "#ff3030"
	DefaultOpacity   = 0.5
)

// EncodedImage is a PNG ready to embed in a tool response.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// PreviewOptions styles a classification preview. Empty colours use the defaults.
type PreviewOptions struct {
	FillColor string
	HoleColor string
	PathColor string

	// Opacity is the Lab blend factor toward the overlay colours, in (0, 1].
	// 0 selects DefaultOpacity.
	Opacity float64

	// GridSpacing draws coordinate lines every N pixels when > 0.
	GridSpacing int

	// ShowCoordinates labels grid intersections with "x,y".
	ShowCoordinates bool
}

// Preview renders the classification of img for visual inspection.
//
// The base layer is channel 0 of img as grey, the channel the pipeline classifies.
// Fill cells are blended toward FillColor and hole cells toward HoleColor in Lab
// space. path, when non-empty, is re-rasterized and its boundary pixels drawn in
// PathColor, so a mismatch between traced outline and fill cells is visible.
//
// fill and hole may be nil; otherwise their size must match img.
func Preview(img image.Image, fill, hole *raster.BinaryGrid, path string, opts PreviewOptions) (*EncodedImage, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("cannot preview empty image")
	}
	for _, g := range []*raster.BinaryGrid{fill, hole} {
		if g != nil && (g.Width != width || g.Height != height) {
			return nil, fmt.Errorf("grid %dx%d does not match image %dx%d", g.Width, g.Height, width, height)
		}
	}

	fillColor, err := parseColor(opts.FillColor, DefaultFillColor)
	if err != nil {
		return nil, err
	}
	holeColor, err := parseColor(opts.HoleColor, DefaultHoleColor)
	if err != nil {
		return nil, err
	}
	pathColor, err := parseColor(opts.PathColor, DefaultPathColor)
	if err != nil {
		return nil, err
	}
	opacity := opts.Opacity
	if opacity <= 0 {
		opacity = DefaultOpacity
	}
	if opacity > 1 {
		opacity = 1
	}

	grey := channel.Extract(img, channel.Red)
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := grey.Pix[y*grey.Stride+x]
			c := colorful.Color{R: float64(v) / 255, G: float64(v) / 255, B: float64(v) / 255}
			if fill != nil && fill.At(y, x) == 1 {
				c = c.BlendLab(fillColor, opacity)
			}
			if hole != nil && hole.At(y, x) == 1 {
				c = c.BlendLab(holeColor, opacity)
			}
			out.SetNRGBA(x, y, toNRGBA(c))
		}
	}

	if path != "" {
		mask, err := contour.Rasterize(path, width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to rasterize path: %w", err)
		}
		drawBoundary(out, contour.MaskToGrid(mask), toNRGBA(pathColor))
	}

	if opts.GridSpacing > 0 {
		drawGrid(out, opts.GridSpacing, opts.ShowCoordinates)
	}

	return Encode(out)
}

// Encode PNG-encodes img as base64.
func Encode(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func parseColor(hex, fallback string) (colorful.Color, error) {
	if hex == "" {
		hex = fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// drawBoundary paints the set cells of g that have an unset 4-neighbour or touch
// the image edge.
func drawBoundary(img *image.NRGBA, g *raster.BinaryGrid, c color.NRGBA) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.At(y, x) == 0 {
				continue
			}
			edge := x == 0 || y == 0 || x == g.Width-1 || y == g.Height-1 ||
				g.At(y, x-1) == 0 || g.At(y, x+1) == 0 || g.At(y-1, x) == 0 || g.At(y+1, x) == 0
			if edge {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func drawGrid(img *image.NRGBA, spacing int, labels bool) {
	b := img.Bounds()
	line := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	for x := spacing; x < b.Dx(); x += spacing {
		for y := 0; y < b.Dy(); y++ {
			img.SetNRGBA(x, y, line)
		}
	}
	for y := spacing; y < b.Dy(); y += spacing {
		for x := 0; x < b.Dx(); x++ {
			img.SetNRGBA(x, y, line)
		}
	}

	if labels {
		fg := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		bg := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
		for y := spacing; y < b.Dy(); y += spacing {
			for x := spacing; x < b.Dx(); x += spacing {
				drawLabel(img, x+2, y+2, fmt.Sprintf("%d,%d", x, y), fg, bg)
			}
		}
	}
}

// glyphs is a 3x5 pixel font covering grid labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text with its top-left corner at (x, y), clipped to the image.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	const charWidth, labelHeight = 4, 7
	b := img.Bounds()
	in := func(px, py int) bool {
		return px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < len(text)*charWidth; dx++ {
			if in(x+dx, y+dy) {
				img.SetNRGBA(x+dx, y+dy, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		for row, bits := range glyphs[ch] {
			for col, bit := range bits {
				if bit == '1' && in(cx+col, y+row) {
					img.SetNRGBA(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
