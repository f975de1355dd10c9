package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/terrain-contour-mcp/internal/classify"
	"github.com/ironsheep/terrain-contour-mcp/internal/contour"
	imgutil "github.com/ironsheep/terrain-contour-mcp/internal/imaging"
	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
	"github.com/ironsheep/terrain-contour-mcp/internal/regions"
	"github.com/ironsheep/terrain-contour-mcp/internal/terrain"
	"github.com/ironsheep/terrain-contour-mcp/internal/vectorize"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "terrain_vectorize", "path_parse").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug().Str("tool", params.Name).Dur("elapsed", time.Since(start)).Msg("tool completed")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted parameters from the server defaults
//  3. Loads and prepares images through the cache as needed
//  4. Calls the pipeline, terrain, regions or contour function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	switch name {
	case "terrain_vectorize":
		return s.handleTerrainVectorize(args)
	case "terrain_generate":
		return s.handleTerrainGenerate(args)
	case "terrain_preview":
		return s.handleTerrainPreview(args)
	case "terrain_regions":
		return s.handleTerrainRegions(args)
	case "path_parse":
		return s.handlePathParse(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared Arguments ===

// thresholdArgs override the configured classifier defaults. Pointers distinguish
// "not given" from an explicit 0.
type thresholdArgs struct {
	FillThreshold   *float64 `json:"fill_threshold"`
	HoleThreshold   *float64 `json:"hole_threshold"`
	ThresholdPolicy string   `json:"threshold_policy"`
}

func (s *Server) thresholds(a thresholdArgs) (classify.Thresholds, error) {
	t := s.defaults.Thresholds()
	if a.FillThreshold != nil {
		t.Fill = *a.FillThreshold
	}
	if a.HoleThreshold != nil {
		t.Hole = *a.HoleThreshold
	}
	if a.ThresholdPolicy != "" {
		p, err := classify.ParsePolicy(a.ThresholdPolicy)
		if err != nil {
			return t, err
		}
		t.Policy = p
	}
	return t, nil
}

// holeModeArgs override the configured hole representation.
type holeModeArgs struct {
	HoleMode     string `json:"hole_mode"`
	Stride       int    `json:"stride"`
	SampleSource string `json:"sample_source"`
}

// vectorizeConfig starts from the server defaults and applies per-request
// overrides of the thresholds and the hole mode.
func (s *Server) vectorizeConfig(ta thresholdArgs, ha holeModeArgs) (vectorize.Config, error) {
	defaults := s.defaults
	if ha.HoleMode != "" {
		defaults.HoleMode = ha.HoleMode
	}
	if ha.SampleSource != "" {
		defaults.SampleSource = ha.SampleSource
	}
	if ha.Stride != 0 {
		defaults.Stride = ha.Stride
	}

	cfg, err := defaults.VectorizeConfig()
	if err != nil {
		return vectorize.Config{}, err
	}
	if cfg.Thresholds, err = s.thresholds(ta); err != nil {
		return vectorize.Config{}, err
	}
	return cfg, nil
}

type prepareArgs struct {
	Region    string        `json:"region"`
	Crop      *imgutil.Rect `json:"crop"`
	Scale     float64       `json:"scale"`
	Grayscale bool          `json:"grayscale"`
	Invert    bool          `json:"invert"`
	Smooth    float64       `json:"smooth"`
}

// loadPrepared loads path through the cache and applies the pre-pass. The cached
// image is never modified.
func (s *Server) loadPrepared(path string, a prepareArgs) (image.Image, raster.Frame, error) {
	if path == "" {
		return nil, raster.Frame{}, errors.New("path is required")
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, raster.Frame{}, err
	}
	prepared, err := imgutil.Prepare(img, imgutil.PrepareOptions{
		Rect:      a.Crop,
		Region:    a.Region,
		Grayscale: a.Grayscale,
		Invert:    a.Invert,
		Blur:      a.Smooth,
		Scale:     a.Scale,
	})
	if err != nil {
		return nil, raster.Frame{}, err
	}
	return prepared, imgutil.ToFrame(prepared), nil
}

// === Vectorization Handlers ===

type terrainVectorizeArgs struct {
	Path          string `json:"path"`
	Stats         bool   `json:"stats"`
	MinRegionArea int    `json:"min_region_area"`
	thresholdArgs
	holeModeArgs
	prepareArgs
}

// VectorizeResult is the terrain_vectorize response.
type VectorizeResult struct {
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Result *vectorize.Result `json:"result"`
}

func (s *Server) handleTerrainVectorize(args json.RawMessage) (interface{}, error) {
	var a terrainVectorizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg, err := s.vectorizeConfig(a.thresholdArgs, a.holeModeArgs)
	if err != nil {
		return nil, err
	}
	cfg.Stats = a.Stats
	cfg.MinRegionArea = a.MinRegionArea
	_, frame, err := s.loadPrepared(a.Path, a.prepareArgs)
	if err != nil {
		return nil, err
	}
	res, err := s.pipeline.Run(frame, cfg)
	if err != nil {
		return nil, err
	}
	return &VectorizeResult{Width: frame.Width, Height: frame.Height, Result: res}, nil
}

// === Generation Handlers ===

type terrainGenerateArgs struct {
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Seed         int64           `json:"seed"`
	Layers       []terrain.Layer `json:"layers"`
	Blur         float64         `json:"blur"`
	OutputPath   string          `json:"output_path"`
	IncludeImage *bool           `json:"include_image"`
	Vectorize    bool            `json:"vectorize"`
	thresholdArgs
	holeModeArgs
}

// GenerateResult is the terrain_generate response.
type GenerateResult struct {
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Seed       int64                 `json:"seed"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imgutil.EncodedImage `json:"image,omitempty"`
	Vectorized *vectorize.Result     `json:"vectorized,omitempty"`
}

func (s *Server) handleTerrainGenerate(args json.RawMessage) (interface{}, error) {
	var a terrainGenerateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := terrain.Generate(terrain.Options{
		Width:      a.Width,
		Height:     a.Height,
		Seed:       a.Seed,
		Layers:     a.Layers,
		BlurRadius: a.Blur,
	})
	if err != nil {
		return nil, err
	}

	out := &GenerateResult{Width: a.Width, Height: a.Height, Seed: a.Seed}

	if a.OutputPath != "" {
		if err := imaging.Save(img, a.OutputPath); err != nil {
			return nil, fmt.Errorf("failed to save heightmap: %w", err)
		}
		// A stale cached copy would shadow the new file.
		s.cache.Evict(a.OutputPath)
		out.OutputPath = a.OutputPath
	}

	include := a.OutputPath == ""
	if a.IncludeImage != nil {
		include = *a.IncludeImage
	}
	if include {
		if out.Image, err = imgutil.Encode(img); err != nil {
			return nil, err
		}
	}

	if a.Vectorize {
		cfg, err := s.vectorizeConfig(a.thresholdArgs, a.holeModeArgs)
		if err != nil {
			return nil, err
		}
		if out.Vectorized, err = s.pipeline.Run(imgutil.ToFrame(img), cfg); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// === Inspection Handlers ===

type terrainPreviewArgs struct {
	Path            string  `json:"path"`
	FillColor       string  `json:"fill_color"`
	HoleColor       string  `json:"hole_color"`
	PathColor       string  `json:"path_color"`
	Opacity         float64 `json:"opacity"`
	ShowPath        *bool   `json:"show_path"`
	GridSpacing     int     `json:"grid_spacing"`
	ShowCoordinates bool    `json:"show_coordinates"`
	thresholdArgs
	prepareArgs
}

func (s *Server) handleTerrainPreview(args json.RawMessage) (interface{}, error) {
	var a terrainPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.GridSpacing < 0 {
		return nil, fmt.Errorf("grid_spacing must be >= 0, got %d", a.GridSpacing)
	}

	t, err := s.thresholds(a.thresholdArgs)
	if err != nil {
		return nil, err
	}
	img, frame, err := s.loadPrepared(a.Path, a.prepareArgs)
	if err != nil {
		return nil, err
	}
	grids, err := s.pipeline.Grids(frame, t)
	if err != nil {
		return nil, err
	}

	var path string
	if a.ShowPath == nil || *a.ShowPath {
		if path, err = s.pipeline.TraceFill(grids); err != nil {
			return nil, err
		}
	}

	return imgutil.Preview(img, grids.Fill, grids.Hole, path, imgutil.PreviewOptions{
		FillColor:       a.FillColor,
		HoleColor:       a.HoleColor,
		PathColor:       a.PathColor,
		Opacity:         a.Opacity,
		GridSpacing:     a.GridSpacing,
		ShowCoordinates: a.ShowCoordinates,
	})
}

type terrainRegionsArgs struct {
	Path    string  `json:"path"`
	Cells   [][]int `json:"cells"`
	Grid    string  `json:"grid"`
	MinArea int     `json:"min_area"`
	thresholdArgs
	prepareArgs
}

func (s *Server) handleTerrainRegions(args json.RawMessage) (interface{}, error) {
	var a terrainRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	if a.Cells != nil {
		if a.Grid != "" {
			return nil, errors.New("grid applies to path input only; cells is already one grid")
		}
		g, err := cellGrid(a.Cells)
		if err != nil {
			return nil, err
		}
		return regions.Label(g, 1, a.MinArea), nil
	}

	t, err := s.thresholds(a.thresholdArgs)
	if err != nil {
		return nil, err
	}
	_, frame, err := s.loadPrepared(a.Path, a.prepareArgs)
	if err != nil {
		return nil, err
	}
	grids, err := s.pipeline.Grids(frame, t)
	if err != nil {
		return nil, err
	}

	switch a.Grid {
	case "", "fill":
		return regions.Label(grids.Fill, 1, a.MinArea), nil
	case "hole":
		return regions.Label(grids.Hole, 1, a.MinArea), nil
	default:
		return nil, fmt.Errorf("unknown grid %q (want fill or hole)", a.Grid)
	}
}

// cellGrid converts a JSON 0/1 matrix into a BinaryGrid.
func cellGrid(cells [][]int) (*raster.BinaryGrid, error) {
	rows := make([][]uint8, len(cells))
	for r, row := range cells {
		rows[r] = make([]uint8, len(row))
		for c, v := range row {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("cells[%d][%d] = %d, want 0 or 1", r, c, v)
			}
			rows[r][c] = uint8(v)
		}
	}
	g, err := raster.BinaryGridFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("cells must be a non-empty rectangular matrix: %w", err)
	}
	return g, nil
}

// === Path Utility Handlers ===

type pathParseArgs struct {
	SVGPath   string  `json:"svg_path"`
	Tolerance float64 `json:"tolerance"`
}

// PolygonInfo describes one ring of a parsed path.
type PolygonInfo struct {
	Points    contour.Polygon `json:"points"`
	Clockwise bool            `json:"clockwise"`
	Area      float64         `json:"area"`
}

// PathParseResult is the path_parse response.
type PathParseResult struct {
	Count        int           `json:"count"`
	TotalPoints  int           `json:"total_points"`
	Polygons     []PolygonInfo `json:"polygons"`
	Simplified   bool          `json:"simplified"`
	OriginalSize int           `json:"original_points"`
}

func (s *Server) handlePathParse(args json.RawMessage) (interface{}, error) {
	var a pathParseArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Tolerance < 0 {
		return nil, fmt.Errorf("tolerance must be >= 0, got %v", a.Tolerance)
	}

	polygons, err := contour.ParsePath(a.SVGPath)
	if err != nil {
		return nil, err
	}

	out := &PathParseResult{
		Count:      len(polygons),
		Polygons:   make([]PolygonInfo, 0, len(polygons)),
		Simplified: a.Tolerance > 0,
	}
	for _, p := range polygons {
		out.OriginalSize += len(p)
		if a.Tolerance > 0 {
			p = contour.SimplifyPolygon(p, a.Tolerance)
		}
		area := p.SignedArea()
		if area < 0 {
			area = -area
		}
		out.TotalPoints += len(p)
		out.Polygons = append(out.Polygons, PolygonInfo{
			Points:    p,
			Clockwise: p.Clockwise(),
			Area:      area,
		})
	}
	return out, nil
}
