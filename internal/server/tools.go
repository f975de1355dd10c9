package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Vectorization
		{
			Name:        "terrain_vectorize",
			Description: "Classify a heightmap image into filled terrain and holes by thresholding its red channel, and return the outline of the terrain as an SVG-style path. Holes are returned either as a second path or as stride-sampled (row, col) points.",
			InputSchema: schema(
				merge(
					map[string]interface{}{
						"path": map[string]interface{}{
							"type":        "string",
							"description": "Absolute path to the heightmap image file",
						},
						"stats": map[string]interface{}{
							"type":        "boolean",
							"description": "Include cell counts and island/hole region statistics",
							"default":     false,
						},
						"min_region_area": map[string]interface{}{
							"type":        "integer",
							"description": "Ignore regions smaller than this many cells in stats",
							"default":     0,
						},
					},
					thresholdProperties(),
					holeModeProperties(),
					prepareProperties(),
				),
				"path",
			),
		},
		{
			Name:        "terrain_generate",
			Description: "Generate a greyscale heightmap from seeded layered Perlin noise. Optionally save it as PNG, return it as base64, and vectorize it in the same call.",
			InputSchema: schema(
				merge(
					map[string]interface{}{
						"width": map[string]interface{}{
							"type":        "integer",
							"description": "Heightmap width in pixels (1-4096)",
						},
						"height": map[string]interface{}{
							"type":        "integer",
							"description": "Heightmap height in pixels (1-4096)",
						},
						"seed": map[string]interface{}{
							"type":        "integer",
							"description": "Noise seed; equal seeds give equal maps",
							"default":     0,
						},
						"layers": map[string]interface{}{
							"type":        "array",
							"description": "Noise octaves. Default: sizes 0.3/0.1/0.05 with weights 1/1/0.5",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"size":   map[string]interface{}{"type": "number"},
									"weight": map[string]interface{}{"type": "number"},
								},
								"required": []string{"size", "weight"},
							},
						},
						"blur": map[string]interface{}{
							"type":        "number",
							"description": "Gaussian blur radius applied after generation. Default 0 (none)",
							"default":     0,
						},
						"output_path": map[string]interface{}{
							"type":        "string",
							"description": "Optional file to save the heightmap to (format from extension)",
						},
						"include_image": map[string]interface{}{
							"type":        "boolean",
							"description": "Return the heightmap as base64 PNG. Default true when output_path is empty",
						},
						"vectorize": map[string]interface{}{
							"type":        "boolean",
							"description": "Also run terrain_vectorize on the generated map",
							"default":     false,
						},
					},
					thresholdProperties(),
					holeModeProperties(),
				),
				"width", "height",
			),
		},
		{
			Name:        "terrain_preview",
			Description: "Render the classification of a heightmap as a PNG: the red channel as grey, fill cells tinted green, hole cells tinted blue, and the boundary of the traced terrain outline in red.",
			InputSchema: schema(
				merge(
					map[string]interface{}{
						"path": map[string]interface{}{
							"type":        "string",
							"description": "Absolute path to the heightmap image file",
						},
						"fill_color": map[string]interface{}{
							"type":        "string",
							"description": "Hex colour for fill cells (e.g. \"#3c9a4a\")",
						},
						"hole_color": map[string]interface{}{
							"type":        "string",
							"description": "Hex colour for hole cells (e.g. \"#2b5fb8\")",
						},
						"path_color": map[string]interface{}{
							"type":        "string",
							"description": "Hex colour for the traced outline (e.g. \"#ff3030\")",
						},
						"opacity": map[string]interface{}{
							"type":        "number",
							"description": "Tint strength 0-1. Default 0.5",
							"default":     0.5,
						},
						"show_path": map[string]interface{}{
							"type":        "boolean",
							"description": "Draw the traced outline. Default true",
							"default":     true,
						},
						"grid_spacing": map[string]interface{}{
							"type":        "integer",
							"description": "Draw coordinate grid lines every N pixels. Default 0 (none)",
							"default":     0,
						},
						"show_coordinates": map[string]interface{}{
							"type":        "boolean",
							"description": "Label grid intersections with coordinates",
							"default":     false,
						},
					},
					thresholdProperties(),
					prepareProperties(),
				),
				"path",
			),
		},
		{
			Name:        "terrain_regions",
			Description: "Label the 4-connected islands of the fill grid or the hole grid and return their count, area, bounding box and centre, largest first. Either classify an image (path) or label a 0/1 matrix directly (cells).",
			InputSchema: schema(
				merge(
					map[string]interface{}{
						"path": map[string]interface{}{
							"type":        "string",
							"description": "Absolute path to the heightmap image file. Required unless cells is given",
						},
						"cells": map[string]interface{}{
							"type":        "array",
							"description": "Rows of 0/1 cells to label instead of an image; 1 marks a region cell",
							"items": map[string]interface{}{
								"type":  "array",
								"items": map[string]interface{}{"type": "integer", "enum": []int{0, 1}},
							},
						},
						"grid": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"fill", "hole"},
							"description": "Which classified grid of path to label. Default fill",
							"default":     "fill",
						},
						"min_area": map[string]interface{}{
							"type":        "integer",
							"description": "Ignore regions smaller than this many cells",
							"default":     0,
						},
					},
					thresholdProperties(),
					prepareProperties(),
				),
			),
		},

		// Path utilities
		{
			Name:        "path_parse",
			Description: "Split an SVG-style path (M/L/H/V/Z) into closed polygons with orientation and area, optionally simplifying each ring.",
			InputSchema: schema(
				map[string]interface{}{
					"svg_path": map[string]interface{}{
						"type":        "string",
						"description": "Path string, e.g. \"M0 0H3V3H0ZM1 1V2H2V1Z\"",
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Simplification tolerance in cells. Default 0 (no simplification)",
						"default":     0,
					},
				},
				"svg_path",
			),
		},
	}
}

// thresholdProperties are shared by every tool that classifies an image.
func thresholdProperties() map[string]interface{} {
	return map[string]interface{}{
		"fill_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Cells with red >= round(value*255) are terrain. Default from TERRAIN_MCP_FILL_THRESHOLD (0.55)",
		},
		"hole_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Cells with red < round(value*255) are holes. Default from TERRAIN_MCP_HOLE_THRESHOLD (0.3)",
		},
		"threshold_policy": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"clamp", "reject"},
			"description": "Handling of thresholds outside 0-1. Default from TERRAIN_MCP_THRESHOLD_POLICY (clamp)",
		},
	}
}

// holeModeProperties are shared by every tool that runs the full pipeline.
func holeModeProperties() map[string]interface{} {
	return map[string]interface{}{
		"hole_mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"outline", "points"},
			"description": "Hole representation: a traced path or sampled points. Default from TERRAIN_MCP_HOLE_MODE (outline)",
		},
		"stride": map[string]interface{}{
			"type":        "integer",
			"description": "Sampling step in cells for hole_mode=points. Default from TERRAIN_MCP_STRIDE (8)",
			"minimum":     1,
		},
		"sample_source": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"hole", "fill"},
			"description": "For hole_mode=points: sample hole cells, or empty cells of the fill grid. Default from TERRAIN_MCP_SAMPLE_SOURCE (hole)",
		},
	}
}

// prepareProperties are shared by every tool that loads an image.
func prepareProperties() map[string]interface{} {
	return map[string]interface{}{
		"region": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
			"description": "Crop to a named region before classifying",
		},
		"crop": map[string]interface{}{
			"type":        "object",
			"description": "Crop to an explicit region before classifying; wins over region",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Resize factor applied after cropping. Default 1.0",
			"default":     1.0,
		},
		"grayscale": map[string]interface{}{
			"type":        "boolean",
			"description": "Classify luminance instead of the red channel",
			"default":     false,
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Swap high and low ground",
			"default":     false,
		},
		"smooth": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur sigma applied before classifying. Default 0 (none)",
			"default":     0,
		},
	}
}

func schema(properties map[string]interface{}, required ...string) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func merge(groups ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, g := range groups {
		for k, v := range g {
			out[k] = v
		}
	}
	return out
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
