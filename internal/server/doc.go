// Package server implements the MCP (Model Context Protocol) server for terrain
// vectorization tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the heightmap pipeline
// through the MCP protocol, so MCP-compatible clients can turn terrain images into
// outline paths, generate test terrain and inspect classifications.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Vectorization:
//   - terrain_vectorize: Threshold a heightmap and trace the terrain and hole outlines
//   - terrain_generate: Synthesise a Perlin heightmap, optionally save and vectorize it
//
// Inspection:
//   - terrain_preview: PNG overlay of fill cells, hole cells and the traced outline
//   - terrain_regions: Island and hole statistics of the classified grids
//
// Path Utilities:
//   - path_parse: Split a path into rings with orientation, area and simplification
//
// # Defaults
//
// Omitted threshold, hole mode and stride arguments come from the config.Config the
// server was created with, which in turn reads TERRAIN_MCP_* environment variables.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// terrain_generate evicts the entry for any file it overwrites.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed tools/call params),
//     -32700 (unparseable request line) or -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	srv := server.New(cfg, logger, server.WithVersion(Version))
//	return srv.Run()
package server
