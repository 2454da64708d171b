// Package server implements the MCP (Model Context Protocol) server for
// chart digitization tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the extraction
// pipeline through the MCP protocol. It's designed to work with Claude and
// other MCP-compatible clients, letting AI systems turn screenshotted line
// charts into numeric series.
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
// The server provides 10 tools organized into categories:
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Chart Preparation:
//   - chart_crop: Extract a rectangle or a named chart region
//   - chart_detect_plot: Find the plot area by ink projection
//
// Extraction Steps:
//   - chart_classify_color: Identify the series color
//   - chart_zero_line: Locate the zero reference gridline
//   - chart_read_axis_anchors: OCR y-axis labels into calibration anchors
//   - chart_digitize: Run the full pipeline to series plus features
//
// Verification Artifacts:
//   - chart_trace_overlay: Draw the traced path back onto the source image
//   - chart_preview: Render the extracted series as a clean line plot
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are
// cached by path and reused across multiple tool calls, avoiding redundant
// disk I/O. The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details
//
// Fatal extraction failures carry their failure kind (color_not_detected,
// zero_line_not_found, insufficient_trace, out_of_range_value) in the data
// object so clients can branch on the cause.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(digitizer.DefaultConfig(), logger)
//	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
