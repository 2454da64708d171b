package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// rectSchema is the shared JSON schema for a 0-based pixel rectangle with
// inclusive left/top and exclusive right/bottom edges.
func rectSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{
				"type":        "integer",
				"description": "Left edge X coordinate (0-based, inclusive)",
			},
			"y1": map[string]interface{}{
				"type":        "integer",
				"description": "Top edge Y coordinate (0-based, inclusive)",
			},
			"x2": map[string]interface{}{
				"type":        "integer",
				"description": "Right edge X coordinate (exclusive)",
			},
			"y2": map[string]interface{}{
				"type":        "integer",
				"description": "Bottom edge Y coordinate (exclusive)",
			},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// pathProperty is the shared schema for the image path argument.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the chart image file (PNG, JPEG, GIF, TIFF, BMP, or WebP)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a chart image file and return its dimensions and format. The image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Chart Preparation
		{
			Name:        "chart_crop",
			Description: "Crop a region from a chart image and return it as base64-encoded PNG. Give an explicit rect, a named region (plot, y-axis, x-axis, legend, left-half, right-half, full), or region 'auto' to crop the detected plot area.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Named region to crop. One of: plot, y-axis, x-axis, legend, left-half, right-half, full, auto",
						"enum":        []string{"plot", "y-axis", "x-axis", "legend", "left-half", "right-half", "full", "auto"},
					},
					"rect": rectSchema("Explicit crop rectangle. Takes precedence over region"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "chart_detect_plot",
			Description: "Detect the plot area of a chart image by projecting ink onto both axes. Returns the bounding rectangle of the drawn content (exclusive right/bottom edges).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Extraction Steps
		{
			Name:        "chart_classify_color",
			Description: "Identify the dominant saturated series color inside the plot area. Returns the matched palette color name and the number of mask pixels it covers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"bounds": rectSchema("Plot area bounds. Auto-detected when omitted"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "chart_zero_line",
			Description: "Locate the horizontal zero reference gridline inside the plot area. Returns the sub-pixel row estimate and its darkness score.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"bounds": rectSchema("Plot area bounds. Auto-detected when omitted"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "chart_read_axis_anchors",
			Description: "OCR the y-axis tick labels and derive two calibration anchors (pixel row plus numeric value each). Requires the tesseract library to be installed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"rect": rectSchema("Label strip to read. Defaults to the left 15% of the image"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "chart_digitize",
			Description: "Run the full extraction pipeline: classify the series color, locate the zero line, trace the line column by column, clean the series, and derive features (max, min, terminal value, first significant rise). Returns the ordered numeric series with calibration details.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"bounds": rectSchema("Plot area bounds. Auto-detected when omitted"),
					"anchors": map[string]interface{}{
						"type":        "object",
						"description": "Two known gridlines overriding the calibrated constant scale",
						"properties": map[string]interface{}{
							"row1":   map[string]interface{}{"type": "number", "description": "Pixel row of the first anchor"},
							"value1": map[string]interface{}{"type": "number", "description": "Domain value at the first anchor"},
							"row2":   map[string]interface{}{"type": "number", "description": "Pixel row of the second anchor"},
							"value2": map[string]interface{}{"type": "number", "description": "Domain value at the second anchor"},
						},
						"required": []string{"row1", "value1", "row2", "value2"},
					},
					"ocr_anchors": map[string]interface{}{
						"type":        "boolean",
						"description": "Read calibration anchors off the y-axis labels via OCR. Ignored when explicit anchors are given. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Verification Artifacts
		{
			Name:        "chart_trace_overlay",
			Description: "Digitize the chart and render the traced path back onto the source image as base64-encoded PNG: tick marks along the trace, the zero line, and a label at the maximum. Extrapolated samples are drawn at half intensity.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"bounds": rectSchema("Plot area bounds. Auto-detected when omitted"),
					"trace_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for trace ticks (e.g., '#00CC00'). Default green",
						"default":     "#00CC00",
					},
					"zero_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for the zero line (e.g., '#FF0000'). Default red",
						"default":     "#FF0000",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "chart_preview",
			Description: "Digitize the chart and render the extracted series as a clean line plot (base64-encoded PNG). Traced samples are drawn solid, extrapolated samples dashed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"bounds": rectSchema("Plot area bounds. Auto-detected when omitted"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Render width in pixels. Default 800",
						"default":     800,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Render height in pixels. Default 400",
						"default":     400,
					},
				},
				"required": []string{"path"},
			},
		},
	}
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
