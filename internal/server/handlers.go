package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/cliffwatch/chart-digitizer/internal/calibrate"
	"github.com/cliffwatch/chart-digitizer/internal/digitizer"
	"github.com/cliffwatch/chart-digitizer/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "chart_digitize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified
// tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000;
// fatal extraction failures additionally carry their failure kind so clients
// can distinguish "no pink line here" from a crashed tool.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var ee *digitizer.ExtractionError
		if errors.As(err, &ee) {
			return &MCPResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error: &MCPError{
					Code:    -32000,
					Message: "Extraction failed",
					Data: map[string]interface{}{
						"kind":    string(ee.Kind),
						"message": ee.Error(),
					},
				},
			}
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Chart Preparation
	case "chart_crop":
		return s.handleChartCrop(args)
	case "chart_detect_plot":
		return s.handleChartDetectPlot(args)

	// Extraction Steps
	case "chart_classify_color":
		return s.handleChartClassifyColor(args)
	case "chart_zero_line":
		return s.handleChartZeroLine(args)
	case "chart_read_axis_anchors":
		return s.handleChartReadAxisAnchors(args)
	case "chart_digitize":
		return s.handleChartDigitize(args)

	// Verification Artifacts
	case "chart_trace_overlay":
		return s.handleChartTraceOverlay(args)
	case "chart_preview":
		return s.handleChartPreview(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// rectArgs is the JSON shape for an optional pixel rectangle.
type rectArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// plotBounds resolves the plot bounds for an image: an explicit rectangle
// when the caller supplied one, otherwise ink-projection detection.
func (s *Server) plotBounds(img image.Image, rect *rectArgs) (digitizer.PlotBounds, error) {
	if rect != nil {
		return digitizer.PlotBounds{Left: rect.X1, Top: rect.Y1, Right: rect.X2, Bottom: rect.Y2}, nil
	}
	region, err := imaging.DetectPlotBounds(img)
	if err != nil {
		return digitizer.PlotBounds{}, fmt.Errorf("plot bounds not given and auto-detection failed: %w", err)
	}
	return digitizer.PlotBounds{Left: region.X1, Top: region.Y1, Right: region.X2, Bottom: region.Y2}, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Chart Preparation Handlers ===

type chartCropArgs struct {
	Path   string    `json:"path"`
	Region string    `json:"region"`
	Rect   *rectArgs `json:"rect,omitempty"`
	Scale  float64   `json:"scale"`
}

func (s *Server) handleChartCrop(args json.RawMessage) (interface{}, error) {
	var a chartCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	switch {
	case a.Rect != nil:
		return imaging.Crop(img, a.Rect.X1, a.Rect.Y1, a.Rect.X2, a.Rect.Y2, a.Scale)
	case a.Region == "auto":
		region, err := imaging.DetectPlotBounds(img)
		if err != nil {
			return nil, err
		}
		return imaging.Crop(img, region.X1, region.Y1, region.X2, region.Y2, a.Scale)
	case a.Region != "":
		return imaging.CropChartRegion(img, a.Region, a.Scale)
	default:
		return nil, fmt.Errorf("either rect or region is required")
	}
}

func (s *Server) handleChartDetectPlot(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.DetectPlotBounds(img)
}

// === Extraction Step Handlers ===

type chartBoundsArgs struct {
	Path   string    `json:"path"`
	Bounds *rectArgs `json:"bounds,omitempty"`
}

// classifyResult is the chart_classify_color payload.
type classifyResult struct {
	Color      string `json:"color"`
	MaskPixels int    `json:"mask_pixels"`
}

func (s *Server) handleChartClassifyColor(args json.RawMessage) (interface{}, error) {
	var a chartBoundsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	bounds, err := s.plotBounds(img, a.Bounds)
	if err != nil {
		return nil, err
	}
	if err := bounds.Validate(img); err != nil {
		return nil, err
	}

	profile, mask, err := digitizer.ClassifySeriesColor(img, bounds, s.engine.Config())
	if err != nil {
		return nil, err
	}
	return &classifyResult{Color: profile.Name, MaskPixels: mask.Count()}, nil
}

func (s *Server) handleChartZeroLine(args json.RawMessage) (interface{}, error) {
	var a chartBoundsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	bounds, err := s.plotBounds(img, a.Bounds)
	if err != nil {
		return nil, err
	}
	if err := bounds.Validate(img); err != nil {
		return nil, err
	}

	zero, err := digitizer.LocateZeroLine(img, bounds, s.engine.Config())
	if err != nil {
		return nil, err
	}
	return &zero, nil
}

type readAnchorsArgs struct {
	Path string    `json:"path"`
	Rect *rectArgs `json:"rect,omitempty"`
}

func (s *Server) handleChartReadAxisAnchors(args json.RawMessage) (interface{}, error) {
	var a readAnchorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	// Default to the y-axis label strip left of the plot.
	rect := a.Rect
	if rect == nil {
		b := img.Bounds()
		rect = &rectArgs{X1: 0, Y1: 0, X2: b.Dx() * 15 / 100, Y2: b.Dy()}
	}
	return calibrate.ReadAxisAnchors(img, rect.X1, rect.Y1, rect.X2, rect.Y2)
}

type chartDigitizeArgs struct {
	Path    string    `json:"path"`
	Bounds  *rectArgs `json:"bounds,omitempty"`
	Anchors *struct {
		Row1   float64 `json:"row1"`
		Value1 float64 `json:"value1"`
		Row2   float64 `json:"row2"`
		Value2 float64 `json:"value2"`
	} `json:"anchors,omitempty"`

	// OCRAnchors reads axis anchors off the y-axis labels before
	// digitizing. Explicit anchors win over OCR ones.
	OCRAnchors bool `json:"ocr_anchors"`
}

func (s *Server) handleChartDigitize(args json.RawMessage) (interface{}, error) {
	var a chartDigitizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	bounds, err := s.plotBounds(img, a.Bounds)
	if err != nil {
		return nil, err
	}

	var anchors *digitizer.AxisAnchors
	switch {
	case a.Anchors != nil:
		anchors = &digitizer.AxisAnchors{
			Row1:   a.Anchors.Row1,
			Value1: a.Anchors.Value1,
			Row2:   a.Anchors.Row2,
			Value2: a.Anchors.Value2,
		}
	case a.OCRAnchors:
		b := img.Bounds()
		anchors, err = calibrate.ReadAxisAnchors(img, 0, 0, b.Dx()*15/100, b.Dy())
		if err != nil {
			// OCR calibration is best effort; the constant scale still
			// produces a usable series.
			s.log.WithError(err).Warn("anchor OCR failed, using calibrated scale")
			anchors = nil
		}
	}

	return s.engine.Digitize(img, bounds, anchors)
}

// === Verification Artifact Handlers ===

type chartTraceOverlayArgs struct {
	Path       string    `json:"path"`
	Bounds     *rectArgs `json:"bounds,omitempty"`
	TraceColor string    `json:"trace_color"`
	ZeroColor  string    `json:"zero_color"`
}

func (s *Server) handleChartTraceOverlay(args json.RawMessage) (interface{}, error) {
	var a chartTraceOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.TraceColor == "" {
		a.TraceColor = "#00CC00"
	}
	if a.ZeroColor == "" {
		a.ZeroColor = "#FF0000"
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	bounds, err := s.plotBounds(img, a.Bounds)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Digitize(img, bounds, nil)
	if err != nil {
		return nil, err
	}

	traced, extrapolated := seriesToPixels(result)
	return imaging.TraceOverlay(img, traced, extrapolated, int(result.ZeroRow+0.5), a.TraceColor, a.ZeroColor)
}

type chartPreviewArgs struct {
	Path   string    `json:"path"`
	Bounds *rectArgs `json:"bounds,omitempty"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

func (s *Server) handleChartPreview(args json.RawMessage) (interface{}, error) {
	var a chartPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	bounds, err := s.plotBounds(img, a.Bounds)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Digitize(img, bounds, nil)
	if err != nil {
		return nil, err
	}

	xs := make([]float64, len(result.Series))
	ys := make([]float64, len(result.Series))
	extrapolatedFrom := len(result.Series)
	for i, p := range result.Series {
		xs[i] = float64(p.X)
		ys[i] = p.Value
		if p.Extrapolated && i < extrapolatedFrom {
			extrapolatedFrom = i
		}
	}
	title := fmt.Sprintf("%s series (%d samples)", result.Color, len(result.Series))
	return imaging.RenderSeriesPreview(xs, ys, extrapolatedFrom, a.Width, a.Height, title)
}

// seriesToPixels maps the digitized series back into pixel coordinates,
// split into traced and extrapolated points.
func seriesToPixels(result *digitizer.Result) (traced, extrapolated []image.Point) {
	for _, p := range result.Series {
		y := int(result.ZeroRow - p.Value/result.Scale + 0.5)
		pt := image.Point{X: p.X, Y: y}
		if p.Extrapolated {
			extrapolated = append(extrapolated, pt)
		} else {
			traced = append(traced, pt)
		}
	}
	return traced, extrapolated
}
