package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/ironsheep/edge-filter/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_edge_filter").
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
// Input errors (bad shape, empty image, bad threshold) return code -32602;
// other tool failures return code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	fields := map[string]interface{}{"tool": params.Name, "elapsed_ms": time.Since(start).Milliseconds()}
	if err != nil {
		s.log.Error("tools", err, fields)
		if isInputError(err) {
			return s.errorResponse(req.ID, -32602, "Invalid tool arguments", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Info("tools", "tool call completed", fields)

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

func isInputError(err error) bool {
	return errors.Is(err, imaging.ErrInvalidShape) ||
		errors.Is(err, imaging.ErrEmptyImage) ||
		errors.Is(err, imaging.ErrInvalidThreshold)
}

// executeTool dispatches tool execution to the appropriate handler function.
// A panicking handler is reported as an ErrProcessing failure of that call so
// the server keeps serving.
func (s *Server) executeTool(name string, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("tools", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"tool":  name,
				"stack": string(debug.Stack()),
			})
			result, err = nil, fmt.Errorf("%w: %s: %v", imaging.ErrProcessing, name, r)
		}
	}()

	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_edge_filter":
		return s.handleImageEdgeFilter(args)
	case "image_edge_filter_raw":
		return s.handleImageEdgeFilterRaw(args)
	case "image_edge_overlay":
		return s.handleImageEdgeOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// filterArgs are the optional filter arguments shared by the filtering tools.
// Nil fields fall back to the server configuration.
type filterArgs struct {
	ThresholdLow  *float64 `json:"threshold_low"`
	ThresholdHigh *float64 `json:"threshold_high"`
	L2Gradient    *bool    `json:"l2_gradient"`
	BlurRadius    *float64 `json:"blur_radius"`
}

func (s *Server) filterOptions(a filterArgs) imaging.Options {
	opts := s.cfg.FilterOptions()
	if a.ThresholdLow != nil {
		opts.LowThreshold = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		opts.HighThreshold = *a.ThresholdHigh
	}
	if a.L2Gradient != nil {
		opts.L2Gradient = *a.L2Gradient
	}
	if a.BlurRadius != nil {
		opts.BlurRadius = *a.BlurRadius
	}
	return opts
}

// === Image Information ===

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

// === Edge Filtering ===

type imageEdgeFilterArgs struct {
	filterArgs
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
}

// edgeFilterResult extends the encoded edge map with the path it was saved to.
type edgeFilterResult struct {
	*imaging.EdgeDetectResult
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleImageEdgeFilter(args json.RawMessage) (interface{}, error) {
	var a imageEdgeFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	edges, err := s.filterFile(a.Path, a.filterArgs)
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodeEdgeMap(edges)
	if err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if err := imaging.SaveEdgeMap(edges, a.OutputPath); err != nil {
			return nil, err
		}
	}
	return &edgeFilterResult{EdgeDetectResult: encoded, OutputPath: a.OutputPath}, nil
}

// filterFile loads path through the cache and filters it.
func (s *Server) filterFile(path string, fa filterArgs) (*imaging.EdgeMap, error) {
	f, err := imaging.NewFilter(s.filterOptions(fa))
	if err != nil {
		return nil, err
	}
	src, err := imaging.LoadColorImage(s.cache, path, s.cfg.MaxDimension)
	if err != nil {
		return nil, err
	}
	return f.Apply(src)
}

type imageEdgeFilterRawArgs struct {
	filterArgs
	Shape      []int  `json:"shape"`
	DataBase64 string `json:"data_base64"`
}

// rawEdgeResult is the raw-buffer tool output: edge bytes plus their shape.
type rawEdgeResult struct {
	Shape      []int  `json:"shape"`
	EdgePixels int    `json:"edge_pixels"`
	DataBase64 string `json:"data_base64"`
}

func (s *Server) handleImageEdgeFilterRaw(args json.RawMessage) (interface{}, error) {
	var a imageEdgeFilterRawArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(a.DataBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: data_base64 is not valid base64: %v", imaging.ErrInvalidShape, err)
	}

	src, err := imaging.NewColorImage(a.Shape, data)
	if err != nil {
		return nil, err
	}
	f, err := imaging.NewFilter(s.filterOptions(a.filterArgs))
	if err != nil {
		return nil, err
	}
	edges, err := f.Apply(src)
	if err != nil {
		return nil, err
	}

	return &rawEdgeResult{
		Shape:      edges.Shape(),
		EdgePixels: edges.EdgeCount(),
		DataBase64: base64.StdEncoding.EncodeToString(edges.Pix),
	}, nil
}

type imageEdgeOverlayArgs struct {
	filterArgs
	Path    string   `json:"path"`
	Color   string   `json:"color"`
	Opacity *float64 `json:"opacity"`
}

func (s *Server) handleImageEdgeOverlay(args json.RawMessage) (interface{}, error) {
	var a imageEdgeOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = s.cfg.OverlayColor
	}
	opacity := s.cfg.OverlayOpacity
	if a.Opacity != nil {
		opacity = *a.Opacity
	}

	f, err := imaging.NewFilter(s.filterOptions(a.filterArgs))
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	src, err := imaging.PrepareImage(img, s.cfg.MaxDimension)
	if err != nil {
		return nil, err
	}
	edges, err := f.Apply(src)
	if err != nil {
		return nil, err
	}

	overlay, err := imaging.Overlay(src.Image(), edges, a.Color, opacity)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeOverlay(overlay, edges)
}
