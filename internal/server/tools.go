package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// filterProperties are the optional edge-filter arguments shared by every
// filtering tool.
func filterProperties() map[string]interface{} {
	return map[string]interface{}{
		"threshold_low": map[string]interface{}{
			"type":        "number",
			"description": "Low hysteresis threshold in Sobel gradient units (default 100)",
			"default":     100,
		},
		"threshold_high": map[string]interface{}{
			"type":        "number",
			"description": "High hysteresis threshold in Sobel gradient units (default 200)",
			"default":     200,
		},
		"l2_gradient": map[string]interface{}{
			"type":        "boolean",
			"description": "Use the Euclidean gradient magnitude instead of |Gx|+|Gy|",
			"default":     false,
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian pre-smoothing radius; 0 disables smoothing",
			"default":     0,
		},
	}
}

func withFilterProperties(props map[string]interface{}) map[string]interface{} {
	for k, v := range filterProperties() {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, and the [height, width, 3] shape used for edge filtering.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_filter",
			Description: "Convert an image file to grayscale and run Canny edge detection. Returns a black/white PNG (base64) where white pixels are edges. Optionally also writes the edge map to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withFilterProperties(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the edge map (format from extension)",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_filter_raw",
			Description: "Run the edge filter on a raw 8-bit BGR pixel buffer of shape [height, width, 3], row-major with no padding. Returns the [height, width] edge bytes (0 or 255) base64-encoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withFilterProperties(map[string]interface{}{
					"shape": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "Buffer shape: [height, width, channels]; channels must be 3",
					},
					"data_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded pixel bytes, B,G,R per pixel",
					},
				}),
				"required": []string{"shape", "data_base64"},
			},
		},
		{
			Name:        "image_edge_overlay",
			Description: "Detect edges in an image file and draw them over the original image in a highlight color. Returns a PNG (base64).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withFilterProperties(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Edge color as #RGB or #RRGGBB (default #FF0000)",
						"default":     "#FF0000",
					},
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Edge opacity in (0, 1] (default 1)",
						"default":     1.0,
					},
				}),
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
