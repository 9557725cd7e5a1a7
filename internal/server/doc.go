// Package server implements the MCP (Model Context Protocol) server for the edge filter.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0, one request per line:
//   - Input: JSON-RPC requests on the reader passed to Run (stdin in practice)
//   - Output: JSON-RPC responses on the writer passed to Run (stdout)
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image file and get metadata
//   - image_edge_filter: Grayscale + Canny on an image file, PNG result
//   - image_edge_filter_raw: Grayscale + Canny on a raw [h, w, 3] BGR buffer
//   - image_edge_overlay: Edges drawn over the source image
//
// Every filtering tool accepts threshold_low, threshold_high, l2_gradient and
// blur_radius. Omitted arguments take the values from the server's config.Config.
//
// # Image Caching
//
// Decoded files are cached by path for the lifetime of the server, so
// repeated calls with different thresholds do not re-read the file.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: malformed arguments, invalid buffer shape, empty image, or bad threshold
//   - -32000: any other tool failure (missing file, backend failure, handler panic)
//   - -32601: unknown method
//   - -32700: request line is not valid JSON
//
// The data field carries the Go error string.
package server
