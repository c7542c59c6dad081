// Package server implements the MCP (Model Context Protocol) server for the
// image enhancement tools.
//
// The server speaks JSON-RPC 2.0 over stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//   - Logs: logrus entries on stderr
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - image_enhance_presets: Parameter ranges and preset values
//   - image_enhance: Run the pipeline and export JPEG + PNG
//   - image_enhance_preview: Enhanced PNG preview of a named region
//   - image_enhance_compare: Quality metrics before and after
//   - image_sample_color: Color at a pixel, original or enhanced
//   - image_enhance_ocr: OCR confidence before and after
//
// Every enhancement tool accepts an optional "params" object with
// denoise_strength, clip_limit, sharpen_size and saturation. Omitted fields
// take the preset values; values outside the declared ranges are rejected.
//
// # Image Caching
//
// Decoded images are cached by path and modification time. A file that
// changes on disk is decoded again on the next call, and files written by
// image_enhance are evicted so later calls see the new content.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: undecodable arguments, missing path, or out-of-range params
//   - -32601: unknown method
//   - -32000: any other tool failure (I/O, decoding, timeout, OCR)
//
// The data field carries the Go error string.
//
// # Usage
//
//	cfg, err := server.ConfigFromEnv(os.Getenv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
