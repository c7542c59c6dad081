package server

import (
	"github.com/ironsheep/image-enhance-mcp/internal/enhance"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// regionNames lists the named regions accepted by preview and OCR tools.
var regionNames = []string{
	"full", "top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// paramsSchema describes the optional enhancement parameters object, built
// from the declared parameter ranges.
func paramsSchema() map[string]interface{} {
	props := map[string]interface{}{}
	for _, r := range enhance.Ranges() {
		prop := map[string]interface{}{
			"type":        r.Type,
			"description": r.Description,
			"minimum":     r.Min,
			"maximum":     r.Max,
			"default":     r.Preset,
		}
		if r.Type == "integer" {
			prop["minimum"] = int(r.Min)
			prop["maximum"] = int(r.Max)
			prop["default"] = int(r.Preset)
		}
		props[r.Name] = prop
	}
	return map[string]interface{}{
		"type":        "object",
		"description": "Enhancement parameters. Omitted fields use the preset values.",
		"properties":  props,
	}
}

func regionProperty(purpose string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Named region " + purpose + ". Default full",
		"enum":        regionNames,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, color depth and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_enhance_presets",
			Description: "List the enhancement parameters with their ranges, steps and preset values.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name: "image_enhance",
			Description: "Enhance an image: bilateral denoise, CLAHE contrast, saturation remap and sharpen. " +
				"Writes <name>_processed.jpg and <name>_processed.png to output_dir, or returns both base64-encoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"params": paramsSchema(),
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write the processed files to. If omitted, the encodings are returned inline",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_enhance_preview",
			Description: "Enhance an image and return a PNG preview, optionally cropped to a named region and scaled.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"params": paramsSchema(),
					"region": regionProperty("to preview"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for the preview (e.g., 0.5 to halve). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_enhance_compare",
			Description: "Enhance an image and report quality metrics before and after: sharpness, contrast, brightness, saturation, channel statistics and mean color difference.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"params": paramsSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel of the original or the enhanced image, as hex, RGB, HSV and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
					"enhanced": map[string]interface{}{
						"type":        "boolean",
						"description": "Sample the enhanced image instead of the original. Default false",
						"default":     false,
					},
					"params": paramsSchema(),
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_enhance_ocr",
			Description: "Run OCR on the original and the enhanced image and compare recognized text, word counts and confidence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"params": paramsSchema(),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (e.g., eng, deu). Defaults to the server's configured language",
					},
					"region": regionProperty("to read"),
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
