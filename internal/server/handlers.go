package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-enhance-mcp/internal/enhance"
	"github.com/ironsheep/image-enhance-mcp/internal/imaging"
	"github.com/ironsheep/image-enhance-mcp/internal/ocr"
)

// errInvalidArguments marks tool arguments that do not decode or are missing.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_enhance").
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
// Out-of-range enhancement parameters and undecodable arguments return
// -32602; every other tool failure returns -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)

	entry := s.log.WithFields(logrus.Fields{
		"tool":        params.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("tool call failed")
		if errors.Is(err, enhance.ErrInvalidParameter) || errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	entry.Info("tool call")

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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_enhance_presets":
		return s.handleEnhancePresets()
	case "image_enhance":
		return s.handleEnhance(ctx, args)
	case "image_enhance_preview":
		return s.handleEnhancePreview(ctx, args)
	case "image_enhance_compare":
		return s.handleEnhanceCompare(ctx, args)
	case "image_sample_color":
		return s.handleSampleColor(ctx, args)
	case "image_enhance_ocr":
		return s.handleEnhanceOCR(ctx, args)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments into v. Missing arguments decode as
// an empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

func requirePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	return nil
}

// paramsArg is the optional "params" object shared by the enhance tools.
// Omitted fields take their preset value.
type paramsArg struct {
	DenoiseStrength *int     `json:"denoise_strength"`
	ClipLimit       *float64 `json:"clip_limit"`
	SharpenSize     *int     `json:"sharpen_size"`
	Saturation      *float64 `json:"saturation"`
}

// resolve merges a over the preset and range-checks the result.
func (a *paramsArg) resolve() (enhance.Params, error) {
	p := enhance.Preset()
	if a != nil {
		if a.DenoiseStrength != nil {
			p.DenoiseStrength = *a.DenoiseStrength
		}
		if a.ClipLimit != nil {
			p.ClipLimit = *a.ClipLimit
		}
		if a.SharpenSize != nil {
			p.SharpenSize = *a.SharpenSize
		}
		if a.Saturation != nil {
			p.Saturation = *a.Saturation
		}
	}
	if err := p.Validate(); err != nil {
		return enhance.Params{}, err
	}
	return p, nil
}

// enhanceFile loads path and runs the configured backend over it.
func (s *Server) enhanceFile(ctx context.Context, path string, pa *paramsArg) (src image.Image, out *image.RGBA, p enhance.Params, err error) {
	if err := requirePath(path); err != nil {
		return nil, nil, p, err
	}
	p, err = pa.resolve()
	if err != nil {
		return nil, nil, p, err
	}
	src, err = s.cache.Load(path)
	if err != nil {
		return nil, nil, p, err
	}

	start := time.Now()
	out, err = s.proc.Process(ctx, src, p)
	if err != nil {
		return nil, nil, p, fmt.Errorf("enhancement failed: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"path":       path,
		"params":     p.String(),
		"width":      out.Rect.Dx(),
		"height":     out.Rect.Dy(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("enhanced image")

	return src, out, p, nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Enhancement ===

type presetsResult struct {
	Preset     enhance.Params  `json:"preset"`
	Parameters []enhance.Range `json:"parameters"`
	Backend    string          `json:"backend"`
}

func (s *Server) handleEnhancePresets() (interface{}, error) {
	return &presetsResult{
		Preset:     enhance.Preset(),
		Parameters: enhance.Ranges(),
		Backend:    s.cfg.Backend,
	}, nil
}

type enhanceArgs struct {
	Path      string     `json:"path"`
	Params    *paramsArg `json:"params"`
	OutputDir string     `json:"output_dir"`
}

type enhanceResult struct {
	Source string         `json:"source"`
	Params enhance.Params `json:"params"`
	*imaging.ExportResult
}

func (s *Server) handleEnhance(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a enhanceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	_, out, p, err := s.enhanceFile(ctx, a.Path, a.Params)
	if err != nil {
		return nil, err
	}

	exp, err := imaging.Export(out, a.Path, a.OutputDir, s.cfg.JPEGQuality)
	if err != nil {
		return nil, err
	}
	if a.OutputDir != "" {
		for _, enc := range exp.Encodings {
			s.cache.Evict(enc.Path)
		}
	}

	return &enhanceResult{Source: a.Path, Params: p, ExportResult: exp}, nil
}

type enhancePreviewArgs struct {
	Path   string     `json:"path"`
	Params *paramsArg `json:"params"`
	Region string     `json:"region"`
	Scale  float64    `json:"scale"`
}

type previewResult struct {
	Params enhance.Params `json:"params"`
	*imaging.PreviewResult
}

func (s *Server) handleEnhancePreview(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a enhancePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	_, out, p, err := s.enhanceFile(ctx, a.Path, a.Params)
	if err != nil {
		return nil, err
	}
	prev, err := imaging.Preview(out, a.Region, a.Scale)
	if err != nil {
		return nil, err
	}
	return &previewResult{Params: p, PreviewResult: prev}, nil
}

type enhanceCompareArgs struct {
	Path   string     `json:"path"`
	Params *paramsArg `json:"params"`
}

type compareResult struct {
	Params enhance.Params `json:"params"`
	*imaging.Comparison
}

func (s *Server) handleEnhanceCompare(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a enhanceCompareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	src, out, p, err := s.enhanceFile(ctx, a.Path, a.Params)
	if err != nil {
		return nil, err
	}
	cmp, err := imaging.Compare(src, out)
	if err != nil {
		return nil, err
	}
	return &compareResult{Params: p, Comparison: cmp}, nil
}

type sampleColorArgs struct {
	Path     string     `json:"path"`
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Enhanced bool       `json:"enhanced"`
	Params   *paramsArg `json:"params"`
}

type sampleColorResult struct {
	Enhanced bool            `json:"enhanced"`
	Params   *enhance.Params `json:"params,omitempty"`
	*imaging.ColorResult
}

func (s *Server) handleSampleColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}

	if !a.Enhanced {
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		c, err := imaging.SampleColor(img, a.X, a.Y)
		if err != nil {
			return nil, err
		}
		return &sampleColorResult{ColorResult: c}, nil
	}

	_, out, p, err := s.enhanceFile(ctx, a.Path, a.Params)
	if err != nil {
		return nil, err
	}
	c, err := imaging.SampleColor(out, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return &sampleColorResult{Enhanced: true, Params: &p, ColorResult: c}, nil
}

type enhanceOCRArgs struct {
	Path     string     `json:"path"`
	Params   *paramsArg `json:"params"`
	Language string     `json:"language"`
	Region   string     `json:"region"`
}

type ocrResult struct {
	Params enhance.Params `json:"params"`
	Region string         `json:"region"`
	*ocr.Comparison
}

func (s *Server) handleEnhanceOCR(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a enhanceOCRArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.cfg.OCRLanguage
	}

	src, out, p, err := s.enhanceFile(ctx, a.Path, a.Params)
	if err != nil {
		return nil, err
	}

	// Both renditions are compared with a zero origin.
	var rect image.Rectangle
	if a.Region != "" && a.Region != "full" {
		rect, err = imaging.RegionRect(out.Bounds(), a.Region)
		if err != nil {
			return nil, err
		}
	}

	cmp, err := ocr.CompareText(ctx, enhance.Normalize(src), out, rect, a.Language)
	if err != nil {
		return nil, err
	}

	region := a.Region
	if region == "" {
		region = "full"
	}
	return &ocrResult{Params: p, Region: region, Comparison: cmp}, nil
}
