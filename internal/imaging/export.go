package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is the JPEG quality used when none is configured.
const DefaultJPEGQuality = 95

// ProcessedSuffix is appended to the source file's base name for exports.
const ProcessedSuffix = "_processed"

// Encoding is one exported rendition of an image.
type Encoding struct {
	// Format is "jpeg" or "png".
	Format string `json:"format"`

	// MimeType is the MIME type of the encoded data.
	MimeType string `json:"mime_type"`

	// Path is the file written, when exporting to disk.
	Path string `json:"path,omitempty"`

	// ImageBase64 holds the encoded bytes when not exporting to disk.
	ImageBase64 string `json:"image_base64,omitempty"`

	// SizeBytes is the encoded size.
	SizeBytes int `json:"size_bytes"`
}

// ExportResult lists the renditions produced for one image.
type ExportResult struct {
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Encodings []Encoding `json:"encodings"`
}

// ProcessedName returns the export file name for source with the given
// extension, e.g. ProcessedName("/in/photo.jpeg", ".png") = "photo_processed.png".
func ProcessedName(source, ext string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "image"
	}
	return stem + ProcessedSuffix + ext
}

// Encode renders img as JPEG (at quality) and as lossless PNG.
func Encode(img image.Image, quality int) (jpegData, pngData []byte, err error) {
	if quality < 1 || quality > 100 {
		return nil, nil, fmt.Errorf("jpeg quality %d outside [1, 100]", quality)
	}

	var jbuf bytes.Buffer
	if err := imaging.Encode(&jbuf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	var pbuf bytes.Buffer
	if err := imaging.Encode(&pbuf, img, imaging.PNG); err != nil {
		return nil, nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return jbuf.Bytes(), pbuf.Bytes(), nil
}

// Export encodes img as JPEG and PNG. With an empty outDir both encodings
// are returned base64-encoded; otherwise they are written next to each
// other in outDir as <name>_processed.jpg and <name>_processed.png, where
// <name> is taken from source.
func Export(img image.Image, source, outDir string, quality int) (*ExportResult, error) {
	jpegData, pngData, err := Encode(img, quality)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}

	renditions := []struct {
		format, mime, ext string
		data              []byte
	}{
		{"jpeg", "image/jpeg", ".jpg", jpegData},
		{"png", "image/png", ".png", pngData},
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for _, r := range renditions {
		enc := Encoding{Format: r.format, MimeType: r.mime, SizeBytes: len(r.data)}
		if outDir == "" {
			enc.ImageBase64 = base64.StdEncoding.EncodeToString(r.data)
		} else {
			enc.Path = filepath.Join(outDir, ProcessedName(source, r.ext))
			if err := os.WriteFile(enc.Path, r.data, 0o644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", enc.Path, err)
			}
		}
		result.Encodings = append(result.Encodings, enc)
	}

	return result, nil
}

// EncodePNGBase64 encodes img as base64 PNG.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
