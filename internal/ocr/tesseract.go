package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is one recognized word with its location and OCR confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result contains the text recognized in one image.
type Result struct {
	// FullText is all recognized text with Tesseract's spacing and newlines.
	FullText string `json:"full_text"`

	// Words may be empty if bounding box extraction fails; the text is
	// still in FullText.
	Words []Word `json:"words"`

	WordCount      int     `json:"word_count"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Comparison is the OCR of an image before and after enhancement.
type Comparison struct {
	Language string  `json:"language"`
	Original *Result `json:"original"`
	Enhanced *Result `json:"enhanced"`

	// ConfidenceDelta is Enhanced.MeanConfidence - Original.MeanConfidence.
	ConfidenceDelta float64 `json:"confidence_delta"`

	// WordDelta is Enhanced.WordCount - Original.WordCount.
	WordDelta int `json:"word_delta"`
}

// ExtractText runs Tesseract on an in-memory image. The image is handed to
// Tesseract as PNG bytes, so no temporary file is written.
func ExtractText(img image.Image, language string) (*Result, error) {
	if language == "" {
		language = DefaultLanguage
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return summarize(text, nil), nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return summarize(text, words), nil
}

// ExtractTextFromRegion runs OCR on rect of img. Word bounds are reported in
// the coordinates of img, not of the crop.
func ExtractTextFromRegion(img image.Image, rect image.Rectangle, language string) (*Result, error) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("OCR region %v does not overlap image bounds %v", rect, img.Bounds())
	}

	result, err := ExtractText(imaging.Crop(img, rect), language)
	if err != nil {
		return nil, err
	}

	for i := range result.Words {
		result.Words[i].Bounds.X1 += rect.Min.X
		result.Words[i].Bounds.Y1 += rect.Min.Y
		result.Words[i].Bounds.X2 += rect.Min.X
		result.Words[i].Bounds.Y2 += rect.Min.Y
	}

	return result, nil
}

// CompareText recognizes text in original and enhanced concurrently, each on
// its own Tesseract client, restricted to rect when it is non-empty.
func CompareText(ctx context.Context, original, enhanced image.Image, rect image.Rectangle, language string) (*Comparison, error) {
	if language == "" {
		language = DefaultLanguage
	}

	extract := func(img image.Image) (*Result, error) {
		if rect.Empty() {
			return ExtractText(img, language)
		}
		return ExtractTextFromRegion(img, rect, language)
	}

	var before, after *Result
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		r, err := extract(original)
		if err != nil {
			return fmt.Errorf("original: %w", err)
		}
		before = r
		return gctx.Err()
	})
	grp.Go(func() error {
		r, err := extract(enhanced)
		if err != nil {
			return fmt.Errorf("enhanced: %w", err)
		}
		after = r
		return gctx.Err()
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return compare(language, before, after), nil
}

func compare(language string, before, after *Result) *Comparison {
	return &Comparison{
		Language:        language,
		Original:        before,
		Enhanced:        after,
		ConfidenceDelta: after.MeanConfidence - before.MeanConfidence,
		WordDelta:       after.WordCount - before.WordCount,
	}
}

// summarize builds a Result. Without word boxes the count falls back to the
// whitespace-separated fields of text.
func summarize(text string, words []Word) *Result {
	r := &Result{FullText: text, Words: words}
	if r.Words == nil {
		r.Words = []Word{}
	}

	if len(words) == 0 {
		r.WordCount = len(strings.Fields(text))
		return r
	}

	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	r.WordCount = len(words)
	r.MeanConfidence = sum / float64(len(words))
	return r
}
