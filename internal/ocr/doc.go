// Package ocr measures how enhancement affects text legibility by running
// Tesseract (via gosseract/v2) on an image before and after processing.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The default language is "eng"; any installed Tesseract language code may
// be passed instead.
//
// # Functions
//
//   - ExtractText: OCR of an in-memory image, with word boxes and confidences
//   - ExtractTextFromRegion: the same, restricted to a rectangle
//   - CompareText: OCR of an original and an enhanced rendition side by side
//
// Images are passed to Tesseract as encoded PNG bytes; no temporary files are
// written. A gosseract client is not safe for concurrent use, so every call
// creates its own.
//
// If word-level bounding box extraction fails, the text is still returned and
// the word count falls back to whitespace-separated fields.
package ocr
