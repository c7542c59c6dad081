package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-enhance-mcp/internal/imaging"
	"github.com/ironsheep/image-enhance-mcp/internal/ocr"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel    = "IMAGE_ENHANCE_LOG_LEVEL"
	EnvJPEGQuality = "IMAGE_ENHANCE_JPEG_QUALITY"
	EnvOCRLanguage = "IMAGE_ENHANCE_OCR_LANG"
	EnvTimeout     = "IMAGE_ENHANCE_TIMEOUT"
	EnvBackend     = "IMAGE_ENHANCE_BACKEND"
)

// DefaultTimeout bounds a single tool call.
const DefaultTimeout = 2 * time.Minute

// Config holds the server settings.
type Config struct {
	// LogLevel is the minimum level written to stderr.
	LogLevel logrus.Level

	// JPEGQuality is the quality of exported JPEG files (1-100).
	JPEGQuality int

	// OCRLanguage is the Tesseract language used when a call names none.
	OCRLanguage string

	// Timeout bounds each tool call, including the enhancement run.
	Timeout time.Duration

	// Backend names the enhance.Processor to run ("native" or, when built
	// with the opencv tag, "opencv").
	Backend string
}

// DefaultConfig returns the settings used when no environment is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:    logrus.InfoLevel,
		JPEGQuality: imaging.DefaultJPEGQuality,
		OCRLanguage: ocr.DefaultLanguage,
		Timeout:     DefaultTimeout,
		Backend:     "native",
	}
}

// ConfigFromEnv builds a Config from DefaultConfig, overridden by any set
// environment variables. getenv is usually os.Getenv.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	if v := strings.TrimSpace(getenv(EnvJPEGQuality)); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvJPEGQuality, err)
		}
		if q < 1 || q > 100 {
			return cfg, fmt.Errorf("%s: quality %d outside [1, 100]", EnvJPEGQuality, q)
		}
		cfg.JPEGQuality = q
	}

	if v := strings.TrimSpace(getenv(EnvOCRLanguage)); v != "" {
		cfg.OCRLanguage = v
	}

	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("%s: timeout must be positive, got %s", EnvTimeout, d)
		}
		cfg.Timeout = d
	}

	if v := strings.TrimSpace(getenv(EnvBackend)); v != "" {
		cfg.Backend = v
	}

	return cfg, nil
}
