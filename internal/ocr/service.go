// Package ocr provides OCR (Optical Character Recognition) for business-card
// photos.
//
// Two engines are supported, selected once at process start:
//   - "tesseract" (default): shells out to a local Tesseract binary. The
//     binary location, language, and tessdata directory come from
//     configuration; the engine is never chosen per request.
//   - "vision": Google Cloud Vision API document text detection, using
//     GOOGLE_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS.
//
// Both engines return trimmed plain text. Recognition is a blocking call
// bounded only by the caller's context; business cards usually take well
// under a second with Tesseract but callers should still pass a deadline.
package ocr

import (
	"context"
	"image"
	"time"
)

// Service defines the interface for OCR text extraction engines.
type Service interface {
	// Recognize extracts text from a decoded raster image.
	// The returned text has leading and trailing whitespace stripped.
	Recognize(ctx context.Context, img image.Image) (string, error)

	// RecognizeWithMetadata extracts text with additional metadata such as
	// confidence scores and processing duration.
	RecognizeWithMetadata(ctx context.Context, img image.Image) (*Result, error)
}

// Result contains the outcome of OCR processing with metadata.
type Result struct {
	// Text is the recognized text, whitespace-trimmed.
	Text string `json:"text"`

	// Confidence is the mean word confidence (0.0 to 1.0), when the engine
	// reports one; 0 means unavailable.
	Confidence float32 `json:"confidence,omitempty"`

	// Language is the recognition language the engine was configured with.
	Language string `json:"language,omitempty"`

	// ProcessedAt is the timestamp when recognition completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long recognition took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}

var (
	_ Service = (*TesseractService)(nil)
	_ Service = (*GoogleVisionService)(nil)
)
