package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cardscan/internal/imaging"
	"cardscan/internal/logger"
)

// TesseractConfig configures the local Tesseract engine.
type TesseractConfig struct {
	Binary      string // binary name or absolute path; if empty -> "tesseract"
	Language    string // recognition language, default "eng"
	TessdataDir string // optional --tessdata-dir override
	PSM         int    // page segmentation mode; 0 = engine default
	OEM         int    // OCR engine mode; 0 = engine default

	// EnableTSVConfidence runs a second pass in TSV mode to compute a mean
	// word confidence. Doubles recognition time, so off by default.
	EnableTSVConfidence bool
}

// TesseractService implements Service by shelling out to a Tesseract binary.
type TesseractService struct {
	cfg    TesseractConfig
	runner Runner
	log    zerolog.Logger
}

// NewTesseractService creates a Tesseract-backed OCR service.
func NewTesseractService(cfg TesseractConfig) *TesseractService {
	return NewTesseractServiceWithRunner(cfg, execRunner{})
}

// NewTesseractServiceWithRunner creates the service with an explicit command
// runner (for testing).
func NewTesseractServiceWithRunner(cfg TesseractConfig, runner Runner) *TesseractService {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &TesseractService{
		cfg:    cfg,
		runner: runner,
		log:    logger.WithComponent("ocr-tesseract"),
	}
}

// Recognize extracts trimmed text from a decoded raster image.
func (s *TesseractService) Recognize(ctx context.Context, img image.Image) (string, error) {
	result, err := s.RecognizeWithMetadata(ctx, img)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// RecognizeWithMetadata extracts text with confidence and timing metadata.
func (s *TesseractService) RecognizeWithMetadata(ctx context.Context, img image.Image) (*Result, error) {
	const op = "RecognizeWithMetadata"
	start := time.Now()

	// Tesseract reads files, so hand it a temporary PNG of the raster.
	path, cleanup, err := imaging.WritePNG(img)
	if err != nil {
		return nil, NewOCRError(op, ErrRecognitionFailed, fmt.Sprintf("failed to stage image: %v", err))
	}
	defer cleanup()

	text, err := s.runTesseract(ctx, path, false)
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewOCRError(op, ErrNoText, "")
	}

	result := &Result{
		Text:               text,
		Language:           s.cfg.Language,
		ProcessedAt:        time.Now(),
		ProcessingDuration: time.Since(start),
	}

	if s.cfg.EnableTSVConfidence {
		if conf, err := s.tsvConfidence(ctx, path); err == nil {
			result.Confidence = conf
		} else {
			s.log.Warn().Err(err).Msg("TSV confidence pass failed")
		}
	}

	s.log.Debug().
		Int("text_length", len(result.Text)).
		Float32("confidence", result.Confidence).
		Dur("duration", result.ProcessingDuration).
		Msg("Tesseract recognition completed")

	return result, nil
}

// runTesseract invokes the binary in stdout mode; tsv toggles TSV output.
func (s *TesseractService) runTesseract(ctx context.Context, path string, tsv bool) (string, error) {
	args := []string{path, "stdout", "-l", s.cfg.Language}
	if s.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(s.cfg.PSM))
	}
	if s.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(s.cfg.OEM))
	}
	if s.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", s.cfg.TessdataDir)
	}
	if tsv {
		args = append(args, "tsv")
	}

	out, errb, err := s.runner.Run(ctx, s.cfg.Binary, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", NewOCRError("runTesseract", ErrEngineUnavailable, fmt.Sprintf("binary %q not found", s.cfg.Binary))
		}
		return "", NewOCRError("runTesseract", ErrRecognitionFailed, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}

// tsvConfidence runs Tesseract in TSV mode and returns the mean word
// confidence scaled to 0..1.
func (s *TesseractService) tsvConfidence(ctx context.Context, path string) (float32, error) {
	out, err := s.runTesseract(ctx, path, true)
	if err != nil {
		return 0, err
	}

	// conf is column 11 of 12; -1 marks non-word rows.
	var sum, n float64
	for i, ln := range strings.Split(out, "\n") {
		if i == 0 || ln == "" {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float32(sum / n / 100.0), nil
}
