package cmd

import (
	"context"
	"fmt"
	"time"

	"cardscan/internal/config"
	"cardscan/internal/extract"
	"cardscan/internal/ocr"
	"cardscan/internal/pipeline"
	"cardscan/internal/store"
)

// buildOCRService constructs the OCR engine the config selects. The engine
// choice is process-wide; it is never taken from request data.
func buildOCRService(ctx context.Context, cfg *config.Config) (ocr.Service, error) {
	switch cfg.OCREngine {
	case config.EngineVision:
		return ocr.NewGoogleVisionService(ctx)
	default:
		return ocr.NewTesseractService(ocr.TesseractConfig{
			Binary:      cfg.TesseractPath,
			Language:    cfg.TesseractLang,
			TessdataDir: cfg.TessdataDir,
		}), nil
	}
}

// buildPipeline wires the full extraction pipeline from configuration.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, error) {
	ocrService, err := buildOCRService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR service: %w", err)
	}

	extractor, err := extract.NewService(cfg.MistralAPIKey, cfg.MistralBaseURL, extract.Config{
		Model:       cfg.MistralModel,
		Temperature: cfg.MistralTemperature,
		ParseMode:   cfg.ParseMode,
		MaxRetries:  cfg.MistralMaxRetries,
		Timeout:     time.Duration(cfg.MistralTimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction service: %w", err)
	}

	contactStore, err := store.NewContactStore(cfg.ContactsCSVPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open contact store: %w", err)
	}

	ocrTimeout := time.Duration(cfg.OCRTimeoutSecs) * time.Second
	return pipeline.New(ocrService, extractor, contactStore, ocrTimeout), nil
}
