// Package pipeline sequences one business-card extraction request:
// image decoding, OCR, LLM field extraction, and persistence. Execution is
// strictly linear; the first failing stage aborts the run and nothing is
// persisted unless every stage succeeded.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cardscan/internal/extract"
	"cardscan/internal/imaging"
	"cardscan/internal/logger"
	"cardscan/internal/ocr"
	"cardscan/pkg/models"
)

// Stage identifies the pipeline step a failure belongs to.
type Stage string

const (
	StageDecode  Stage = "decode"
	StageOCR     Stage = "ocr"
	StageExtract Stage = "extract"
	StageStore   Stage = "store"
)

// StageError tags a failure with the stage it occurred in, so callers can
// tell a bad upload apart from an unavailable engine or a misbehaving model.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: stage %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StageError) Unwrap() error {
	return e.Err
}

// RecordStore is the persistence dependency of the pipeline.
type RecordStore interface {
	Append(record models.ContactRecord) error
}

// Result is the successful outcome of one pipeline run: the raw OCR text and
// the structured record, both returned so the caller can display both.
type Result struct {
	OCRText string               `json:"ocr_text"`
	Contact models.ContactRecord `json:"structured_data"`
}

// Pipeline orchestrates decode -> OCR -> extract -> store for one request.
// It holds no per-request state; the store is the only shared resource and
// serializes its own writes.
type Pipeline struct {
	ocr        ocr.Service
	extractor  extract.FieldExtractor
	store      RecordStore
	ocrTimeout time.Duration
}

// New creates a pipeline over the given OCR engine, field extractor, and
// record store. ocrTimeout bounds the recognition step; zero means no bound
// beyond the caller's context.
func New(ocrSvc ocr.Service, extractor extract.FieldExtractor, store RecordStore, ocrTimeout time.Duration) *Pipeline {
	return &Pipeline{
		ocr:        ocrSvc,
		extractor:  extractor,
		store:      store,
		ocrTimeout: ocrTimeout,
	}
}

// Run processes one uploaded image through the full pipeline. On failure it
// returns a *StageError naming the failing stage; on success exactly one row
// has been appended to the store.
func (p *Pipeline) Run(ctx context.Context, imageBytes []byte) (*Result, error) {
	runID := uuid.New().String()
	log := logger.WithRequestID(runID)
	start := time.Now()

	log.Info().Int("image_bytes", len(imageBytes)).Msg("Reading image")
	img, format, err := imaging.Decode(imageBytes)
	if err != nil {
		return nil, &StageError{Stage: StageDecode, Err: err}
	}

	log.Info().Str("format", format).Msg("Running OCR")
	ocrCtx := ctx
	if p.ocrTimeout > 0 {
		var cancel context.CancelFunc
		ocrCtx, cancel = context.WithTimeout(ctx, p.ocrTimeout)
		defer cancel()
	}
	ocrResult, err := p.ocr.RecognizeWithMetadata(ocrCtx, img)
	if err != nil {
		return nil, &StageError{Stage: StageOCR, Err: err}
	}
	log.Info().
		Int("text_length", len(ocrResult.Text)).
		Float32("confidence", ocrResult.Confidence).
		Dur("ocr_duration", ocrResult.ProcessingDuration).
		Msg("OCR completed")

	log.Info().Msg("Calling completion endpoint")
	record, err := p.extractor.ExtractContact(ctx, ocrResult.Text)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}

	log.Info().Str("name", record.Name).Msg("Saving contact")
	if err := p.store.Append(record); err != nil {
		return nil, &StageError{Stage: StageStore, Err: err}
	}

	log.Info().Dur("total_duration", time.Since(start)).Msg("Extraction pipeline completed")
	return &Result{OCRText: ocrResult.Text, Contact: record}, nil
}
