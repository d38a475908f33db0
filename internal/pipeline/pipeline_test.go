package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardscan/internal/ocr"
	"cardscan/internal/store"
	"cardscan/pkg/models"
)

const cardText = "Jane Doe\nCEO, Acme Corp\njane@acme.com | 555-1234\nacme.com"

// stubOCR returns a canned recognition result or error.
type stubOCR struct {
	text string
	err  error
}

func (s *stubOCR) Recognize(ctx context.Context, img image.Image) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubOCR) RecognizeWithMetadata(ctx context.Context, img image.Image) (*ocr.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ocr.Result{
		Text:               s.text,
		Confidence:         0.9,
		ProcessedAt:        time.Now(),
		ProcessingDuration: time.Millisecond,
	}, nil
}

// stubExtractor records the OCR text it was handed.
type stubExtractor struct {
	record  models.ContactRecord
	err     error
	gotText string
}

func (s *stubExtractor) ExtractContact(ctx context.Context, ocrText string) (models.ContactRecord, error) {
	s.gotText = ocrText
	if s.err != nil {
		return models.ContactRecord{}, s.err
	}
	return s.record, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *store.ContactStore {
	t.Helper()
	s, err := store.NewContactStore(filepath.Join(t.TempDir(), "contacts.csv"))
	require.NoError(t, err)
	return s
}

func TestRunHappyPath(t *testing.T) {
	contact := models.ContactRecord{
		Name: "Jane Doe", Title: "CEO", Company: "Acme Corp",
		Email: "jane@acme.com", Phone: "555-1234", Website: "acme.com",
	}
	extractor := &stubExtractor{record: contact}
	contacts := newTestStore(t)

	p := New(&stubOCR{text: cardText}, extractor, contacts, 0)
	result, err := p.Run(context.Background(), pngBytes(t))
	require.NoError(t, err)

	assert.Equal(t, cardText, result.OCRText)
	assert.Equal(t, contact, result.Contact)
	assert.Equal(t, cardText, extractor.gotText)

	records, err := contacts.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, contact, records[0])
}

func TestRunDecodeFailureWritesNothing(t *testing.T) {
	contacts := newTestStore(t)
	p := New(&stubOCR{text: cardText}, &stubExtractor{}, contacts, 0)

	_, err := p.Run(context.Background(), []byte("not an image"))
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageDecode, stageErr.Stage)

	records, err := contacts.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunOCRFailure(t *testing.T) {
	contacts := newTestStore(t)
	p := New(&stubOCR{err: ocr.ErrNoText}, &stubExtractor{}, contacts, 0)

	_, err := p.Run(context.Background(), pngBytes(t))
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageOCR, stageErr.Stage)
	assert.ErrorIs(t, err, ocr.ErrNoText)
}

func TestRunExtractFailureWritesNothing(t *testing.T) {
	contacts := newTestStore(t)
	extractor := &stubExtractor{err: errors.New("completion endpoint down")}
	p := New(&stubOCR{text: cardText}, extractor, contacts, 0)

	_, err := p.Run(context.Background(), pngBytes(t))
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageExtract, stageErr.Stage)

	records, err := contacts.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunStoreFailure(t *testing.T) {
	p := New(&stubOCR{text: cardText}, &stubExtractor{}, failingStore{}, 0)

	_, err := p.Run(context.Background(), pngBytes(t))
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageStore, stageErr.Stage)
}

type failingStore struct{}

func (failingStore) Append(models.ContactRecord) error {
	return errors.New("disk full")
}
