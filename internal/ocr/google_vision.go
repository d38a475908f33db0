package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// ImageAnnotator is the slice of the Vision client the service needs. The
// concrete *vision.ImageAnnotatorClient satisfies it; tests substitute a stub.
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// GoogleVisionService implements Service using the Google Cloud Vision API.
// It is the hosted alternative to the local Tesseract engine, selected with
// OCR_ENGINE=vision.
type GoogleVisionService struct {
	client ImageAnnotator
}

// NewGoogleVisionService creates a Vision-backed OCR service with credentials
// from the environment. It expects either GOOGLE_APPLICATION_CREDENTIALS path
// or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionService(ctx context.Context) (*GoogleVisionService, error) {
	const op = "NewGoogleVisionService"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionService{client: client}, nil
}

// NewGoogleVisionServiceWithClient creates the service with an explicit client (for testing).
func NewGoogleVisionServiceWithClient(client ImageAnnotator) *GoogleVisionService {
	return &GoogleVisionService{client: client}
}

// Recognize extracts trimmed text from a decoded raster image.
func (g *GoogleVisionService) Recognize(ctx context.Context, img image.Image) (string, error) {
	result, err := g.RecognizeWithMetadata(ctx, img)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// RecognizeWithMetadata runs document text detection on a single image.
func (g *GoogleVisionService) RecognizeWithMetadata(ctx context.Context, img image.Image) (*Result, error) {
	const op = "RecognizeWithMetadata"
	start := time.Now()

	// Vision takes encoded bytes, not a raster.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, NewOCRError(op, ErrRecognitionFailed, "failed to encode image for Vision API")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: buf.Bytes()},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, NewOCRError(op, ErrRecognitionFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.GetResponses()) == 0 {
		return nil, NewOCRError(op, ErrRecognitionFailed, "no response from Vision API")
	}

	annotated := resp.GetResponses()[0]
	if annotated.GetError() != nil {
		return nil, NewOCRError(op, ErrRecognitionFailed, fmt.Sprintf("Vision API error: %s", annotated.GetError().GetMessage()))
	}

	annotation := annotated.GetFullTextAnnotation()
	if annotation == nil {
		return nil, NewOCRError(op, ErrNoText, "")
	}

	text := strings.TrimSpace(annotation.GetText())
	if text == "" {
		return nil, NewOCRError(op, ErrNoText, "")
	}

	// Average per-page confidence when the API reports it.
	var conf float32
	if pages := annotation.GetPages(); len(pages) > 0 {
		var sum float32
		for _, p := range pages {
			sum += p.GetConfidence()
		}
		conf = sum / float32(len(pages))
	}

	return &Result{
		Text:               text,
		Confidence:         conf,
		ProcessedAt:        time.Now(),
		ProcessingDuration: time.Since(start),
	}, nil
}

// Close releases the underlying API client.
func (g *GoogleVisionService) Close() error {
	return g.client.Close()
}
