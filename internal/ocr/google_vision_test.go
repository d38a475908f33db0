package ocr

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"
)

// fakeAnnotator stubs the Vision client and records the request it was sent.
type fakeAnnotator struct {
	resp   *visionpb.BatchAnnotateImagesResponse
	err    error
	gotReq *visionpb.BatchAnnotateImagesRequest
}

func (f *fakeAnnotator) BatchAnnotateImages(_ context.Context, req *visionpb.BatchAnnotateImagesRequest, _ ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error) {
	f.gotReq = req
	return f.resp, f.err
}

func (f *fakeAnnotator) Close() error { return nil }

func annotationResponse(text string, pageConfs ...float32) *visionpb.BatchAnnotateImagesResponse {
	pages := make([]*visionpb.Page, len(pageConfs))
	for i, c := range pageConfs {
		pages[i] = &visionpb.Page{Confidence: c}
	}
	return &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{
			{FullTextAnnotation: &visionpb.TextAnnotation{Text: text, Pages: pages}},
		},
	}
}

func TestVisionRecognizeRequestAndText(t *testing.T) {
	annotator := &fakeAnnotator{resp: annotationResponse("\n Jane Doe\nCEO, Acme Corp \n", 0.8, 0.9)}
	svc := NewGoogleVisionServiceWithClient(annotator)

	result, err := svc.RecognizeWithMetadata(context.Background(), testRaster())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nCEO, Acme Corp", result.Text)
	assert.InDelta(t, 0.85, result.Confidence, 0.001)

	require.NotNil(t, annotator.gotReq)
	require.Len(t, annotator.gotReq.GetRequests(), 1)
	req := annotator.gotReq.GetRequests()[0]
	assert.NotEmpty(t, req.GetImage().GetContent())
	require.Len(t, req.GetFeatures(), 1)
	assert.Equal(t, visionpb.Feature_DOCUMENT_TEXT_DETECTION, req.GetFeatures()[0].GetType())
}

func TestVisionRecognizeEmptyText(t *testing.T) {
	annotator := &fakeAnnotator{resp: annotationResponse("  \n\t ")}
	svc := NewGoogleVisionServiceWithClient(annotator)

	_, err := svc.Recognize(context.Background(), testRaster())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestVisionRecognizeMissingAnnotation(t *testing.T) {
	annotator := &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{}},
	}}
	svc := NewGoogleVisionServiceWithClient(annotator)

	_, err := svc.Recognize(context.Background(), testRaster())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestVisionRecognizeAPICallFailure(t *testing.T) {
	annotator := &fakeAnnotator{err: errors.New("rpc error: unavailable")}
	svc := NewGoogleVisionServiceWithClient(annotator)

	_, err := svc.Recognize(context.Background(), testRaster())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecognitionFailed)
}

func TestVisionRecognizeAnnotationError(t *testing.T) {
	annotator := &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{
			{Error: &statuspb.Status{Code: 3, Message: "Bad image data"}},
		},
	}}
	svc := NewGoogleVisionServiceWithClient(annotator)

	_, err := svc.Recognize(context.Background(), testRaster())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecognitionFailed)

	var ocrErr *OCRError
	require.ErrorAs(t, err, &ocrErr)
	assert.Contains(t, ocrErr.Details, "Bad image data")
}

func TestVisionRecognizeEmptyResponse(t *testing.T) {
	annotator := &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{}}
	svc := NewGoogleVisionServiceWithClient(annotator)

	_, err := svc.Recognize(context.Background(), testRaster())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecognitionFailed)
}
