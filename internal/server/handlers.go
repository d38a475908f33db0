package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"cardscan/internal/extract"
	"cardscan/internal/ocr"
	"cardscan/internal/pipeline"
)

// errorResponse is the JSON error body. Stage lets callers distinguish a bad
// upload from an unavailable engine or a misbehaving extraction service.
type errorResponse struct {
	Error   string `json:"error"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"`
}

// handleExtract handles POST /extract: one multipart image in, OCR text plus
// the structured record out.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "upload too large", "", "")
			return
		}
		s.writeError(w, http.StatusBadRequest, "missing multipart field 'file'", "", err.Error())
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "upload too large", "", "")
			return
		}
		s.writeError(w, http.StatusBadRequest, "failed to read upload", "", err.Error())
		return
	}

	s.log.Info().
		Str("filename", header.Filename).
		Int("bytes", len(imageBytes)).
		Msg("Processing card upload")

	result, err := s.pipeline.Run(r.Context(), imageBytes)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// writePipelineError maps a pipeline failure to a status code and a
// stage-tagged error body. Client-caused failures (undecodable image,
// unreadable card) are 4xx; engine and upstream failures are 502; storage
// and anything unclassified are 500.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) {
		s.writeError(w, http.StatusInternalServerError, "extraction failed", "", err.Error())
		return
	}

	stage := string(stageErr.Stage)
	switch stageErr.Stage {
	case pipeline.StageDecode:
		s.writeError(w, http.StatusBadRequest, "could not read the image", stage, stageErr.Err.Error())
	case pipeline.StageOCR:
		if errors.Is(stageErr.Err, ocr.ErrNoText) {
			s.writeError(w, http.StatusUnprocessableEntity, "OCR produced no usable text", stage, stageErr.Err.Error())
			return
		}
		s.writeError(w, http.StatusBadGateway, "OCR engine is unavailable", stage, stageErr.Err.Error())
	case pipeline.StageExtract:
		if errors.Is(stageErr.Err, extract.ErrMalformedReply) || errors.Is(stageErr.Err, extract.ErrSchemaViolation) {
			s.writeError(w, http.StatusBadGateway, "extraction service returned data in an unexpected shape", stage, stageErr.Err.Error())
			return
		}
		s.writeError(w, http.StatusBadGateway, "extraction service is unavailable", stage, stageErr.Err.Error())
	case pipeline.StageStore:
		s.writeError(w, http.StatusInternalServerError, "failed to save contact", stage, stageErr.Err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "extraction failed", stage, stageErr.Err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, stage, detail string) {
	s.log.Warn().
		Int("status", status).
		Str("stage", stage).
		Str("detail", detail).
		Msg(msg)
	s.writeJSON(w, status, errorResponse{Error: msg, Stage: stage, Message: detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode response body")
	}
}
