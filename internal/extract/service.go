package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sashabaranov/go-openai"

	"cardscan/internal/logger"
	"cardscan/pkg/models"
)

// FieldExtractor turns raw OCR text into a structured contact record.
type FieldExtractor interface {
	ExtractContact(ctx context.Context, ocrText string) (models.ContactRecord, error)
}

// Config configures the completion-backed extractor.
type Config struct {
	Model       string  // completion model identifier, e.g. "mistral-tiny"
	Temperature float32 // sampling temperature; keep low for schema-conformant output
	ParseMode   string  // "strict" | "lenient" reply decoding
	MaxRetries  int     // completion retry attempts (completions are idempotent)
	Timeout     time.Duration
}

// Service implements FieldExtractor against a Mistral chat-completion
// endpoint. Mistral speaks the OpenAI chat-completions wire format, so the
// client is a go-openai client pointed at the Mistral base URL.
type Service struct {
	client *openai.Client
	cfg    Config
	schema *jsonschema.Schema
	log    zerolog.Logger
}

// NewService creates the extractor with the given credential and endpoint.
// An empty API key is a fatal configuration error.
func NewService(apiKey, baseURL string, cfg Config) (*Service, error) {
	const op = "NewService"

	if apiKey == "" {
		return nil, NewExtractionError(op, ErrMissingAPIKey, "")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return NewServiceWithClient(openai.NewClientWithConfig(clientCfg), cfg)
}

// NewServiceWithClient creates the extractor with an explicit completion
// client (for testing).
func NewServiceWithClient(client *openai.Client, cfg Config) (*Service, error) {
	const op = "NewServiceWithClient"

	if cfg.Model == "" {
		cfg.Model = "mistral-tiny"
	}
	if cfg.ParseMode == "" {
		cfg.ParseMode = "lenient"
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	schema, err := compileContactSchema()
	if err != nil {
		return nil, NewExtractionError(op, err, "failed to compile contact schema")
	}

	return &Service{
		client: client,
		cfg:    cfg,
		schema: schema,
		log:    logger.WithComponent("extract"),
	}, nil
}

// ExtractContact sends the extraction prompt for the given OCR text and
// decodes the model's JSON reply into a contact record.
func (s *Service) ExtractContact(ctx context.Context, ocrText string) (models.ContactRecord, error) {
	const op = "ExtractContact"

	messages := BuildMessages(ocrText)

	s.log.Debug().
		Str("model", s.cfg.Model).
		Float32("temperature", s.cfg.Temperature).
		Int("ocr_text_length", len(ocrText)).
		Msg("Sending completion request")

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.cfg.Model,
			Temperature: s.cfg.Temperature,
			Messages:    messages,
		})
		if err != nil {
			lastErr = classifyCompletionError(op, err)
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", s.cfg.MaxRetries).
				Msg("Completion request failed")
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = NewExtractionError(op, ErrNoChoices, "")
			continue
		}

		content := resp.Choices[0].Message.Content
		s.log.Debug().Str("response", truncateForLog(content)).Msg("Received completion reply")

		obj, err := DecodeReply(content, s.cfg.ParseMode)
		if err != nil {
			lastErr = err
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("Failed to decode completion reply")
			continue
		}

		if err := s.schema.Validate(obj); err != nil {
			lastErr = NewExtractionError(op, ErrSchemaViolation, err.Error())
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("Completion reply violates contact schema")
			continue
		}

		record := models.FromMap(obj)
		s.log.Info().
			Str("name", record.Name).
			Str("company", record.Company).
			Int("attempt", attempt).
			Msg("Contact extraction successful")
		return record, nil
	}

	return models.ContactRecord{}, lastErr
}

// classifyCompletionError splits completion call failures into the upstream
// and transport classes. go-openai reports non-2xx statuses as APIError (when
// the body parses) or RequestError (when it does not); anything else means
// the call itself could not complete.
func classifyCompletionError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewExtractionError(op, ErrUpstream, fmt.Sprintf("status %d: %s", apiErr.HTTPStatusCode, apiErr.Message))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewExtractionError(op, ErrUpstream, fmt.Sprintf("status %d", reqErr.HTTPStatusCode))
	}
	return NewExtractionError(op, ErrUnreachable, err.Error())
}
