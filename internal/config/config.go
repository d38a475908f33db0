package config

import (
	"fmt"
	"os"
	"strconv"

	"cardscan/internal/logger"
)

// Parse mode values for the LLM reply decoder.
const (
	ParseModeStrict  = "strict"
	ParseModeLenient = "lenient"
)

// OCR engine values.
const (
	EngineTesseract = "tesseract"
	EngineVision    = "vision"
)

type Config struct {
	// Mistral Configuration
	MistralAPIKey      string
	MistralBaseURL     string
	MistralModel       string
	MistralTemperature float32
	MistralTimeoutSecs int
	MistralMaxRetries  int

	// Extraction Configuration
	ParseMode string // strict | lenient

	// OCR Configuration
	OCREngine      string // tesseract | vision
	TesseractPath  string
	TesseractLang  string
	TessdataDir    string
	OCRTimeoutSecs int

	// Storage Configuration
	ContactsCSVPath string

	// HTTP Configuration
	HTTPAddr    string
	MaxUploadMB int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads configuration from the environment once at startup.
// It fails when the Mistral API credential is absent: the process must not
// serve any requests without one.
func Load() (*Config, error) {
	config := &Config{
		MistralAPIKey:      getEnv("MISTRAL_API_KEY", ""),
		MistralBaseURL:     getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
		MistralModel:       getEnv("MISTRAL_MODEL", "mistral-tiny"),
		MistralTemperature: getFloatEnv("MISTRAL_TEMPERATURE", 0.3),
		MistralTimeoutSecs: getIntEnv("MISTRAL_TIMEOUT_SECONDS", 60),
		MistralMaxRetries:  getIntEnv("MISTRAL_MAX_RETRIES", 1),
		ParseMode:          getEnv("EXTRACT_PARSE_MODE", ParseModeLenient),
		OCREngine:          getEnv("OCR_ENGINE", EngineTesseract),
		TesseractPath:      getEnv("TESSERACT_PATH", "tesseract"),
		TesseractLang:      getEnv("TESSERACT_LANG", "eng"),
		TessdataDir:        getEnv("TESSDATA_DIR", ""),
		OCRTimeoutSecs:     getIntEnv("OCR_TIMEOUT_SECONDS", 30),
		ContactsCSVPath:    getEnv("CONTACTS_CSV_PATH", "results/contacts.csv"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8000"),
		MaxUploadMB:        getIntEnv("MAX_UPLOAD_MB", 10),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:      getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:          getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.MistralAPIKey == "" {
		return fmt.Errorf("MISTRAL_API_KEY is required")
	}
	if c.ParseMode != ParseModeStrict && c.ParseMode != ParseModeLenient {
		return fmt.Errorf("EXTRACT_PARSE_MODE must be %q or %q", ParseModeStrict, ParseModeLenient)
	}
	if c.OCREngine != EngineTesseract && c.OCREngine != EngineVision {
		return fmt.Errorf("OCR_ENGINE must be %q or %q", EngineTesseract, EngineVision)
	}
	if c.MistralTimeoutSecs <= 0 {
		return fmt.Errorf("MISTRAL_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// ContactsPath returns the contact table location without requiring the
// full (credentialed) configuration; used by commands that only touch the
// local store.
func ContactsPath() string {
	return getEnv("CONTACTS_CSV_PATH", "results/contacts.csv")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}
