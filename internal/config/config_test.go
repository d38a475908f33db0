package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MISTRAL_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.MistralAPIKey)
	assert.Equal(t, "https://api.mistral.ai/v1", cfg.MistralBaseURL)
	assert.Equal(t, "mistral-tiny", cfg.MistralModel)
	assert.InDelta(t, 0.3, cfg.MistralTemperature, 1e-6)
	assert.Equal(t, 60, cfg.MistralTimeoutSecs)
	assert.Equal(t, ParseModeLenient, cfg.ParseMode)
	assert.Equal(t, EngineTesseract, cfg.OCREngine)
	assert.Equal(t, "results/contacts.csv", cfg.ContactsCSVPath)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.MaxUploadMB)
}

func TestLoadFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISTRAL_API_KEY")
}

func TestLoadRejectsUnknownParseMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EXTRACT_PARSE_MODE", "yolo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXTRACT_PARSE_MODE")
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OCR_ENGINE", "abbyy")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCR_ENGINE")
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MISTRAL_MODEL", "mistral-small")
	t.Setenv("OCR_ENGINE", EngineVision)
	t.Setenv("CONTACTS_CSV_PATH", "/data/contacts.csv")
	t.Setenv("MISTRAL_TIMEOUT_SECONDS", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mistral-small", cfg.MistralModel)
	assert.Equal(t, EngineVision, cfg.OCREngine)
	assert.Equal(t, "/data/contacts.csv", cfg.ContactsCSVPath)
	assert.Equal(t, 120, cfg.MistralTimeoutSecs)
}
