package llmservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdocs/internal/config"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(&config.LLMConfig{
		Provider: "ollama",
		BaseURL:  "http://localhost:11434",
		Model:    "llama3.1",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClientOpenAI(t *testing.T) {
	client, err := NewClient(&config.LLMConfig{
		Provider: "openai",
		BaseURL:  "https://openrouter.ai/api/v1",
		Key:      "Bearer test-key",
		Model:    "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(&config.LLMConfig{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}
