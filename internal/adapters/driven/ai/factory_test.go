package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

func TestCreateEmbeddingService_Ollama(t *testing.T) {
	svc, err := CreateEmbeddingService(domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestCreateEmbeddingService_OpenAI(t *testing.T) {
	svc, err := CreateEmbeddingService(domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-test",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestCreateEmbeddingService_OpenAIRequiresAPIKey(t *testing.T) {
	_, err := CreateEmbeddingService(domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
	})

	assert.Error(t, err)
}

func TestCreateEmbeddingService_UnsupportedProvider(t *testing.T) {
	_, err := CreateEmbeddingService(domain.EmbeddingSettings{
		Provider: "mystery",
		Model:    "whatever",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestCreateLLMService_Ollama(t *testing.T) {
	svc, err := CreateLLMService(domain.ChatSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.1",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "llama3.1", svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestCreateLLMService_OpenAI(t *testing.T) {
	svc, err := CreateLLMService(domain.ChatSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "gpt-4o-mini", svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestCreateLLMService_UnsupportedProvider(t *testing.T) {
	_, err := CreateLLMService(domain.ChatSettings{
		Provider: "mystery",
		Model:    "whatever",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestCreateAndValidateLLMService_UnreachableService(t *testing.T) {
	_, err := CreateAndValidateLLMService(domain.ChatSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.1",
		// Nothing listens here.
		BaseURL: "http://127.0.0.1:1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestCreateAndValidateEmbeddingService_UnreachableService(t *testing.T) {
	_, err := CreateAndValidateEmbeddingService(domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
		BaseURL:  "http://127.0.0.1:1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
