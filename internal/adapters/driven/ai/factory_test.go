package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/embedding/throttle"
	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantErr   error
		wantModel string
		wantDims  int
	}{
		{
			name:    "nil settings",
			wantErr: domain.ErrEmbeddingUnavailable,
		},
		{
			name:     "openai without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantErr:  domain.ErrEmbeddingUnavailable,
		},
		{
			name:      "hash defaults",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderHash},
			wantModel: "hash-384",
			wantDims:  384,
		},
		{
			name:      "hash explicit dimensions",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderHash, Dimensions: 64},
			wantModel: "hash-64",
			wantDims:  64,
		},
		{
			name:      "ollama known model",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"},
			wantModel: "nomic-embed-text",
			wantDims:  768,
		},
		{
			name: "openai",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "sk-test",
				Model:    "text-embedding-3-large",
			},
			wantModel: "text-embedding-3-large",
			wantDims:  3072,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

func TestCreateEmbeddingService_Throttled(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider:          domain.AIProviderHash,
		RequestsPerSecond: 5,
	})
	require.NoError(t, err)
	assert.IsType(t, &throttle.EmbeddingService{}, svc)

	svc, err = CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderHash})
	require.NoError(t, err)
	assert.IsType(t, &hash.EmbeddingService{}, svc)
}
