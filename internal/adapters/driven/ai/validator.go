package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

const pingTimeout = 5 * time.Second

// probeText is embedded once to check the provider end to end.
const probeText = "The receiving party shall keep the information confidential."

// ConfigValidator checks an embedding configuration against the live
// provider: the service must answer a ping and return a probe vector of
// the expected size.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator creates a validator that gives the provider
// pingTimeout to answer.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// ValidateEmbedding builds the configured service, pings it and embeds
// the probe text.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", svc.ModelName(), err)
	}

	probe, err := svc.Embed(ctx, probeText)
	if err != nil {
		return fmt.Errorf("probe %s: %w", svc.ModelName(), err)
	}
	if len(probe) != svc.Dimensions() {
		return fmt.Errorf("%w: %s returned %d dimensions, expected %d",
			domain.ErrEmbeddingUnavailable, svc.ModelName(), len(probe), svc.Dimensions())
	}

	logger.Debug("Embedding provider %s ok (%s, %d dims)", settings.Provider, svc.ModelName(), len(probe))
	return nil
}
