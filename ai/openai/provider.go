package openai

import (
	"github.com/poiesic/finsight/ai"
)

// Provider bundles the OpenAI-compatible embedder and generator behind
// the ai.AIProvider interface.
type Provider struct {
	embedder  *Embedder
	generator *Generator
}

// NewProvider creates a provider backed by OpenAI-compatible services.
// Embedding and chat may point at the same host or different ones,
// depending on the configuration.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder:  embedder,
		generator: generator,
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the chat completion service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases provider resources. The underlying HTTP clients hold
// no persistent connections that require explicit shutdown.
func (p *Provider) Close() error {
	return nil
}
