// Package embedding provides the optional dense-vector similarity
// backend: an OpenAI-compatible HTTP embedder plus a read-through cache
// in front of the durable store.
package embedding

import (
	"fmt"
	"os"
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Embed returns one embedding per input text.
	Embed(texts []string) ([][]float32, error)

	// Dimension returns the embedding vector length, or 0 if unknown.
	Dimension() int
}

// Provider identifies a supported embedding API.
type Provider struct {
	Name     string
	Endpoint string
	Model    string
	EnvKey   string
}

var providers = map[string]Provider{
	"ollama": {
		Name:     "Ollama",
		Endpoint: "http://localhost:11434/v1/embeddings",
		Model:    "nomic-embed-text",
	},
	"openai": {
		Name:     "OpenAI",
		Endpoint: "https://api.openai.com/v1/embeddings",
		Model:    "text-embedding-3-small",
		EnvKey:   "OPENAI_API_KEY",
	},
	"voyage": {
		Name:     "Voyage AI",
		Endpoint: "https://api.voyageai.com/v1/embeddings",
		Model:    "voyage-3-lite",
		EnvKey:   "VOYAGE_API_KEY",
	},
}

// NewForProvider builds an HTTP embedder for a named provider. Endpoint
// and model overrides replace the provider defaults when non-empty. The
// API key is read from the provider's environment variable; Ollama
// needs none.
func NewForProvider(name, endpoint, model string) (Embedder, error) {
	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown embedding provider %q", name)
	}
	if endpoint != "" {
		p.Endpoint = endpoint
	}
	if model != "" {
		p.Model = model
	}

	apiKey := "none"
	if p.EnvKey != "" {
		apiKey = os.Getenv(p.EnvKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%s requires %s to be set", p.Name, p.EnvKey)
		}
	}

	return NewHTTP(p, apiKey), nil
}
