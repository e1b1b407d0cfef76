package providers

import (
	"context"
)

// Config represents one text-generation request to an LLM provider.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// ResponseMIMEType asks the provider for a structured response format
	// (e.g. "application/json"). Providers that cannot honor it ignore it.
	ResponseMIMEType string
}

// Provider defines the interface for an LLM text provider.
type Provider interface {
	GenerateText(ctx context.Context, config Config) (string, error)
}
