// Package curation asks a generative model for a structured list of vintage
// cameras and validates the response into camera drafts.
package curation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shelfworks/camshelf/internal/gemini"
	"github.com/shelfworks/camshelf/internal/models"
	"github.com/shelfworks/camshelf/internal/ollama"
	"github.com/shelfworks/camshelf/internal/providers"
)

// ErrMalformedResponse marks a list response that parsed or validated badly.
// The whole run aborts on it; no drafts are returned.
var ErrMalformedResponse = errors.New("malformed list response")

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// GenerateList requests count camera drafts from the configured provider.
// The length of the returned list is whatever the model produced; only the
// shape of each draft is enforced.
func (s *Service) GenerateList(ctx context.Context, count int) ([]models.CameraDraft, error) {
	provider := os.Getenv("CAMSHELF_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}

	var p providers.Provider
	switch provider {
	case "gemini":
		p = gemini.New()
	case "ollama":
		p = ollama.New()
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	raw, err := p.GenerateText(ctx, providers.Config{
		Model:            s.listModel(provider),
		Temperature:      0.9,
		Prompt:           buildListPrompt(count),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("list generation request failed: %w", err)
	}

	return ParseDrafts(raw)
}

func (s *Service) listModel(provider string) string {
	if model := os.Getenv("CAMSHELF_LIST_MODEL"); model != "" {
		return model
	}
	switch provider {
	case "ollama":
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "llama3.1:8b"
	default:
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-2.0-flash"
	}
}

func buildListPrompt(count int) string {
	return fmt.Sprintf(`You are a curator of historic photographic equipment.
List %d real vintage cameras spanning different decades and manufacturers.

Respond with a JSON array only. Each element must have exactly these fields:
  "name": the camera's full model name,
  "year": the year it was introduced, as an integer,
  "description": one or two sentences on what made it notable,
  "width_mm": body width in millimeters as a number,
  "height_mm": body height in millimeters as a number,
  "depth_mm": body depth in millimeters as a number.

All dimensions must be realistic positive numbers. Do not include any text
outside the JSON array.`, count)
}

// ParseDrafts decodes a raw model response into camera drafts. Code fences
// around the JSON are tolerated; anything else malformed aborts with
// ErrMalformedResponse.
func ParseDrafts(raw string) ([]models.CameraDraft, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var drafts []models.CameraDraft
	if err := json.Unmarshal([]byte(cleaned), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: empty camera list", ErrMalformedResponse)
	}

	for i, draft := range drafts {
		if err := draft.Validate(); err != nil {
			return nil, fmt.Errorf("%w: draft %d: %w", ErrMalformedResponse, i, err)
		}
	}

	return drafts, nil
}
