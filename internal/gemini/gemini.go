package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"github.com/shelfworks/camshelf/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini. It serves both text generation
// (the shelf list) and image synthesis (one portrait per camera).
type Gemini struct{}

// New returns a new Gemini provider
func New() *Gemini {
	return &Gemini{}
}

func newClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	return client, nil
}

// GenerateText generates text for the given prompt using Gemini
func (g *Gemini) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))
	if config.ResponseMIMEType != "" {
		model.ResponseMIMEType = config.ResponseMIMEType
	}

	resp, err := model.GenerateContent(ctx, genai.Text(config.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}

// Synthesize requests one image from Gemini, composed over the shared
// background bitmap, and returns the first inline image payload in the
// response. A response without an image payload is an error; the caller
// decides whether that fails the run or just one entity.
func (g *Gemini) Synthesize(ctx context.Context, prompt, aspectRatio string, background []byte) ([]byte, error) {
	client, err := newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	modelName := os.Getenv("CAMSHELF_IMAGE_MODEL")
	if modelName == "" {
		modelName = "gemini-2.0-flash-exp-image-generation"
	}

	model := client.GenerativeModel(modelName)

	parts := []genai.Part{}
	if len(background) > 0 {
		parts = append(parts, genai.ImageData("png", background))
	}
	if aspectRatio != "" {
		prompt = fmt.Sprintf("%s The image must use a %s aspect ratio.", prompt, aspectRatio)
	}
	parts = append(parts, genai.Text(prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return blob.Data, nil
			}
		}
	}

	return nil, fmt.Errorf("no inline image payload in Gemini response")
}
