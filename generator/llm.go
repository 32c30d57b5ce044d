package generator

import "context"

// LLMClient abstracts the completion model so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ImageClient turns a text prompt into the URI of a generated image.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// LLMSettings is the provider configuration handed to concrete clients.
type LLMSettings struct {
	Provider   string
	Model      string
	ImageModel string
	APIKey     string
	BaseURL    string
}
