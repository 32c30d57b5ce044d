package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultImageModel = "dall-e-3"

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// OpenAI-compatible providers such as DeepSeek work through BaseURL.
type OpenAILLM struct {
	Model string
	// JSONObjectOnly is set for endpoints without json_schema support (DeepSeek). The
	// schema then goes into the system prompt and only json_object mode is requested.
	JSONObjectOnly bool
	client         openai.Client
}

func openAIOptions(cfg *LLMSettings) ([]option.RequestOption, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide llm.api_key or llm.api_key_env")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return opts, nil
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	opts, err := openAIOptions(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	return &OpenAILLM{
		Model:          cfg.Model,
		JSONObjectOnly: cfg.Provider == "deepseek",
		client:         openai.NewClient(opts...),
	}, nil
}

func (o *OpenAILLM) chatParams(prompt Prompt) (openai.ChatCompletionNewParams, error) {
	system := prompt.System
	var format openai.ChatCompletionNewParamsResponseFormatUnion
	switch {
	case prompt.Schema == nil:
	case o.JSONObjectOnly:
		var err error
		if system, err = schemaInstructions(prompt); err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		obj := shared.NewResponseFormatJSONObjectParam()
		format.OfJSONObject = &obj
	default:
		format.OfJSONSchema = &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        prompt.Schema.Name,
				Description: openai.String(prompt.Schema.Description),
				Schema:      prompt.Schema.Definition,
				Strict:      openai.Bool(true),
			},
		}
	}
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt.User),
		},
		ResponseFormat: format,
	}, nil
}

// schemaInstructions appends the schema to the system prompt for providers that
// cannot constrain output to it.
func schemaInstructions(prompt Prompt) (string, error) {
	def, err := json.Marshal(prompt.Schema.Definition)
	if err != nil {
		return "", fmt.Errorf("encode %s schema: %w", prompt.Schema.Name, err)
	}
	return prompt.System + "\n\nReply with a single JSON object matching this JSON Schema and nothing else:\n" + string(def), nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	params, err := o.chatParams(prompt)
	if err != nil {
		return "", err
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices: %w", ErrEmptyResponse)
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("openai: model refused: %s", msg.Refusal)
	}
	return msg.Content, nil
}

// OpenAIImager implements ImageClient with the images API, returning hosted URLs.
type OpenAIImager struct {
	Model  string
	client openai.Client
}

func NewOpenAIImagerFromConfig(cfg *LLMSettings) (*OpenAIImager, error) {
	opts, err := openAIOptions(cfg)
	if err != nil {
		return nil, err
	}
	model := cfg.ImageModel
	if model == "" {
		model = defaultImageModel
	}
	return &OpenAIImager{Model: model, client: openai.NewClient(opts...)}, nil
}

func (o *OpenAIImager) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(o.Model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("openai: no image url: %w", ErrEmptyResponse)
	}
	return resp.Data[0].URL, nil
}
