package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicLLM implements LLMClient with the Messages API. Structured prompts force a
// single tool call whose input schema is the prompt's schema; the tool input is the reply.
type AnthropicLLM struct {
	Model  string
	client anthropic.Client
}

func NewAnthropicLLMFromConfig(cfg *LLMSettings) (*AnthropicLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic api key missing; provide llm.api_key or llm.api_key_env")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []aoption.RequestOption{aoption.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, aoption.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicLLM{Model: cfg.Model, client: anthropic.NewClient(opts...)}, nil
}

func (a *AnthropicLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropicParams(a.Model, prompt))
	if err != nil {
		return "", err
	}
	if prompt.Schema != nil {
		for _, block := range msg.Content {
			if tu, ok := block.AsAny().(anthropic.ToolUseBlock); ok && tu.Name == prompt.Schema.Name && len(tu.Input) > 0 {
				return string(tu.Input), nil
			}
		}
		return "", fmt.Errorf("anthropic: no %s tool call: %w", prompt.Schema.Name, ErrEmptyResponse)
	}
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: no text content: %w", ErrEmptyResponse)
	}
	return sb.String(), nil
}

func anthropicParams(model string, prompt Prompt) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	}
	if prompt.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: prompt.System}}
	}
	if prompt.Schema == nil {
		return params
	}
	def := prompt.Schema.Definition
	required, _ := def["required"].([]string)
	tool := anthropic.ToolParam{
		Name:        prompt.Schema.Name,
		Description: anthropic.String(prompt.Schema.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Type:        "object",
			Properties:  def["properties"],
			Required:    required,
			ExtraFields: map[string]any{"additionalProperties": false},
		},
	}
	params.Tools = []anthropic.ToolUnionParam{{OfTool: &tool}}
	params.ToolChoice = anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: prompt.Schema.Name},
	}
	return params
}
