package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"pagegen/schema"
)

// Agent turns a topic into validated content: prompt, call the model, post-process,
// validate, then fill images and stamp identifiers where required.
type Agent struct {
	llm    LLMClient
	images ImageClient
	logger *zap.Logger
	now    func() time.Time

	stampNested bool
}

type Option func(*Agent)

func WithImageClient(c ImageClient) Option { return func(a *Agent) { a.images = c } }

func WithLogger(l *zap.Logger) Option { return func(a *Agent) { a.logger = l } }

func WithClock(now func() time.Time) Option { return func(a *Agent) { a.now = now } }

// WithNestedStamping makes Document and Elements replace model-chosen element ids
// with content-derived ones, as Element always does.
func WithNestedStamping(on bool) Option { return func(a *Agent) { a.stampNested = on } }

func NewAgent(llm LLMClient, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{llm: llm, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Prompt returns the model's free-text answer to message.
func (a *Agent) Prompt(ctx context.Context, message string) (string, error) {
	raw, err := a.complete(ctx, "prompt", BuildTextPrompt(message))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &EmptyResultError{Op: "prompt"}
	}
	return text, nil
}

// Document generates a whole document on topic.
func (a *Agent) Document(ctx context.Context, topic string) (schema.Document, error) {
	v, err := a.completeJSON(ctx, "document", BuildDocumentPrompt(topic))
	if err != nil {
		return schema.Document{}, err
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return schema.Document{}, &schema.ValidationError{Kind: schema.TypeMismatch, Field: "document", Expected: "object", Actual: schema.KindOf(v)}
	}
	doc, err := schema.ValidateDocument(raw)
	if err != nil {
		return schema.Document{}, err
	}
	if a.stampNested {
		at := a.now()
		for i := range doc.Pages {
			for j, el := range doc.Pages[i].Elements {
				doc.Pages[i].Elements[j] = schema.Stamp(el, at)
			}
		}
	}
	return doc, nil
}

// Element generates one element of variant. Images get a generated URI; the result
// always carries a content-derived id.
func (a *Agent) Element(ctx context.Context, topic string, variant schema.Variant) (schema.Element, error) {
	v, err := a.completeJSON(ctx, "element", BuildElementPrompt(topic, variant))
	if err != nil {
		return nil, err
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, &schema.ValidationError{Kind: schema.TypeMismatch, Field: "element", Expected: "object", Actual: schema.KindOf(v)}
	}
	el, err := schema.ValidateElement(raw)
	if err != nil {
		return nil, err
	}
	if el.Variant() != variant {
		return nil, &schema.ValidationError{Kind: schema.InvalidValue, Field: "type", Expected: string(variant), Actual: string(el.Variant())}
	}

	if variant == schema.VariantImage {
		uri, err := a.generateImage(ctx, topic)
		if err != nil {
			return nil, err
		}
		el = schema.WithURI(el, uri)
	}
	return schema.Stamp(el, a.now()), nil
}

// Elements generates an ordered list of elements on topic.
func (a *Agent) Elements(ctx context.Context, topic string) ([]schema.Element, error) {
	v, err := a.completeJSON(ctx, "elements", BuildElementsPrompt(topic))
	if err != nil {
		return nil, err
	}
	list, ok := elementList(v)
	if !ok {
		return nil, &schema.ValidationError{Kind: schema.TypeMismatch, Field: "elements", Expected: "array", Actual: schema.KindOf(v)}
	}
	els, err := schema.ValidateElements(list)
	if err != nil {
		return nil, err
	}
	if a.stampNested {
		at := a.now()
		for i, el := range els {
			els[i] = schema.Stamp(el, at)
		}
	}
	return els, nil
}

func (a *Agent) complete(ctx context.Context, op string, prompt Prompt) (string, error) {
	start := time.Now()
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("completion failed", zap.String("op", op), zap.Error(err))
		return "", classify(op, err)
	}
	a.logger.Debug("completion done",
		zap.String("op", op),
		zap.Duration("took", time.Since(start)),
		zap.Int("bytes", len(raw)),
	)
	return raw, nil
}

func (a *Agent) completeJSON(ctx context.Context, op string, prompt Prompt) (any, error) {
	raw, err := a.complete(ctx, op, prompt)
	if err != nil {
		return nil, err
	}
	v, err := PostProcess(raw)
	if err != nil {
		a.logger.Warn("unusable model output", zap.String("op", op), zap.String("raw", compactJSON(raw)), zap.Error(err))
		return nil, classify(op, err)
	}
	return v, nil
}

func (a *Agent) generateImage(ctx context.Context, topic string) (string, error) {
	if a.images == nil {
		return "", &ExternalCallError{Op: "image", Err: errors.New("no image client configured")}
	}
	uri, err := a.images.GenerateImage(ctx, BuildImagePrompt(topic))
	if err != nil {
		a.logger.Warn("image generation failed", zap.Error(err))
		return "", classify("image", err)
	}
	if strings.TrimSpace(uri) == "" {
		return "", &EmptyResultError{Op: "image"}
	}
	return uri, nil
}
