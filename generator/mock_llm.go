package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pagegen/schema"
)

// MockLLM is an offline stand-in that answers with fixed, schema-valid payloads.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if prompt.Schema == nil {
		return fmt.Sprintf("Mock answer for: %s", prompt.User), nil
	}
	topic := strings.TrimSpace(strings.TrimPrefix(prompt.User, "Topic:"))
	if i := strings.IndexByte(topic, '\n'); i >= 0 {
		topic = topic[:i]
	}

	var payload any
	switch name := prompt.Schema.Name; {
	case name == "document":
		payload = mockDocument(topic)
	case name == "elements":
		payload = map[string]any{"elements": mockElements(topic)}
	case strings.HasPrefix(name, "element_"):
		variant, err := schema.ParseVariant(strings.TrimPrefix(name, "element_"))
		if err != nil {
			return "", err
		}
		payload = mockElement(variant, topic)
	default:
		return "", fmt.Errorf("mock llm: unknown schema %q", name)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func mockElement(variant schema.Variant, topic string) schema.Element {
	id := "mock-" + strings.ToLower(string(variant))
	switch variant {
	case schema.VariantHeading:
		return schema.Heading{ID: id, Data: topic, HType: 1}
	case schema.VariantParagraph:
		return schema.Paragraph{ID: id, Data: "A short introduction to " + topic + "."}
	case schema.VariantCode:
		return schema.Code{ID: id, Data: fmt.Sprintf("fmt.Println(%q)", topic), Lang: "go"}
	case schema.VariantBulletList:
		return schema.BulletList{ID: id, Items: []schema.ListItem{
			{ID: id + "-1", Value: "What " + topic + " is"},
			{ID: id + "-2", Value: "Why " + topic + " matters"},
		}}
	case schema.VariantImage:
		return schema.Image{ID: id}
	}
	panic("generator: unhandled element variant " + string(variant))
}

func mockElements(topic string) []schema.Element {
	out := make([]schema.Element, 0, len(schema.Variants))
	for _, v := range schema.Variants {
		out = append(out, mockElement(v, topic))
	}
	return out
}

func mockDocument(topic string) schema.Document {
	return schema.Document{
		InternalID: "mock-internal",
		ID:         "mock-document",
		Title:      topic,
		Path:       "/" + strings.Join(strings.Fields(strings.ToLower(topic)), "-"),
		Pages: []schema.Page{
			{PID: "mock-page-1", Heading: "Overview", Elements: mockElements(topic)[:2]},
			{PID: "mock-page-2", Heading: "Details", Elements: mockElements(topic)[2:]},
		},
	}
}

// MockImager returns a stable placeholder URL per prompt.
type MockImager struct{}

func (MockImager) GenerateImage(_ context.Context, prompt string) (string, error) {
	return "https://images.example.com/" + schema.AssignID(schema.VariantImage, prompt, time.Unix(0, 0)) + ".png", nil
}
