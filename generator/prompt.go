package generator

import (
	"fmt"
	"strings"

	"pagegen/schema"
)

// Prompt is a single-turn request to the model. Schema, when set, constrains the
// reply to JSON matching Schema.Definition.
type Prompt struct {
	System string
	User   string
	Schema *Schema
}

// Schema names a JSON Schema used for structured output.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

const writerSystem = "You are a technical writer who produces concise, well structured web page content."

// BuildTextPrompt asks for a free-text answer.
func BuildTextPrompt(message string) Prompt {
	return Prompt{
		System: "You are a helpful assistant. Answer in Markdown.",
		User:   message,
	}
}

// BuildDocumentPrompt asks for a full multi-page document on topic.
func BuildDocumentPrompt(topic string) Prompt {
	var sb strings.Builder
	sb.WriteString(writerSystem + "\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Split the document into pages, each with a heading and ordered elements.\n")
	sb.WriteString("- Use Heading, Paragraph, Code, BulletList and Image elements.\n")
	sb.WriteString("- Give every document, page, element and list item a non-empty id.\n")
	sb.WriteString("- path is a URL path slug derived from the title, starting with '/'.\n")
	sb.WriteString("- Leave image uris empty; images are generated separately.\n")
	return Prompt{
		System: sb.String(),
		User:   fmt.Sprintf("Topic: %s\nWrite the document.", topic),
		Schema: &Schema{Name: "document", Description: "A document made of pages of elements", Definition: DocumentSchema()},
	}
}

// BuildElementPrompt asks for one element of the given variant.
func BuildElementPrompt(topic string, variant schema.Variant) Prompt {
	var hint string
	switch variant {
	case schema.VariantHeading:
		hint = "a heading; htype is the level, 1 for the top level"
	case schema.VariantParagraph:
		hint = "a single paragraph of prose"
	case schema.VariantCode:
		hint = "a short code sample; lang names its programming language"
	case schema.VariantBulletList:
		hint = "a bullet list with at least two items"
	case schema.VariantImage:
		hint = "an image placeholder; leave uri empty"
	}
	return Prompt{
		System: writerSystem + "\nProduce exactly one " + string(variant) + " element: " + hint + ".",
		User:   fmt.Sprintf("Topic: %s", topic),
		Schema: &Schema{
			Name:        "element_" + string(variant),
			Description: "A single " + string(variant) + " page element",
			Definition:  ElementSchema(variant),
		},
	}
}

// BuildElementsPrompt asks for an ordered list of mixed elements.
func BuildElementsPrompt(topic string) Prompt {
	return Prompt{
		System: writerSystem + "\nProduce the elements of one page in presentation order. Leave image uris empty.",
		User:   fmt.Sprintf("Topic: %s", topic),
		Schema: &Schema{Name: "elements", Description: "Ordered page elements", Definition: ElementsSchema()},
	}
}

// BuildImagePrompt is the prompt sent to the image model.
func BuildImagePrompt(topic string) string {
	return fmt.Sprintf("An illustration for a web page about: %s", topic)
}
