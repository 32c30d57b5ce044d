package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pagegen/schema"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts Markdown to HTML. Raw HTML in the source is not passed through.
func HTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Markdown renders a log payload: a string as-is, elements and documents as Markdown.
func Markdown(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case schema.Document:
		return Document(t)
	case []schema.Element:
		return Elements(t)
	case schema.Element:
		return Element(t)
	}
	return fmt.Sprintf("%v", v)
}

func Document(doc schema.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.Title)
	if doc.ImageURI != "" {
		fmt.Fprintf(&sb, "![%s](%s)\n\n", doc.Title, doc.ImageURI)
	}
	for _, p := range doc.Pages {
		fmt.Fprintf(&sb, "## %s\n\n", p.Heading)
		sb.WriteString(Elements(p.Elements))
	}
	return sb.String()
}

func Elements(els []schema.Element) string {
	var sb strings.Builder
	for _, el := range els {
		sb.WriteString(Element(el))
	}
	return sb.String()
}

func Element(el schema.Element) string {
	switch e := el.(type) {
	case schema.Heading:
		level := e.HType
		if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + e.Data + "\n\n"
	case schema.Paragraph:
		return e.Data + "\n\n"
	case schema.Code:
		fence := "```"
		for strings.Contains(e.Data, fence) {
			fence += "`"
		}
		return fence + e.Lang + "\n" + strings.TrimRight(e.Data, "\n") + "\n" + fence + "\n\n"
	case schema.BulletList:
		var sb strings.Builder
		for _, it := range e.Items {
			sb.WriteString("- " + it.Value + "\n")
		}
		sb.WriteString("\n")
		return sb.String()
	case schema.Image:
		if e.URI == "" {
			return "_(image pending)_\n\n"
		}
		return "![](" + e.URI + ")\n\n"
	}
	panic("render: unhandled element type")
}
