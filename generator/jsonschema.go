package generator

import "pagegen/schema"

// The definitions below follow the strict structured-output subset: every property
// is required and additionalProperties is false.

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func str() map[string]any { return map[string]any{"type": "string"} }

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

// ElementSchema describes one variant as a flat object tagged by "type".
func ElementSchema(variant schema.Variant) map[string]any {
	tag := map[string]any{"type": "string", "enum": []string{string(variant)}}
	switch variant {
	case schema.VariantHeading:
		return object(map[string]any{"type": tag, "id": str(), "data": str(), "htype": map[string]any{"type": "integer"}},
			"type", "id", "data", "htype")
	case schema.VariantParagraph:
		return object(map[string]any{"type": tag, "id": str(), "data": str()},
			"type", "id", "data")
	case schema.VariantCode:
		return object(map[string]any{"type": tag, "id": str(), "data": str(), "lang": str()},
			"type", "id", "data", "lang")
	case schema.VariantBulletList:
		item := object(map[string]any{"id": str(), "value": str()}, "id", "value")
		return object(map[string]any{"type": tag, "id": str(), "items": arrayOf(item)},
			"type", "id", "items")
	case schema.VariantImage:
		return object(map[string]any{"type": tag, "id": str(), "uri": str()},
			"type", "id", "uri")
	}
	panic("generator: unhandled element variant " + string(variant))
}

func anyElement() map[string]any {
	variants := make([]any, 0, len(schema.Variants))
	for _, v := range schema.Variants {
		variants = append(variants, ElementSchema(v))
	}
	return map[string]any{"anyOf": variants}
}

// ElementsSchema wraps the list in an object since structured output needs an object root.
func ElementsSchema() map[string]any {
	return object(map[string]any{"elements": arrayOf(anyElement())}, "elements")
}

func DocumentSchema() map[string]any {
	page := object(map[string]any{
		"p_id":     str(),
		"heading":  str(),
		"elements": arrayOf(anyElement()),
	}, "p_id", "heading", "elements")
	return object(map[string]any{
		"internal_id": str(),
		"id":          str(),
		"title":       str(),
		"pages":       arrayOf(page),
		"image_uri":   str(),
		"path":        str(),
		"publish":     map[string]any{"type": "boolean"},
	}, "internal_id", "id", "title", "pages", "image_uri", "path", "publish")
}
