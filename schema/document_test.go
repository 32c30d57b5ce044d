package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "internal_id": "a566914b3e2e9e9ab86685de",
  "id": "doc-1",
  "title": "Learning Go",
  "image_uri": "",
  "path": "/learning-go",
  "publish": false,
  "pages": [
    {"p_id": "pg1", "heading": "Basics", "elements": [
      {"type": "Heading", "id": "e1", "data": "Variables", "htype": 2},
      {"type": "Paragraph", "id": "e2", "data": "Declare with var."},
      {"type": "Code", "id": "e3", "data": "var x int", "lang": "go"}
    ]},
    {"p_id": "pg2", "heading": "Next", "elements": [
      {"type": "BulletList", "id": "e4", "items": [{"id": "i1", "value": "maps"}, {"id": "i2", "value": "slices"}]},
      {"type": "Image", "id": "e5", "uri": "https://example.com/go.png"}
    ]}
  ]
}`

func elementIDs(doc Document) []string {
	var ids []string
	for _, p := range doc.Pages {
		for _, el := range p.Elements {
			ids = append(ids, el.ElementID())
		}
	}
	return ids
}

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument([]byte(sampleDocument))
	require.NoError(t, err)
	assert.Equal(t, "Learning Go", doc.Title)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "pg2", doc.Pages[1].PID)
	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "e5"}, elementIDs(doc))
	assert.Equal(t, BulletList{ID: "e4", Items: []ListItem{{ID: "i1", Value: "maps"}, {ID: "i2", Value: "slices"}}}, doc.Pages[1].Elements[0])
}

func TestDocumentRoundTripPreservesOrder(t *testing.T) {
	doc, err := DecodeDocument([]byte(sampleDocument))
	require.NoError(t, err)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	again, err := DecodeDocument(out)
	require.NoError(t, err)

	assert.Equal(t, doc, again)
	assert.JSONEq(t, sampleDocument, string(out))
}

func TestValidateDocument_Errors(t *testing.T) {
	base := func() map[string]any {
		var raw map[string]any
		require.NoError(t, decodeJSON([]byte(sampleDocument), &raw))
		return raw
	}

	t.Run("missing pages", func(t *testing.T) {
		raw := base()
		delete(raw, "pages")
		_, err := ValidateDocument(raw)
		requireKind(t, err, MissingField, "pages")
	})

	t.Run("nested element path", func(t *testing.T) {
		raw := base()
		el := raw["pages"].([]any)[1].(map[string]any)["elements"].([]any)[0].(map[string]any)
		el["items"] = []any{}
		_, err := ValidateDocument(raw)
		verr := requireKind(t, err, EmptyValue, "items")
		assert.Equal(t, "pages[1].elements[0]", verr.Path)
	})

	t.Run("elements before page fields", func(t *testing.T) {
		raw := base()
		page := raw["pages"].([]any)[0].(map[string]any)
		page["heading"] = ""
		delete(page["elements"].([]any)[1].(map[string]any), "data")
		_, err := ValidateDocument(raw)
		requireKind(t, err, MissingField, "data")
	})

	t.Run("empty heading", func(t *testing.T) {
		raw := base()
		raw["pages"].([]any)[0].(map[string]any)["heading"] = " "
		_, err := ValidateDocument(raw)
		verr := requireKind(t, err, EmptyValue, "heading")
		assert.Equal(t, "pages[0]", verr.Path)
	})

	t.Run("empty title", func(t *testing.T) {
		raw := base()
		raw["title"] = ""
		_, err := ValidateDocument(raw)
		requireKind(t, err, EmptyValue, "title")
	})

	t.Run("empty path", func(t *testing.T) {
		raw := base()
		raw["path"] = ""
		_, err := ValidateDocument(raw)
		requireKind(t, err, EmptyValue, "path")
	})

	t.Run("publish not boolean", func(t *testing.T) {
		raw := base()
		raw["publish"] = "yes"
		_, err := ValidateDocument(raw)
		requireKind(t, err, TypeMismatch, "publish")
	})
}
