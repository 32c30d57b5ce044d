package generator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagegen/schema"
)

func TestPostProcess(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"plain object", `{"a":1}`, map[string]any{"a": json.Number("1")}},
		{"fenced", "```json\n{\"a\":\"b\"}\n```", map[string]any{"a": "b"}},
		{"bare fence", "```\n[1,2]\n```", []any{json.Number("1"), json.Number("2")}},
		{"whitespace", "\n  {\"a\":true}  \n", map[string]any{"a": true}},
		{"prose before fence", "Here is the element:\n```json\n{\"a\":\"b\"}\n```\nEnjoy.", map[string]any{"a": "b"}},
		{"prose before object", "Sure! {\"a\":\"b\"}", map[string]any{"a": "b"}},
		{"prose before array", "Result:\n[true]", []any{true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PostProcess(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostProcessErrors(t *testing.T) {
	for _, raw := range []string{"", "   ", "```json\n```", "null"} {
		_, err := PostProcess(raw)
		assert.True(t, errors.Is(err, ErrEmptyResponse), "raw %q: %v", raw, err)
	}

	_, err := PostProcess(`{"a":`)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyResponse))

	_, err = PostProcess(`{"a":1} {"b":2}`)
	require.Error(t, err)
}

func TestElementSchemaCoversVariantFields(t *testing.T) {
	for _, v := range schema.Variants {
		def := ElementSchema(v)
		assert.Equal(t, false, def["additionalProperties"])
		props := def["properties"].(map[string]any)
		required := def["required"].([]string)
		assert.Len(t, required, len(props), string(v))
		assert.Contains(t, required, "type")
		assert.Contains(t, required, "id")
	}
}

func TestMockPayloadsMatchSchema(t *testing.T) {
	out, err := MockLLM{}.Complete(context.Background(), BuildElementsPrompt("queues"))
	require.NoError(t, err)
	v, err := PostProcess(out)
	require.NoError(t, err)
	list, ok := elementList(v)
	require.True(t, ok)
	els, err := schema.ValidateElements(list)
	require.NoError(t, err)
	assert.Len(t, els, len(schema.Variants))
}
