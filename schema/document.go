package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Page struct {
	PID      string    `json:"p_id"`
	Heading  string    `json:"heading"`
	Elements []Element `json:"elements"`
}

func (p Page) MarshalJSON() ([]byte, error) {
	type plain Page
	if p.Elements == nil {
		p.Elements = []Element{}
	}
	return json.Marshal(plain(p))
}

type Document struct {
	InternalID string `json:"internal_id"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Pages      []Page `json:"pages"`
	ImageURI   string `json:"image_uri"`
	Path       string `json:"path"`
	Publish    bool   `json:"publish"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	if d.Pages == nil {
		d.Pages = []Page{}
	}
	return json.Marshal(plain(d))
}

// DecodeDocument parses JSON and validates it as a Document.
func DecodeDocument(data []byte) (Document, error) {
	var raw map[string]any
	if err := decodeJSON(data, &raw); err != nil {
		return Document{}, err
	}
	return ValidateDocument(raw)
}

// DecodeElement parses JSON and validates it as a single Element.
func DecodeElement(data []byte) (Element, error) {
	var raw map[string]any
	if err := decodeJSON(data, &raw); err != nil {
		return nil, err
	}
	return ValidateElement(raw)
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
