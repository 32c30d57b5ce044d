package schema

import (
	"encoding/json"
	"strings"
)

// Variant names the closed set of page element kinds.
type Variant string

const (
	VariantHeading    Variant = "Heading"
	VariantParagraph  Variant = "Paragraph"
	VariantCode       Variant = "Code"
	VariantBulletList Variant = "BulletList"
	VariantImage      Variant = "Image"
)

// Variants lists every element kind in presentation order of the docs.
var Variants = []Variant{VariantHeading, VariantParagraph, VariantCode, VariantBulletList, VariantImage}

// ParseVariant is case-sensitive.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantHeading, VariantParagraph, VariantCode, VariantBulletList, VariantImage:
		return v, nil
	}
	return "", &ValidationError{Kind: UnknownVariant, Field: "type", Actual: s}
}

// Element is one of Heading, Paragraph, Code, BulletList or Image.
type Element interface {
	Variant() Variant
	ElementID() string
	isElement()
}

type Heading struct {
	ID    string `json:"id"`
	Data  string `json:"data"`
	HType int    `json:"htype"`
}

type Paragraph struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

type Code struct {
	ID   string `json:"id"`
	Data string `json:"data"`
	Lang string `json:"lang"`
}

type BulletList struct {
	ID    string     `json:"id"`
	Items []ListItem `json:"items"`
}

type ListItem struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Image.URI stays empty until image generation fills it.
type Image struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

func (Heading) Variant() Variant    { return VariantHeading }
func (Paragraph) Variant() Variant  { return VariantParagraph }
func (Code) Variant() Variant       { return VariantCode }
func (BulletList) Variant() Variant { return VariantBulletList }
func (Image) Variant() Variant      { return VariantImage }

func (e Heading) ElementID() string    { return e.ID }
func (e Paragraph) ElementID() string  { return e.ID }
func (e Code) ElementID() string       { return e.ID }
func (e BulletList) ElementID() string { return e.ID }
func (e Image) ElementID() string      { return e.ID }

func (Heading) isElement()    {}
func (Paragraph) isElement()  {}
func (Code) isElement()       {}
func (BulletList) isElement() {}
func (Image) isElement()      {}

// The wire form is a flat object carrying a "type" discriminator next to the variant fields.

func (e Heading) MarshalJSON() ([]byte, error) {
	type plain Heading
	return json.Marshal(struct {
		Type Variant `json:"type"`
		plain
	}{VariantHeading, plain(e)})
}

func (e Paragraph) MarshalJSON() ([]byte, error) {
	type plain Paragraph
	return json.Marshal(struct {
		Type Variant `json:"type"`
		plain
	}{VariantParagraph, plain(e)})
}

func (e Code) MarshalJSON() ([]byte, error) {
	type plain Code
	return json.Marshal(struct {
		Type Variant `json:"type"`
		plain
	}{VariantCode, plain(e)})
}

func (e BulletList) MarshalJSON() ([]byte, error) {
	type plain BulletList
	if e.Items == nil {
		e.Items = []ListItem{}
	}
	return json.Marshal(struct {
		Type Variant `json:"type"`
		plain
	}{VariantBulletList, plain(e)})
}

func (e Image) MarshalJSON() ([]byte, error) {
	type plain Image
	return json.Marshal(struct {
		Type Variant `json:"type"`
		plain
	}{VariantImage, plain(e)})
}

// PrimaryContent returns the text an element's identifier is derived from.
func PrimaryContent(el Element) string {
	switch e := el.(type) {
	case Heading:
		return e.Data
	case Paragraph:
		return e.Data
	case Code:
		return e.Data
	case BulletList:
		values := make([]string, len(e.Items))
		for i, it := range e.Items {
			values[i] = it.Value
		}
		return strings.Join(values, "\n")
	case Image:
		return e.URI
	}
	panic("schema: unhandled element type")
}

// WithID returns a copy of el carrying id.
func WithID(el Element, id string) Element {
	switch e := el.(type) {
	case Heading:
		e.ID = id
		return e
	case Paragraph:
		e.ID = id
		return e
	case Code:
		e.ID = id
		return e
	case BulletList:
		e.ID = id
		return e
	case Image:
		e.ID = id
		return e
	}
	panic("schema: unhandled element type")
}

// WithURI fills the URI of an Image; other variants are returned unchanged.
func WithURI(el Element, uri string) Element {
	if img, ok := el.(Image); ok {
		img.URI = uri
		return img
	}
	return el
}
