package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// fields of each variant, in the order they are checked.
var variantFields = map[Variant][]string{
	VariantHeading:    {"id", "data", "htype"},
	VariantParagraph:  {"id", "data"},
	VariantCode:       {"id", "data", "lang"},
	VariantBulletList: {"id", "items"},
	VariantImage:      {"id", "uri"},
}

// ValidateElement checks raw against the variant named by its "type" field.
func ValidateElement(raw map[string]any) (Element, error) {
	return validateElementAt(raw, "")
}

// ValidateElements validates a list of raw elements, keeping their order.
func ValidateElements(raw []any) ([]Element, error) {
	out := make([]Element, 0, len(raw))
	for i, item := range raw {
		el, err := validateListEntry(item, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// ValidateDocument validates every page's elements, then the page fields, then the document fields.
func ValidateDocument(raw map[string]any) (Document, error) {
	v := fieldReader{raw: raw}
	rawPages, err := v.list("pages")
	if err != nil {
		return Document{}, err
	}

	pages := make([]Page, 0, len(rawPages))
	for i, rp := range rawPages {
		path := fmt.Sprintf("pages[%d]", i)
		m, ok := rp.(map[string]any)
		if !ok {
			return Document{}, &ValidationError{Kind: TypeMismatch, Field: "pages", Path: path, Expected: "object", Actual: KindOf(rp)}
		}
		page, err := validatePage(m, path)
		if err != nil {
			return Document{}, err
		}
		pages = append(pages, page)
	}

	doc := Document{Pages: pages}
	if doc.InternalID, err = v.text("internal_id", false); err != nil {
		return Document{}, err
	}
	if doc.ID, err = v.text("id", false); err != nil {
		return Document{}, err
	}
	if doc.Title, err = v.text("title", false); err != nil {
		return Document{}, err
	}
	if doc.ImageURI, err = v.uri("image_uri"); err != nil {
		return Document{}, err
	}
	if doc.Path, err = v.text("path", false); err != nil {
		return Document{}, err
	}
	if doc.Publish, err = v.boolean("publish"); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func validatePage(raw map[string]any, path string) (Page, error) {
	v := fieldReader{raw: raw, path: path}
	rawElements, err := v.list("elements")
	if err != nil {
		return Page{}, err
	}
	elements := make([]Element, 0, len(rawElements))
	for i, re := range rawElements {
		el, err := validateListEntry(re, fmt.Sprintf("%s.elements[%d]", path, i))
		if err != nil {
			return Page{}, err
		}
		elements = append(elements, el)
	}

	page := Page{Elements: elements}
	if page.PID, err = v.text("p_id", false); err != nil {
		return Page{}, err
	}
	if page.Heading, err = v.text("heading", false); err != nil {
		return Page{}, err
	}
	return page, nil
}

func validateListEntry(item any, path string) (Element, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return nil, &ValidationError{Kind: TypeMismatch, Path: path, Field: "element", Expected: "object", Actual: KindOf(item)}
	}
	return validateElementAt(m, path)
}

func validateElementAt(raw map[string]any, path string) (Element, error) {
	v := fieldReader{raw: raw, path: path}
	name, err := v.text("type", true)
	if err != nil {
		return nil, err
	}
	variant, err := ParseVariant(name)
	if err != nil {
		return nil, v.fail(UnknownVariant, "type", "", name)
	}

	var el Element
	switch variant {
	case VariantHeading:
		el, err = v.heading()
	case VariantParagraph:
		el, err = v.paragraph()
	case VariantCode:
		el, err = v.code()
	case VariantBulletList:
		el, err = v.bulletList()
	case VariantImage:
		el, err = v.image()
	}
	if err != nil {
		return nil, err
	}
	if err := v.rejectExtra(variant); err != nil {
		return nil, err
	}
	return el, nil
}

type fieldReader struct {
	raw  map[string]any
	path string
}

func (v fieldReader) fail(kind ErrorKind, field, expected, actual string) error {
	return &ValidationError{Kind: kind, Path: v.path, Field: field, Expected: expected, Actual: actual}
}

func (v fieldReader) get(name string) (any, error) {
	val, ok := v.raw[name]
	if !ok || val == nil {
		return nil, v.fail(MissingField, name, "", "")
	}
	return val, nil
}

func (v fieldReader) text(name string, allowEmpty bool) (string, error) {
	val, err := v.get(name)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", v.fail(TypeMismatch, name, "string", KindOf(val))
	}
	if !allowEmpty && strings.TrimSpace(s) == "" {
		return "", v.fail(EmptyValue, name, "", "")
	}
	return s, nil
}

func (v fieldReader) integer(name string) (int, error) {
	val, err := v.get(name)
	if err != nil {
		return 0, err
	}
	n, ok := asInt(val)
	if !ok {
		return 0, v.fail(TypeMismatch, name, "integer", KindOf(val))
	}
	return n, nil
}

func (v fieldReader) boolean(name string) (bool, error) {
	val, err := v.get(name)
	if err != nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, v.fail(TypeMismatch, name, "boolean", KindOf(val))
	}
	return b, nil
}

func (v fieldReader) list(name string) ([]any, error) {
	val, err := v.get(name)
	if err != nil {
		return nil, err
	}
	items, ok := val.([]any)
	if !ok {
		return nil, v.fail(TypeMismatch, name, "array", KindOf(val))
	}
	return items, nil
}

// uri accepts an empty string or an absolute URI.
func (v fieldReader) uri(name string) (string, error) {
	s, err := v.text(name, true)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	u, perr := url.Parse(s)
	if perr != nil || u.Scheme == "" || strings.ContainsAny(s, " \t\n") {
		return "", v.fail(InvalidValue, name, "absolute URI", strconv.Quote(s))
	}
	return s, nil
}

func (v fieldReader) heading() (Element, error) {
	var (
		h   Heading
		err error
	)
	if h.ID, err = v.text("id", false); err != nil {
		return nil, err
	}
	if h.Data, err = v.text("data", false); err != nil {
		return nil, err
	}
	if h.HType, err = v.integer("htype"); err != nil {
		return nil, err
	}
	if h.HType < 1 {
		return nil, v.fail(InvalidValue, "htype", "integer >= 1", strconv.Itoa(h.HType))
	}
	return h, nil
}

func (v fieldReader) paragraph() (Element, error) {
	var (
		p   Paragraph
		err error
	)
	if p.ID, err = v.text("id", false); err != nil {
		return nil, err
	}
	if p.Data, err = v.text("data", false); err != nil {
		return nil, err
	}
	return p, nil
}

func (v fieldReader) code() (Element, error) {
	var (
		c   Code
		err error
	)
	if c.ID, err = v.text("id", false); err != nil {
		return nil, err
	}
	if c.Data, err = v.text("data", false); err != nil {
		return nil, err
	}
	if c.Lang, err = v.text("lang", false); err != nil {
		return nil, err
	}
	return c, nil
}

func (v fieldReader) bulletList() (Element, error) {
	var (
		b   BulletList
		err error
	)
	if b.ID, err = v.text("id", false); err != nil {
		return nil, err
	}
	rawItems, err := v.list("items")
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return nil, v.fail(EmptyValue, "items", "", "")
	}
	b.Items = make([]ListItem, 0, len(rawItems))
	for i, ri := range rawItems {
		itemPath := fmt.Sprintf("items[%d]", i)
		if v.path != "" {
			itemPath = v.path + "." + itemPath
		}
		m, ok := ri.(map[string]any)
		if !ok {
			return nil, &ValidationError{Kind: TypeMismatch, Path: itemPath, Field: "item", Expected: "object", Actual: KindOf(ri)}
		}
		iv := fieldReader{raw: m, path: itemPath}
		var item ListItem
		if item.ID, err = iv.text("id", false); err != nil {
			return nil, err
		}
		if item.Value, err = iv.text("value", false); err != nil {
			return nil, err
		}
		if err := iv.rejectOutside(itemFields); err != nil {
			return nil, err
		}
		b.Items = append(b.Items, item)
	}
	return b, nil
}

func (v fieldReader) image() (Element, error) {
	var (
		img Image
		err error
	)
	if img.ID, err = v.text("id", false); err != nil {
		return nil, err
	}
	if img.URI, err = v.uri("uri"); err != nil {
		return nil, err
	}
	return img, nil
}

var itemFields = map[string]bool{"id": true, "value": true}

// rejectExtra fails on any non-null field outside the variant. Null fields are the
// flattened wire form of other variants and are ignored.
func (v fieldReader) rejectExtra(variant Variant) error {
	allowed := map[string]bool{"type": true}
	for _, f := range variantFields[variant] {
		allowed[f] = true
	}
	return v.rejectOutside(allowed)
}

func (v fieldReader) rejectOutside(allowed map[string]bool) error {
	keys := make([]string, 0, len(v.raw))
	for k := range v.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if allowed[k] || v.raw[k] == nil {
			continue
		}
		return v.fail(UnexpectedField, k, "", KindOf(v.raw[k]))
	}
	return nil
}

func asInt(val any) (int, bool) {
	switch n := val.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// KindOf names the JSON kind of a decoded value, as used in TypeMismatch errors.
func KindOf(val any) string {
	switch n := val.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int32, int64:
		return "integer"
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case float64:
		if _, ok := asInt(n); ok {
			return "integer"
		}
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", val)
}
