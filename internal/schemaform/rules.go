// Package schemaform renders editable forms from a sample-value schema.
//
// The widget of each field is inferred from its name and sample value by an
// ordered rule table; the first matching rule wins.
package schemaform

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// WidgetKind is the input control inferred for a field.
type WidgetKind string

const (
	KindText     WidgetKind = "text"
	KindTextArea WidgetKind = "textarea"
	KindRichText WidgetKind = "richtext"
	KindCheckbox WidgetKind = "checkbox"
	KindNumber   WidgetKind = "number"
	KindFile     WidgetKind = "file"
	KindGroup    WidgetKind = "group"
	KindEmail    WidgetKind = "email"
	KindURL      WidgetKind = "url"
	KindSelect   WidgetKind = "select"
	KindPassword WidgetKind = "password"
	KindColor    WidgetKind = "color"
	KindDate     WidgetKind = "date"
)

// Rule maps a name/value shape to a widget kind.
type Rule struct {
	Name  string
	Kind  WidgetKind
	Match func(name string, value any) bool
}

func nameHas(subs ...string) func(string, any) bool {
	return func(name string, _ any) bool {
		lower := strings.ToLower(name)
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

func valueIs(pred func(any) bool) func(string, any) bool {
	return func(_ string, v any) bool { return pred(v) }
}

func either(a, b func(string, any) bool) func(string, any) bool {
	return func(n string, v any) bool { return a(n, v) || b(n, v) }
}

// Rules is the inference table in evaluation order.
var Rules = []Rule{
	{Name: "file-name", Kind: KindFile, Match: nameHas("file", "attachment", "upload")},
	{Name: "boolean", Kind: KindCheckbox, Match: valueIs(isBool)},
	{Name: "number", Kind: KindNumber, Match: valueIs(isNumber)},
	{Name: "file-sequence", Kind: KindFile, Match: valueIs(isFileSequence)},
	{Name: "sequence", Kind: KindTextArea, Match: valueIs(isSequence)},
	{Name: "object", Kind: KindGroup, Match: valueIs(isObject)},
	{Name: "email", Kind: KindEmail, Match: nameHas("email")},
	{Name: "url", Kind: KindURL, Match: nameHas("url", "link")},
	{Name: "status", Kind: KindSelect, Match: nameHas("status")},
	{Name: "password", Kind: KindPassword, Match: nameHas("password")},
	{Name: "color", Kind: KindColor, Match: nameHas("color")},
	{Name: "date", Kind: KindDate, Match: either(nameHas("date"), valueIs(isTime))},
	{Name: "description", Kind: KindRichText, Match: nameHas("description", "details")},
}

// Infer returns the widget for a field. Unmatched fields are plain text.
func Infer(name string, value any) WidgetKind {
	for _, r := range Rules {
		if r.Match(name, value) {
			return r.Kind
		}
	}
	return KindText
}

// ReadOnly reports whether a field is locked regardless of its kind.
func ReadOnly(name string) bool {
	return strings.Contains(strings.ToLower(name), "reference")
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

func isTime(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func isFileSequence(v any) bool {
	if !isSequence(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Len() == 0 {
		return false
	}
	first := rv.Index(0)
	for first.Kind() == reflect.Interface || first.Kind() == reflect.Pointer {
		if first.IsNil() {
			return false
		}
		first = first.Elem()
	}
	if first.Kind() != reflect.Map || first.Type().Key().Kind() != reflect.String {
		return false
	}
	return first.MapIndex(reflect.ValueOf("filename").Convert(first.Type().Key())).IsValid()
}

func isObject(v any) bool {
	if v == nil || isTime(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
}
