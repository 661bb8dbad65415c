// Package filter shapes search form state into the request body the
// *ByFilter endpoints expect.
//
// A field that is present is wrapped as {"value": V}. A field that is absent
// is left out of the body, so the server does not filter on it. The explicit
// Empty marker sends {"value": null}, which the server reads as "match empty
// values".
package filter

import (
	"reflect"
	"strings"

	"github.com/me/heroconsole/pkg/model"
)

// Fields maps form field names to optional values.
// nil, "" and nil pointers are absent.
type Fields map[string]any

// Envelope marks a field as present and searchable.
type Envelope struct {
	Value any `json:"value"`
}

type emptyMarker struct{}

// Empty asks the server to match records where the field is empty.
var Empty = emptyMarker{}

// Build converts fields into a request body and merges the pagination numbers
// when page is non-nil. The input is not modified.
func Build(fields Fields, page *model.PageRequest) map[string]any {
	out := make(map[string]any, len(fields)+2)
	for name, v := range fields {
		if _, ok := v.(emptyMarker); ok {
			out[name] = Envelope{Value: nil}
			continue
		}
		v, ok := defined(v)
		if !ok {
			continue
		}
		out[name] = Envelope{Value: v}
	}
	if page != nil {
		out["pageNumber"] = page.PageNumber
		out["pageSize"] = page.PageSize
	}
	return out
}

// Page is shorthand for a PageRequest pointer.
func Page(number, size int) *model.PageRequest {
	return &model.PageRequest{PageNumber: number, PageSize: size}
}

// defined reports whether v counts as present, dereferencing pointers.
func defined(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String && rv.Len() == 0 {
		return nil, false
	}
	return rv.Interface(), true
}

// FromStruct collects the exported fields of a form struct into Fields, keyed
// by their json tag names. Fields tagged "-" are skipped. Zero strings and nil
// pointers are carried over and later dropped by Build.
func FromStruct(v any) Fields {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Fields{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Fields{}
	}

	rt := rv.Type()
	out := make(Fields, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		out[name] = rv.Field(i).Interface()
	}
	return out
}
