package integrations

import (
	"encoding"
	"encoding/json"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/cratesio/pkg/errors"
)

// apiErrors is the envelope the registry uses to report failures, often
// inside a 200 response.
type apiErrors struct {
	Errors *[]struct {
		Detail *string `json:"detail"`
	} `json:"errors"`
}

// Decode decodes a response body into a T. See [DecodeInto].
func Decode[T any](body []byte) (T, error) {
	var v T
	err := DecodeInto(body, &v)
	return v, err
}

// DecodeInto decodes a 2xx response body into v in two phases:
//
//  1. If the body is an error envelope ({"errors": [{"detail": ...}]}), an
//     API_ERROR is returned with the joined details, even if the body would
//     also decode into v. The registry does not reliably use non-2xx
//     statuses for these.
//  2. Otherwise the body is decoded into v. A mismatch is reported as
//     JSON_DECODE_ERROR carrying the parser message and the JSON path at
//     which decoding failed (e.g. ".crate.versions[0].license").
func DecodeInto(body []byte, v any) error {
	var envelope apiErrors
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Errors != nil {
		details := make([]string, 0, len(*envelope.Errors))
		for _, e := range *envelope.Errors {
			var d string
			if e.Detail != nil {
				d = *e.Detail
			}
			details = append(details, d)
		}
		return errors.API(details)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Decode(err, jsonPath(body, reflect.TypeOf(v)))
	}
	return nil
}

// jsonPath locates the value that failed to decode into t and returns its
// structural path, such as ".crate.versions[0].license". The body is
// decoded again piece by piece: the walk descends into the first object
// member or array element that still fails and stops at values whose type
// decodes itself (time.Time, Date) or at scalars. A body that is not valid
// JSON reports ".".
func jsonPath(body []byte, t reflect.Type) string {
	if t == nil || !json.Valid(body) {
		return "."
	}
	p := locate(body, t, "")
	if p == "" {
		return "."
	}
	return p
}

var (
	jsonUnmarshaler = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
)

func locate(raw json.RawMessage, t reflect.Type, path string) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if decodes(raw, t) {
		return ""
	}
	if pt := reflect.PointerTo(t); pt.Implements(jsonUnmarshaler) || pt.Implements(textUnmarshaler) {
		return path
	}

	switch t.Kind() {
	case reflect.Struct:
		var members map[string]json.RawMessage
		if json.Unmarshal(raw, &members) != nil {
			return path
		}
		fields := structFields(t)
		for _, key := range sortedKeys(members) {
			f, ok := matchField(fields, key)
			if !ok {
				continue
			}
			if p := locate(members[key], f.Type, path+"."+key); p != "" {
				return p
			}
		}
	case reflect.Slice, reflect.Array:
		var elems []json.RawMessage
		if json.Unmarshal(raw, &elems) != nil {
			return path
		}
		for i, elem := range elems {
			if p := locate(elem, t.Elem(), path+"["+strconv.Itoa(i)+"]"); p != "" {
				return p
			}
		}
	case reflect.Map:
		var members map[string]json.RawMessage
		if json.Unmarshal(raw, &members) != nil {
			return path
		}
		for _, key := range sortedKeys(members) {
			if p := locate(members[key], t.Elem(), path+"."+key); p != "" {
				return p
			}
		}
	}
	return path
}

func decodes(raw json.RawMessage, t reflect.Type) bool {
	return json.Unmarshal(raw, reflect.New(t).Interface()) == nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// structFields lists the JSON members of t, flattening untagged embedded
// structs the way encoding/json does.
func structFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for i := range t.NumField() {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				fields = append(fields, structFields(ft)...)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if tag != "" {
			f.Name = tag
		}
		fields = append(fields, f)
	}
	return fields
}

// matchField prefers an exact name and falls back to a case-insensitive one.
func matchField(fields []reflect.StructField, key string) (reflect.StructField, bool) {
	for _, f := range fields {
		if f.Name == key {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.Name, key) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}
