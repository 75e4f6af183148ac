package validation

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Params is the flat input map of one validation run.
type Params map[string]any

// Lookup returns the value of field; nil values count as absent.
func (p Params) Lookup(field string) (any, bool) {
	v, ok := p[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether field is present.
func (p Params) Has(field string) bool {
	_, ok := p.Lookup(field)
	return ok
}

// String returns the string form of a scalar field, or "" when absent.
func (p Params) String(field string) string {
	v, ok := p.Lookup(field)
	if !ok {
		return ""
	}
	s, _ := scalarString(v)
	return s
}

// ── Scalars ──────────────────────────────────────────────────────────────────

// numericPattern accepts the broad numeric-string grammar: surrounding
// whitespace, optional sign, digits with optional fraction, optional exponent.
var numericPattern = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?[ \t\n\r\v\f]*$`)

// scalarString converts a scalar to the string it would be submitted as.
// Collections and unsupported kinds report false.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		if x {
			return "1", true
		}
		return "", true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.String:
		return rv.String(), true
	}
	return "", false
}

// isNumeric mirrors the loose "is this a number" check used by HTML forms:
// native numbers pass, strings must match numericPattern.
func isNumeric(v any) bool {
	switch x := v.(type) {
	case string:
		return numericPattern.MatchString(x)
	case json.Number:
		return numericPattern.MatchString(x.String())
	case bool, nil:
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isInteger is true only for native integer values. A json.Number counts when
// it holds an integer literal, since that is how JSON bodies carry ints.
func isInteger(v any) bool {
	if n, ok := v.(json.Number); ok {
		_, err := strconv.ParseInt(n.String(), 10, 64)
		return err == nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// toNumber returns the float value of a numeric scalar.
func toNumber(v any) (float64, bool) {
	if !isNumeric(v) {
		return 0, false
	}
	s, ok := scalarString(v)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// compare orders two scalars: numerically when both are numeric, otherwise
// by their string forms. ok is false when either side is not a scalar.
func compare(a, b any) (cmp int, ok bool) {
	if fa, okA := toNumber(a); okA {
		if fb, okB := toNumber(b); okB {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
	}
	sa, okA := scalarString(a)
	sb, okB := scalarString(b)
	if !okA || !okB {
		return 0, false
	}
	return strings.Compare(sa, sb), true
}

// ── Strings ──────────────────────────────────────────────────────────────────

// charLength counts user-visible characters: composed code points for valid
// UTF-8, bytes for anything else (single-byte encodings).
func charLength(s string) int {
	if !utf8.ValidString(s) {
		return len(s)
	}
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// valueLength is charLength of a scalar's string form, or the element count
// of a collection.
func valueLength(v any) int {
	if s, ok := scalarString(v); ok {
		return charLength(s)
	}
	if n, ok := collectionLen(v); ok {
		return n
	}
	return 0
}

// ── Collections ──────────────────────────────────────────────────────────────

func isCollection(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

func collectionLen(v any) (int, bool) {
	if !isCollection(v) {
		return 0, false
	}
	return reflect.ValueOf(v).Len(), true
}

// eachItem calls fn for every element (or map value) until fn returns false.
func eachItem(v any, fn func(item any) bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !fn(rv.Index(i).Interface()) {
				return
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if !fn(iter.Value().Interface()) {
				return
			}
		}
	}
}
