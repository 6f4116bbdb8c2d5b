package types

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// ExValues is a generic container for HTTP request parameters.
//
// Design notes:
//
//   - order keeps the first-seen order of keys.
//   - values stores one or more values per key.
//   - EncodeQuery preserves key order and value order.
//   - Sorted returns a copy ordered by key, used by signers.
type ExValues struct {
	order  []string
	values map[string][]string
}

// NewExValues creates a new ExValues instance.
func NewExValues() *ExValues {
	return &ExValues{
		order:  make([]string, 0),
		values: make(map[string][]string),
	}
}

// ExValuesFromMap builds ExValues from a plain map with keys sorted.
func ExValuesFromMap(m map[string]any) *ExValues {
	v := NewExValues()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.SetAny(k, m[k])
	}
	return v
}

// Set sets a single value for the given key.
// If the key appears for the first time, its position is recorded in order.
func (v *ExValues) Set(key, value string) {
	if _, exists := v.values[key]; !exists {
		v.order = append(v.order, key)
	}
	v.values[key] = []string{value}
}

// SetAny formats common scalar types and sets them under key.
// A nil value is ignored.
func (v *ExValues) SetAny(key string, value any) {
	if value == nil {
		return
	}
	v.Set(key, formatValue(value))
}

// Add appends a value for the given key.
// The key's order is preserved based on its first appearance.
func (v *ExValues) Add(key, value string) {
	if _, exists := v.values[key]; !exists {
		v.order = append(v.order, key)
	}
	v.values[key] = append(v.values[key], value)
}

// Delete removes key and its values.
func (v *ExValues) Delete(key string) {
	if _, ok := v.values[key]; !ok {
		return
	}
	delete(v.values, key)
	for i, k := range v.order {
		if k == key {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

// Merge copies every key of other into v, replacing existing values.
func (v *ExValues) Merge(other *ExValues) {
	if other == nil {
		return
	}
	for _, key := range other.order {
		if _, exists := v.values[key]; !exists {
			v.order = append(v.order, key)
		}
		v.values[key] = append([]string(nil), other.values[key]...)
	}
}

// Clone returns a deep copy.
func (v *ExValues) Clone() *ExValues {
	c := NewExValues()
	c.Merge(v)
	return c
}

// Sorted returns a copy whose keys are in ascending order.
func (v *ExValues) Sorted() *ExValues {
	keys := append([]string(nil), v.order...)
	sort.Strings(keys)
	c := NewExValues()
	for _, k := range keys {
		c.order = append(c.order, k)
		c.values[k] = append([]string(nil), v.values[k]...)
	}
	return c
}

// Keys returns keys in insertion order.
func (v *ExValues) Keys() []string {
	return append([]string(nil), v.order...)
}

// Len returns the number of keys.
func (v *ExValues) Len() int {
	return len(v.order)
}

// EncodeQuery encodes parameters as a URL query string.
// The output preserves the original insertion order of keys.
func (v *ExValues) EncodeQuery() string {
	return v.encode(url.QueryEscape)
}

// EncodeRaw joins key=value pairs without any escaping.
func (v *ExValues) EncodeRaw() string {
	return v.encode(func(s string) string { return s })
}

func (v *ExValues) encode(escape func(string) string) string {
	if len(v.order) == 0 {
		return ""
	}

	var buf strings.Builder

	for _, key := range v.order {
		vs, ok := v.values[key]
		if !ok {
			continue
		}

		keyEscaped := escape(key)

		for _, value := range vs {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			}
			buf.WriteString(keyEscaped)
			buf.WriteByte('=')
			buf.WriteString(escape(value))
		}
	}

	return buf.String()
}

// EncodeMap encodes parameters into a map representation.
//
//   - single value  -> string
//   - multiple values -> []string
func (v *ExValues) EncodeMap() map[string]any {
	m := make(map[string]any, len(v.values))

	for _, key := range v.order {
		vs := v.values[key]
		if len(vs) == 1 {
			m[key] = vs[0]
		} else if len(vs) > 1 {
			m[key] = vs
		}
	}

	return m
}

// EncodeJSON encodes parameters into a JSON byte slice.
func (v *ExValues) EncodeJSON() ([]byte, error) {
	return json.Marshal(v.EncodeMap())
}

// JoinPath joins the encoded query string to the given path.
func (v *ExValues) JoinPath(path string) string {
	query := v.EncodeQuery()
	if query == "" {
		return path
	}

	if strings.Contains(path, "?") {
		return path + "&" + query
	}

	return path + "?" + query
}

// Has reports whether the given key exists.
func (v *ExValues) Has(key string) bool {
	_, ok := v.values[key]
	return ok
}

// Get returns the first value associated with the given key.
func (v *ExValues) Get(key string) string {
	if vs := v.values[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Reset clears all stored parameters.
func (v *ExValues) Reset() {
	v.order = v.order[:0]
	v.values = make(map[string][]string)
}

func formatValue(value any) string {
	switch val := value.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case decimal.Decimal:
		return val.String()
	case ExDecimal:
		return val.String()
	default:
		s, _ := ToString(val)
		return s
	}
}
