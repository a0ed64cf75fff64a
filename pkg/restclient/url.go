package restclient

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"
)

// defaultEncodePath escapes a path parameter value while leaving slashes
// intact, matching standard URI encoding.
func defaultEncodePath(s string) string {
	parts := strings.Split(s, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return strings.Join(parts, "/")
}

// buildURL resolves the descriptor's URL template against the configuration:
// `{api-version}` and `{name}` placeholder substitution plus the query
// string. A placeholder without a matching path parameter stays literal.
func buildURL(cfg *Config, d *Descriptor) string {
	encode := cfg.EncodePath
	if encode == nil {
		encode = defaultEncodePath
	}

	path := strings.ReplaceAll(d.URL, "{api-version}", cfg.Version)
	for name, value := range d.Path {
		path = strings.ReplaceAll(path, "{"+name+"}", encode(stringifyScalar(value)))
	}

	u := cfg.Base + path
	if qs := encodeQuery(d.Query); qs != "" {
		u += "?" + qs
	}
	return u
}

// encodeQuery flattens params into a query string. Keys are emitted in
// sorted order so the same descriptor always yields the same URL.
func encodeQuery(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	var pairs []string
	for _, key := range sortedKeys(params) {
		appendQueryValue(&pairs, key, params[key])
	}
	return strings.Join(pairs, "&")
}

func appendQueryValue(pairs *[]string, key string, value any) {
	if value == nil {
		return
	}

	switch v := value.(type) {
	case time.Time:
		appendQueryPair(pairs, key, v.UTC().Format(time.RFC3339))
		return
	case map[string]any:
		for _, sub := range sortedKeys(v) {
			appendQueryValue(pairs, key+"["+sub+"]", v[sub])
		}
		return
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			appendQueryValue(pairs, key, rv.Index(i).Interface())
		}
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return
		}
		appendQueryValue(pairs, key, rv.Elem().Interface())
	default:
		appendQueryPair(pairs, key, stringifyScalar(value))
	}
}

func appendQueryPair(pairs *[]string, key, value string) {
	*pairs = append(*pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
}

func stringifyScalar(value any) string {
	if t, ok := value.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", value)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
