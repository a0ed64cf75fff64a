package restclient

import (
	"strings"
	"testing"
	"time"
)

func TestBuildURLSubstitutesPathParams(t *testing.T) {
	cfg := &Config{Base: "https://api.test", Version: "v1"}
	d := &Descriptor{
		Method: "GET",
		URL:    "/items/{id}",
		Path:   map[string]any{"id": "42"},
	}
	if got := buildURL(cfg, d); got != "https://api.test/items/42" {
		t.Fatalf("unexpected URL: %s", got)
	}
}

func TestBuildURLSubstitutesAPIVersion(t *testing.T) {
	cfg := &Config{Base: "https://api.test", Version: "v1"}
	d := &Descriptor{URL: "/api/{api-version}/users/{id}", Path: map[string]any{"id": "abc def"}}

	if got := buildURL(cfg, d); got != "https://api.test/api/v1/users/abc%20def" {
		t.Fatalf("unexpected URL: %s", got)
	}
}

func TestBuildURLKeepsUnmatchedPlaceholder(t *testing.T) {
	cfg := &Config{Base: "https://api.test"}
	d := &Descriptor{URL: "/items/{id}"}

	if got := buildURL(cfg, d); got != "https://api.test/items/{id}" {
		t.Fatalf("expected literal placeholder, got %s", got)
	}
}

func TestBuildURLCustomPathEncoder(t *testing.T) {
	cfg := &Config{
		Base:       "https://api.test",
		EncodePath: strings.ToUpper,
	}
	d := &Descriptor{URL: "/items/{id}", Path: map[string]any{"id": "abc"}}

	if got := buildURL(cfg, d); got != "https://api.test/items/ABC" {
		t.Fatalf("unexpected URL: %s", got)
	}
}

func TestEncodeQueryRules(t *testing.T) {
	stamp := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	qs := encodeQuery(map[string]any{
		"skip":    0,
		"tags":    []string{"a", "b"},
		"missing": nil,
		"since":   stamp,
		"filter":  map[string]any{"owner": "me"},
	})

	want := "filter%5Bowner%5D=me&since=2026-03-01T12%3A30%3A00Z&skip=0&tags=a&tags=b"
	if qs != want {
		t.Fatalf("unexpected query string:\n got %s\nwant %s", qs, want)
	}
}

func TestEncodeQueryEmptyAndAllNil(t *testing.T) {
	if qs := encodeQuery(nil); qs != "" {
		t.Fatalf("expected empty query string, got %q", qs)
	}
	if qs := encodeQuery(map[string]any{"a": nil}); qs != "" {
		t.Fatalf("expected nil values to be omitted, got %q", qs)
	}

	cfg := &Config{Base: "https://api.test"}
	d := &Descriptor{URL: "/items", Query: map[string]any{"a": nil}}
	if got := buildURL(cfg, d); got != "https://api.test/items" {
		t.Fatalf("expected no ? suffix, got %s", got)
	}
}

func TestBuildURLIdempotent(t *testing.T) {
	cfg := &Config{Base: "https://api.test", Version: "v1"}
	d := &Descriptor{
		URL:   "/api/{api-version}/items/{id}",
		Path:  map[string]any{"id": 7},
		Query: map[string]any{"limit": 10, "tags": []any{"x", "y"}},
	}

	first := buildURL(cfg, d)
	second := buildURL(cfg, d)
	if first != second {
		t.Fatalf("building twice differed: %s vs %s", first, second)
	}
}

func TestBuildFormFields(t *testing.T) {
	fields, err := buildFormFields(map[string]any{
		"name":   "samvad",
		"count":  3,
		"skip":   nil,
		"labels": []string{"a", "b"},
		"file":   Blob{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hi")},
	})
	if err != nil {
		t.Fatalf("buildFormFields: %v", err)
	}

	got := map[string][]string{}
	var blobs int
	for _, f := range fields {
		if f.Blob != nil {
			blobs++
			continue
		}
		got[f.Name] = append(got[f.Name], f.Value)
	}

	if blobs != 1 {
		t.Fatalf("expected one blob field, got %d", blobs)
	}
	if len(got["labels"]) != 2 || got["labels"][0] != "a" || got["labels"][1] != "b" {
		t.Fatalf("unexpected repeated field values: %v", got["labels"])
	}
	if got["count"][0] != "3" {
		t.Fatalf("expected non-string value to be JSON-stringified, got %q", got["count"][0])
	}
	if _, ok := got["skip"]; ok {
		t.Fatalf("nil form value was not skipped")
	}
	if got["name"][0] != "samvad" {
		t.Fatalf("string field altered: %q", got["name"][0])
	}
}
