package enrich

import (
	"fmt"
	"strings"
)

// CustomMetadata is a fixed-shape metadata record embedded into enriched payloads.
// Fields are validated at construction; the record reaches payloads only through
// Values, never as the struct itself.
type CustomMetadata struct {
	foo  string
	bar  map[string]int
	tags []string
	note *string
}

// NewCustomMetadata validates and builds a metadata record.
// Params: foo required label; bar required counters; tags optional labels; note optional free text.
// Returns: record or validation error.
func NewCustomMetadata(foo string, bar map[string]int, tags []string, note *string) (CustomMetadata, error) {
	if strings.TrimSpace(foo) == "" {
		return CustomMetadata{}, fmt.Errorf("foo is required")
	}
	if bar == nil {
		return CustomMetadata{}, fmt.Errorf("bar map is required")
	}

	return CustomMetadata{
		foo:  foo,
		bar:  bar,
		tags: tags,
		note: note,
	}, nil
}

// Values converts the record into the plain payload representation.
// Params: none.
// Returns: nested structure of maps, lists, and scalars only.
func (m CustomMetadata) Values() map[string]any {
	bar := make(map[string]any, len(m.bar))
	for key, value := range m.bar {
		bar[key] = int64(value)
	}

	tags := make([]any, len(m.tags))
	for i, tag := range m.tags {
		tags[i] = tag
	}

	var note any
	if m.note != nil {
		note = *m.note
	}

	return map[string]any{
		"foo":  m.foo,
		"bar":  bar,
		"tags": tags,
		"note": note,
	}
}

// defaultMetadata builds the demo metadata record embedded by the enrichment hook.
// Params: none.
// Returns: record with fixed demo values.
func defaultMetadata() CustomMetadata {
	return CustomMetadata{
		foo:  "foo_value",
		bar:  map[string]int{"key1": 10, "key2": 20},
		tags: []string{"alpha", "beta"},
	}
}
