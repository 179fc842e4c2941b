// Package resource holds the controllers shared by every admin screen. A
// Schema describes one entity kind; the list, detail and form controllers
// are parameterized by it instead of being written once per entity.
package resource

import (
	"fmt"
	"strings"
)

// Filter is a categorical narrowing over one field
type Filter[T any] struct {
	Key    string
	Label  string
	Values []string
	Value  func(T) string
}

// Summary is one headline count over the full collection. Exactly one of
// Match or Distinct is set: Match counts matching records, Distinct counts
// distinct non-empty values.
type Summary[T any] struct {
	Label    string
	Match    func(T) bool
	Distinct func(T) string
}

// Count is a computed summary
type Count struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
}

// Column is one field shown in tables and list rows
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Schema describes an entity kind to the generic controllers
type Schema[T any] struct {
	Name     string // singular, e.g. "Item"
	Plural   string // collection name, e.g. "items"
	Endpoint string

	ID    func(T) string
	Title func(T) string

	// SearchFields are ORed in a case-insensitive substring match. An
	// empty list disables free text search.
	SearchFields []func(T) string
	Filters      []Filter[T]
	Summaries    []Summary[T]
	Columns      []Column[T]

	// Details are extra fields shown only on the detail screen
	Details []Column[T]
	// Body is long free text shown below the fields
	Body func(T) string

	// Form is nil for kinds the console cannot create or edit
	Form *FormSchema
	// Creatable is false for kinds that are only edited
	Creatable bool
	// Purgeable allows deleting the whole collection
	Purgeable bool
}

// Filter returns the filter with the given key
func (s *Schema[T]) Filter(key string) (Filter[T], bool) {
	for _, f := range s.Filters {
		if strings.EqualFold(f.Key, key) {
			return f, true
		}
	}
	return Filter[T]{}, false
}

// FilterKeys returns the keys accepted in search queries
func (s *Schema[T]) FilterKeys() []string {
	keys := make([]string, len(s.Filters))
	for i, f := range s.Filters {
		keys[i] = f.Key
	}
	return keys
}

// Label is the display name for a record: `Item "Phone"`
func (s *Schema[T]) Label(record T) string {
	title := s.Title(record)
	if title == "" {
		title = s.ID(record)
	}
	return fmt.Sprintf("%s %q", s.Name, title)
}

// Summarize computes the schema's summaries over records
func (s *Schema[T]) Summarize(records []T) []Count {
	counts := make([]Count, 0, len(s.Summaries))
	for _, sum := range s.Summaries {
		n := 0
		switch {
		case sum.Match != nil:
			for _, r := range records {
				if sum.Match(r) {
					n++
				}
			}
		case sum.Distinct != nil:
			seen := make(map[string]bool)
			for _, r := range records {
				if v := sum.Distinct(r); v != "" {
					seen[v] = true
				}
			}
			n = len(seen)
		}
		counts = append(counts, Count{Label: sum.Label, Value: n})
	}
	return counts
}
