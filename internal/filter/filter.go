// Package filter narrows record collections the way every list view does:
// an ownership scope, a free-text search and exact-match categorical
// selections, all combined with AND semantics.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"county-revenue/internal/domain"
)

// All is the categorical selection that matches every value.
const All = "All"

// Query is the transient per-view filter state.
type Query struct {
	Search     string            `json:"search"`
	Categories map[string]string `json:"categories,omitempty"`
}

// Active reports whether any categorical selection narrows the result.
func (q Query) Active() bool {
	for _, v := range q.Categories {
		if v != "" && v != All {
			return true
		}
	}
	return false
}

// Cleared resets every categorical selection to All and keeps the search text.
func (q Query) Cleared() Query {
	out := Query{Search: q.Search}
	if len(q.Categories) > 0 {
		out.Categories = make(map[string]string, len(q.Categories))
		for k := range q.Categories {
			out.Categories[k] = All
		}
	}
	return out
}

// OwnerScope restricts a collection to records owned by a display name.
type OwnerScope struct {
	Restricted bool
	Owner      string
}

func Unscoped() OwnerScope { return OwnerScope{} }

func OwnedBy(owner string) OwnerScope { return OwnerScope{Restricted: true, Owner: owner} }

// Schema describes how a record type is scoped, searched and categorised.
type Schema[T any] struct {
	Owner        func(T) string
	SearchFields []func(T) string
	Categories   map[string]func(T) string
}

// CategoryNames returns the categorical keys in sorted order.
func (s Schema[T]) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate rejects selections on categories the schema does not define.
func (s Schema[T]) Validate(q Query) error {
	for name := range q.Categories {
		if _, ok := s.Categories[name]; !ok {
			return fmt.Errorf("%w: unknown filter %q", domain.ErrInvalidInput, name)
		}
	}
	return nil
}

func (s Schema[T]) inScope(rec T, scope OwnerScope) bool {
	if !scope.Restricted {
		return true
	}
	if s.Owner == nil {
		return false
	}
	return s.Owner(rec) == scope.Owner
}

func (s Schema[T]) matchesSearch(rec T, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range s.SearchFields {
		if strings.Contains(strings.ToLower(field(rec)), needle) {
			return true
		}
	}
	return false
}

func (s Schema[T]) matchesCategories(rec T, selected map[string]string) bool {
	for name, want := range selected {
		if want == "" || want == All {
			continue
		}
		get, ok := s.Categories[name]
		if !ok || get(rec) != want {
			return false
		}
	}
	return true
}

// Scope applies only the ownership restriction.
func Scope[T any](records []T, schema Schema[T], scope OwnerScope) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if schema.inScope(rec, scope) {
			out = append(out, rec)
		}
	}
	return out
}

// Filter returns the records that satisfy the scope, the search text and
// every categorical selection, in their original order. Unknown categories
// never match; call Schema.Validate first to report them.
func Filter[T any](records []T, schema Schema[T], scope OwnerScope, q Query) []T {
	needle := strings.ToLower(q.Search)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if !schema.inScope(rec, scope) {
			continue
		}
		if !schema.matchesSearch(rec, needle) {
			continue
		}
		if !schema.matchesCategories(rec, q.Categories) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

type EmptyReason string

const (
	NotEmpty  EmptyReason = ""
	NoRecords EmptyReason = "no_records"
	NoMatches EmptyReason = "no_matches"
)

// Result carries filtered items together with enough context for the
// caller to pick the right empty-state message.
type Result[T any] struct {
	Items         []T         `json:"items"`
	ScopedTotal   int         `json:"scoped_total"`
	Empty         EmptyReason `json:"empty,omitempty"`
	ActiveFilters bool        `json:"active_filters"`
	// Clear is the query to offer when categorical selections removed
	// every record.
	Clear *Query `json:"clear,omitempty"`
}

func Summarize[T any](records []T, schema Schema[T], scope OwnerScope, q Query) Result[T] {
	scoped := Scope(records, schema, scope)
	items := Filter(scoped, schema, Unscoped(), q)
	res := Result[T]{Items: items, ScopedTotal: len(scoped), ActiveFilters: q.Active()}
	switch {
	case len(scoped) == 0:
		res.Empty = NoRecords
	case len(items) == 0:
		res.Empty = NoMatches
		if res.ActiveFilters {
			cleared := q.Cleared()
			res.Clear = &cleared
		}
	}
	return res
}
