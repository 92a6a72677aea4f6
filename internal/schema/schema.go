// Package schema discovers which attributes of a loaded dataset can be
// plotted and which one classifies the rows.
//
// The class attribute is chosen once per load by [Discover] and passed
// explicitly to everything that colours, filters or labels points.
// [ResolveClass] re-derives it from a single record for datasets whose
// rows do not share one schema.
package schema

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/pkg/errors"
	"github.com/san-kum/scatterview/internal/dataset"
)

var (
	ErrEmptyDataset  = errors.New("schema: dataset is empty")
	ErrTooFewNumeric = errors.New("schema: fewer than 2 numeric attributes")
)

// SchemaError marks a dataset that loaded but cannot drive both axes.
type SchemaError struct {
	Err     error
	Rows    int
	Numeric int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v (rows: %d, numeric attributes: %d)", e.Err, e.Rows, e.Numeric)
}

func (e *SchemaError) Unwrap() error { return e.Err }

var (
	primaryClass  = regexp.MustCompile(`(?i)class|target|label`)
	synonymClass  = regexp.MustCompile(`(?i)landcover|category`)
	anyClassMatch = regexp.MustCompile(`(?i)class|target|label|landcover|category`)
)

type Schema struct {
	Attributes []string
	Numeric    []string
	Class      string
	// Classes holds the distinct non-null class values of the whole
	// dataset in first-seen order.
	Classes []dataset.Value
}

// Usable reports whether two axes can be populated.
func (s Schema) Usable() bool {
	return len(s.Numeric) >= 2
}

func (s Schema) IsNumeric(attr string) bool {
	for _, a := range s.Numeric {
		if a == attr {
			return true
		}
	}
	return false
}

// FilterOptions returns the class filter choices: the canonical text
// of every class value, sorted.
func (s Schema) FilterOptions() []string {
	out := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		out[i] = c.String()
	}
	sort.Strings(out)
	return out
}

// ClassAttribute picks the classification attribute from declared
// attribute names.
func ClassAttribute(attrs []string) string {
	for _, a := range attrs {
		if primaryClass.MatchString(a) {
			return a
		}
	}
	for _, a := range attrs {
		if synonymClass.MatchString(a) {
			return a
		}
	}
	if len(attrs) == 0 {
		return ""
	}
	return attrs[len(attrs)-1]
}

// ResolveClass finds the class key from a record's own keys. Keys are
// tried in declaration order (attrs first, then any others sorted) and
// the first class-like name wins. Without a match the lexicographically
// last key is used.
func ResolveClass(rec dataset.Record, attrs []string) string {
	keys := rec.Keys()
	for _, k := range ordered(keys, attrs) {
		if anyClassMatch.MatchString(k) {
			return k
		}
	}
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}

// ordered lists sorted keys with those named in attrs moved to the
// front, in attrs order.
func ordered(keys, attrs []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	out := make([]string, 0, len(keys))
	for _, a := range attrs {
		if present[a] {
			out = append(out, a)
			delete(present, a)
		}
	}
	for _, k := range keys {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}

// Resolver returns the class value of a record.
type Resolver func(rec dataset.Record) dataset.Value

// Resolver returns the canonical resolver, or the per-record one when
// perRecord is set.
func (s Schema) Resolver(perRecord bool) Resolver {
	if perRecord {
		attrs := s.Attributes
		return func(rec dataset.Record) dataset.Value {
			return rec.Get(ResolveClass(rec, attrs))
		}
	}
	class := s.Class
	return func(rec dataset.Record) dataset.Value {
		return rec.Get(class)
	}
}

// Discover samples the first record for numeric attributes and picks
// the class attribute. Classes are collected with the resolver for
// perRecord, so the legend and filter options see the same class values
// as the marks. A non-nil error is always a *SchemaError; the returned
// Schema is still filled in as far as the data allows.
func Discover(ds *dataset.Dataset, perRecord bool) (Schema, error) {
	s := Schema{Attributes: ds.Attributes, Class: ClassAttribute(ds.Attributes)}
	if ds.Len() == 0 {
		return s, &SchemaError{Err: ErrEmptyDataset}
	}

	sample := ds.Records[0]
	hasText := false
	for _, a := range ds.Attributes {
		switch sample.Get(a).Kind {
		case dataset.Number:
			s.Numeric = append(s.Numeric, a)
		case dataset.String:
			if a != s.Class {
				hasText = true
			}
		}
	}

	// A numeric class column is a category code when some other
	// column is textual; a purely numeric table keeps it as an axis.
	if hasText {
		s.Numeric = without(s.Numeric, s.Class)
	}

	s.Classes = distinct(ds, s.Resolver(perRecord))

	if !s.Usable() {
		return s, &SchemaError{Err: ErrTooFewNumeric, Rows: ds.Len(), Numeric: len(s.Numeric)}
	}
	return s, nil
}

func distinct(ds *dataset.Dataset, class Resolver) []dataset.Value {
	seen := make(map[string]bool)
	var out []dataset.Value
	for _, r := range ds.Records {
		v := class(r)
		if v.IsNull() {
			continue
		}
		key := v.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func without(attrs []string, drop string) []string {
	out := attrs[:0:0]
	for _, a := range attrs {
		if a != drop {
			out = append(out, a)
		}
	}
	return out
}
