package reconcile

import (
	"github.com/san-kum/scatterview/internal/dataset"
	"github.com/san-kum/scatterview/internal/schema"
	"github.com/san-kum/scatterview/internal/selection"
)

// Filter returns the records the selection admits, in load order. A
// record needs numeric x and y values and, unless the filter is
// selection.All, a class value loosely equal to the filter.
func Filter(records []dataset.Record, class schema.Resolver, sel selection.State) []dataset.Record {
	if !sel.Ready() {
		return nil
	}
	want := dataset.StringValue(sel.ClassFilter)
	out := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if _, ok := r.Get(sel.X).Float(); !ok {
			continue
		}
		if _, ok := r.Get(sel.Y).Float(); !ok {
			continue
		}
		if sel.ClassFilter != selection.All && !dataset.LooseEqual(class(r), want) {
			continue
		}
		out = append(out, r)
	}
	return out
}
