package dataset

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// RawRow maps trimmed attribute names to raw cell text.
type RawRow map[string]string

// Record is one typed row. ID is the row's position at load time and
// never changes while the dataset is loaded.
type Record struct {
	ID     int
	Fields map[string]Value
}

// Get returns the value of attr, or Null if the record lacks it.
func (r Record) Get(attr string) Value {
	return r.Fields[attr]
}

// Keys returns the record's attribute names in lexicographic order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dataset is an ordered set of records plus the declared attribute order.
type Dataset struct {
	// Path is where the rows were actually read from.
	Path string
	// Requested is the path the caller asked for. It differs from
	// Path when the loader fell back.
	Requested  string
	Attributes []string
	Records    []Record
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// FellBack reports whether the rows came from the fallback source.
func (d *Dataset) FellBack() bool {
	return d.Requested != "" && d.Requested != d.Path
}

// Floats returns the finite numeric values of attr, skipping Nulls
// and strings.
func (d *Dataset) Floats(attr string) []float64 {
	out := make([]float64, 0, len(d.Records))
	for _, r := range d.Records {
		if f, ok := r.Get(attr).Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// InferRow types every cell of a raw row.
func InferRow(id int, raw RawRow) Record {
	fields := make(map[string]Value, len(raw))
	for k, v := range raw {
		fields[strings.TrimSpace(k)] = Infer(v)
	}
	return Record{ID: id, Fields: fields}
}

// InferRecord re-types a record. For records produced by InferRow the
// result equals the input.
func InferRecord(r Record) Record {
	fields := make(map[string]Value, len(r.Fields))
	for k, v := range r.Fields {
		fields[strings.TrimSpace(k)] = InferValue(v)
	}
	return Record{ID: r.ID, Fields: fields}
}

// ErrNoHeader is returned for input without a header line.
var ErrNoHeader = errors.New("dataset: missing header row")

// Parse reads header-plus-rows CSV. Short rows leave trailing
// attributes Null; extra cells are ignored.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, errors.Wrap(err, "dataset: read header")
	}

	attrs := make([]string, 0, len(header))
	cols := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.TrimSpace(h)
		cols[i] = name
		if !seen[name] {
			seen[name] = true
			attrs = append(attrs, name)
		}
	}

	ds := &Dataset{Attributes: attrs}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: read row %d", line)
		}
		raw := make(RawRow, len(cols))
		for i, name := range cols {
			if i < len(rec) {
				raw[name] = rec[i]
			} else {
				raw[name] = ""
			}
		}
		ds.Records = append(ds.Records, InferRow(len(ds.Records), raw))
	}
	return ds, nil
}
