package schema

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/san-kum/scatterview/internal/dataset"
)

func parse(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return ds
}

func TestDiscoverScenarioA(t *testing.T) {
	ds := parse(t, "a,b,class\n1,2,x\n3,4,y\n")

	s, err := Discover(ds, false)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if got := strings.Join(s.Numeric, ","); got != "a,b" {
		t.Errorf("expected numeric a,b, got %s", got)
	}
	if s.Class != "class" {
		t.Errorf("expected class attribute 'class', got %q", s.Class)
	}
	if len(s.Classes) != 2 || s.Classes[0].String() != "x" || s.Classes[1].String() != "y" {
		t.Errorf("unexpected classes %v", s.Classes)
	}
}

func TestClassAttribute(t *testing.T) {
	tests := []struct {
		attrs []string
		want  string
	}{
		{[]string{"a", "b", "Class"}, "Class"},
		{[]string{"TARGET", "a"}, "TARGET"},
		{[]string{"a", "my_label", "b"}, "my_label"},
		{[]string{"category", "a", "label"}, "label"},
		{[]string{"a", "LandCover", "b"}, "LandCover"},
		{[]string{"a", "b", "c"}, "c"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := ClassAttribute(tt.attrs); got != tt.want {
			t.Errorf("ClassAttribute(%v) = %q, want %q", tt.attrs, got, tt.want)
		}
	}
}

func TestNumericClassKeptWhenNoTextColumn(t *testing.T) {
	// landsat: every column including the class code is numeric.
	ds := parse(t, "b1,b2,class\n1,2,3\n4,5,7\n")

	s, err := Discover(ds, false)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if !s.IsNumeric("class") {
		t.Error("numeric class with no textual column should stay numeric")
	}
}

func TestNumericClassDroppedWhenTextColumnExists(t *testing.T) {
	ds := parse(t, "name,b1,b2,class\nfoo,1,2,3\nbar,4,5,7\n")

	s, err := Discover(ds, false)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if s.IsNumeric("class") {
		t.Errorf("class should be excluded from numeric attributes, got %v", s.Numeric)
	}
	if got := strings.Join(s.Numeric, ","); got != "b1,b2" {
		t.Errorf("expected numeric b1,b2, got %s", got)
	}
}

func TestTextClassNeverNumeric(t *testing.T) {
	ds := parse(t, "a,b,label\n1,2,x\n")

	s, _ := Discover(ds, false)
	if s.IsNumeric("label") {
		t.Error("text class must not be numeric")
	}
}

func TestDiscoverTooFewNumeric(t *testing.T) {
	ds := parse(t, "a,class\n1,x\n")

	s, err := Discover(ds, false)
	if !errors.Is(err, ErrTooFewNumeric) {
		t.Fatalf("expected ErrTooFewNumeric, got %v", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) || se.Numeric != 1 {
		t.Errorf("expected SchemaError with 1 numeric attribute, got %v", err)
	}
	if s.Usable() {
		t.Error("schema should not be usable")
	}
}

func TestDiscoverEmpty(t *testing.T) {
	ds := parse(t, "a,b,class\n")

	s, err := Discover(ds, false)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if s.Class != "class" {
		t.Errorf("class attribute should still be named, got %q", s.Class)
	}
}

func TestResolveClass(t *testing.T) {
	tests := []struct {
		raw  dataset.RawRow
		want string
	}{
		{dataset.RawRow{"a": "1", "Category": "x"}, "Category"},
		{dataset.RawRow{"zeta": "1", "alpha": "2"}, "zeta"},
		{dataset.RawRow{"landcover": "w", "label": "v"}, "label"},
		{dataset.RawRow{}, ""},
	}

	for _, tt := range tests {
		if got := ResolveClass(dataset.InferRow(0, tt.raw), nil); got != tt.want {
			t.Errorf("ResolveClass(%v) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestResolverModes(t *testing.T) {
	ds := parse(t, "a,b,kind,zz\n1,2,x,9\n")
	s, _ := Discover(ds, false)

	if s.Class != "zz" {
		t.Fatalf("expected last attribute zz, got %q", s.Class)
	}
	rec := ds.Records[0]
	if v := s.Resolver(false)(rec); v.String() != "9" {
		t.Errorf("canonical resolver: expected 9, got %v", v)
	}
	if v := s.Resolver(true)(rec); v.String() != "9" {
		t.Errorf("per-record resolver: expected 9, got %v", v)
	}
}

func TestFilterOptionsSorted(t *testing.T) {
	ds := parse(t, "a,b,class\n1,2,y\n3,4,x\n5,6,y\n7,8,\n")
	s, _ := Discover(ds, false)

	if got := strings.Join(s.FilterOptions(), ","); got != "x,y" {
		t.Errorf("expected x,y, got %s", got)
	}
	if s.Classes[0].String() != "y" {
		t.Errorf("classes should keep first-seen order, got %v", s.Classes)
	}
}

func TestResolveClassDeclarationOrder(t *testing.T) {
	ds := parse(t, "a,b,label,category\n1,2,L1,C1\n3,4,L2,C2\n")
	rec := ds.Records[0]

	if got := ResolveClass(rec, ds.Attributes); got != "label" {
		t.Errorf("expected the first declared match label, got %q", got)
	}
	if got := ResolveClass(rec, []string{"a", "b", "category", "label"}); got != "category" {
		t.Errorf("expected declared order to win, got %q", got)
	}
}

func TestDiscoverPerRecordClasses(t *testing.T) {
	ds := parse(t, "kind,a,b,c\nx,1,2,3\ny,3,4,5\nx,5,6,7\n")

	canonical, err := Discover(ds, false)
	if err != nil {
		t.Fatal(err)
	}
	if canonical.Class != "c" {
		t.Fatalf("expected the last attribute as canonical class, got %q", canonical.Class)
	}

	s, err := Discover(ds, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(s.FilterOptions(), ","); got != "x,y" {
		t.Errorf("per-record options should follow the resolved class, got %s", got)
	}
	for _, r := range ds.Records {
		found := false
		for _, c := range s.Classes {
			if dataset.LooseEqual(c, s.Resolver(true)(r)) {
				found = true
			}
		}
		if !found {
			t.Errorf("record %d resolves to a class missing from the options", r.ID)
		}
	}
}
