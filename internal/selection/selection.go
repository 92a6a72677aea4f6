package selection

import (
	"github.com/pkg/errors"
	"github.com/san-kum/scatterview/internal/schema"
)

// All is the class filter that admits every class.
const All = "all"

var ErrNotNumeric = errors.New("selection: attribute is not numeric")

// State is the user's current axis and class choice. It is only
// changed through its methods.
type State struct {
	X, Y        string
	ClassFilter string

	numeric []string
	classes []string
}

// New returns the default selection for a schema: the first two
// numeric attributes and every class.
func New(s schema.Schema) State {
	st := State{
		numeric: append([]string(nil), s.Numeric...),
		classes: s.FilterOptions(),
	}
	st.Reset()
	return st
}

// Reset restores the defaults chosen at load time.
func (s *State) Reset() {
	s.X, s.Y = "", ""
	if len(s.numeric) > 0 {
		s.X = s.numeric[0]
	}
	if len(s.numeric) > 1 {
		s.Y = s.numeric[1]
	}
	s.ClassFilter = All
}

// Ready reports whether both axes are bound.
func (s State) Ready() bool {
	return s.X != "" && s.Y != ""
}

func (s State) Options() []string      { return s.numeric }
func (s State) ClassOptions() []string { return s.classes }

func (s *State) SetX(attr string) error {
	if !s.has(attr) {
		return errors.Wrapf(ErrNotNumeric, "x %q", attr)
	}
	s.X = attr
	return nil
}

func (s *State) SetY(attr string) error {
	if !s.has(attr) {
		return errors.Wrapf(ErrNotNumeric, "y %q", attr)
	}
	s.Y = attr
	return nil
}

// SetClassFilter accepts All or any class option. Unknown values are
// rejected so the filter always names something selectable.
func (s *State) SetClassFilter(v string) error {
	if v == All {
		s.ClassFilter = All
		return nil
	}
	for _, c := range s.classes {
		if c == v {
			s.ClassFilter = v
			return nil
		}
	}
	return errors.Errorf("selection: unknown class %q", v)
}

// CycleX moves the x attribute by delta positions, wrapping around.
func (s *State) CycleX(delta int) {
	s.X = cycle(s.numeric, s.X, delta)
}

func (s *State) CycleY(delta int) {
	s.Y = cycle(s.numeric, s.Y, delta)
}

// CycleClass steps through "all" followed by the sorted class options.
func (s *State) CycleClass(delta int) {
	opts := append([]string{All}, s.classes...)
	s.ClassFilter = cycle(opts, s.ClassFilter, delta)
}

func (s State) has(attr string) bool {
	for _, a := range s.numeric {
		if a == attr {
			return true
		}
	}
	return false
}

func cycle(opts []string, cur string, delta int) string {
	if len(opts) == 0 {
		return cur
	}
	i := 0
	for j, o := range opts {
		if o == cur {
			i = j
			break
		}
	}
	n := len(opts)
	return opts[((i+delta)%n+n)%n]
}
