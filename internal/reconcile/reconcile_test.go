package reconcile

import (
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/scatterview/internal/dataset"
	"github.com/san-kum/scatterview/internal/scale"
	"github.com/san-kum/scatterview/internal/schema"
	"github.com/san-kum/scatterview/internal/selection"
)

var (
	red, _  = colorful.Hex("#ff0000")
	blue, _ = colorful.Hex("#0000ff")
)

func byClass(v dataset.Value) colorful.Color {
	if v.String() == "y" {
		return blue
	}
	return red
}

func load(csv string) (*dataset.Dataset, schema.Schema) {
	ds, err := dataset.Parse(strings.NewReader(csv))
	Expect(err).NotTo(HaveOccurred())
	s, _ := schema.Discover(ds, false)
	return ds, s
}

var _ = Describe("Filter", func() {
	var (
		ds  *dataset.Dataset
		sch schema.Schema
		sel selection.State
	)

	BeforeEach(func() {
		ds, sch = load("a,b,class\n1,2,x\n3,4,y\n5,,x\n")
		sel = selection.New(sch)
	})

	It("admits every record with both values under 'all'", func() {
		Expect(Filter(ds.Records, sch.Resolver(false), sel)).To(HaveLen(2))
	})

	It("drops a record with an empty y value whatever the class filter", func() {
		for _, f := range []string{selection.All, "x", "y"} {
			Expect(sel.SetClassFilter(f)).To(Succeed())
			for _, r := range Filter(ds.Records, sch.Resolver(false), sel) {
				Expect(r.ID).NotTo(Equal(2))
			}
		}
	})

	It("keeps only the matching class", func() {
		Expect(sel.SetClassFilter("x")).To(Succeed())
		got := Filter(ds.Records, sch.Resolver(false), sel)
		Expect(got).To(HaveLen(1))
		Expect(got[0].ID).To(Equal(0))
	})

	It("compares numeric classes with their text form", func() {
		ds, sch = load("a,b,class\n1,2,3\n3,4,7\n")
		sel = selection.New(sch)
		Expect(sel.SetClassFilter("7")).To(Succeed())
		got := Filter(ds.Records, sch.Resolver(false), sel)
		Expect(got).To(HaveLen(1))
		Expect(got[0].ID).To(Equal(1))
	})

	It("never loses a record when widening to 'all'", func() {
		all := Filter(ds.Records, sch.Resolver(false), sel)
		for _, c := range sel.ClassOptions() {
			Expect(sel.SetClassFilter(c)).To(Succeed())
			for _, r := range Filter(ds.Records, sch.Resolver(false), sel) {
				Expect(all).To(ContainElement(r))
			}
		}
	})
})

var _ = Describe("Reconciler", func() {
	var (
		ds  *dataset.Dataset
		sch schema.Schema
		sel selection.State
		sc  scale.Scales
		rc  *Reconciler
		t0  time.Time
	)

	targets := func(mode KeyMode) []Target {
		return Targets(Filter(ds.Records, sch.Resolver(false), sel), sc, sch.Resolver(false), byClass, mode)
	}

	BeforeEach(func() {
		ds, sch = load("a,b,class\n1,2,x\n3,4,y\n")
		sel = selection.New(sch)
		var err error
		sc, err = scale.Compute(ds, sel.X, sel.Y, 400, 300)
		Expect(err).NotTo(HaveOccurred())
		rc = New(DefaultTiming())
		t0 = time.Unix(100, 0)
	})

	It("enters new marks at radius zero at their target", func() {
		st := rc.Apply(t0, targets(ByIndex))
		Expect(st).To(Equal(Stats{Entered: 2}))

		marks := rc.Marks(t0)
		Expect(marks).To(HaveLen(2))
		tg := targets(ByIndex)
		for i, m := range marks {
			Expect(m.R).To(BeZero())
			Expect(m.X).To(Equal(tg[i].X))
			Expect(m.Y).To(Equal(tg[i].Y))
		}
		Expect(marks[1].Color).To(Equal(blue))

		end := rc.Marks(t0.Add(time.Second))
		Expect(end[0].R).To(Equal(4.5))
		Expect(rc.Animating(t0.Add(time.Second))).To(BeFalse())
	})

	It("updates index 0 and exits index 1 when filtering to one class", func() {
		rc.Apply(t0, targets(ByIndex))
		t1 := t0.Add(300 * time.Millisecond)
		before := rc.Marks(t1)

		Expect(sel.SetClassFilter("x")).To(Succeed())
		st := rc.Apply(t1, targets(ByIndex))
		Expect(st).To(Equal(Stats{Updated: 1, Exited: 1}))

		now := rc.Marks(t1)
		Expect(now[0].X).To(Equal(before[0].X))
		Expect(now[0].R).To(BeNumerically("~", before[0].R, 1e-9))
		Expect(now[1].Exiting).To(BeTrue())

		Expect(rc.Advance(t1.Add(499 * time.Millisecond))).To(BeZero())
		Expect(rc.Advance(t1.Add(500 * time.Millisecond))).To(Equal(1))
		Expect(rc.Len()).To(Equal(1))
	})

	It("retargets in-flight positions from their current value", func() {
		rc.Apply(t0, targets(ByIndex))
		rc.Rebuild(targets(ByIndex))

		Expect(sel.SetX("b")).To(Succeed())
		sc, _ = scale.Compute(ds, sel.X, sel.Y, 400, 300)
		rc.Apply(t0, targets(ByIndex))

		mid := t0.Add(400 * time.Millisecond)
		x := rc.Marks(mid)[0].X

		Expect(sel.SetX("a")).To(Succeed())
		sc, _ = scale.Compute(ds, sel.X, sel.Y, 400, 300)
		rc.Apply(mid, targets(ByIndex))

		Expect(rc.Marks(mid)[0].X).To(BeNumerically("~", x, 1e-9))
		Expect(rc.Animating(mid.Add(799 * time.Millisecond))).To(BeTrue())
		Expect(rc.Marks(mid.Add(800 * time.Millisecond))[0].X).To(Equal(targets(ByIndex)[0].X))
	})

	It("revives an exiting mark whose key comes back", func() {
		rc.Apply(t0, targets(ByIndex))
		Expect(sel.SetClassFilter("x")).To(Succeed())
		rc.Apply(t0.Add(time.Second), targets(ByIndex))

		Expect(sel.SetClassFilter(selection.All)).To(Succeed())
		t2 := t0.Add(1200 * time.Millisecond)
		st := rc.Apply(t2, targets(ByIndex))
		Expect(st.Updated).To(Equal(2))

		Expect(rc.Advance(t2.Add(time.Second))).To(BeZero())
		m := rc.Marks(t2.Add(time.Second))
		Expect(m).To(HaveLen(2))
		Expect(m[1].Exiting).To(BeFalse())
		Expect(m[1].R).To(Equal(4.5))
	})

	It("keys by record id when asked", func() {
		rc.Apply(t0, targets(ByRecord))
		Expect(sel.SetClassFilter("y")).To(Succeed())

		st := rc.Apply(t0.Add(time.Second), targets(ByRecord))
		Expect(st).To(Equal(Stats{Updated: 1, Exited: 1}))
		m := rc.Marks(t0.Add(time.Second))
		Expect(m[0].Exiting).To(BeTrue())
		Expect(m[1].Record.ID).To(Equal(1))
	})

	It("rebuilds without animation", func() {
		rc.Apply(t0, targets(ByIndex))
		rc.Rebuild(targets(ByIndex))

		Expect(rc.Animating(t0)).To(BeFalse())
		for _, m := range rc.Marks(t0) {
			Expect(m.R).To(Equal(4.5))
		}
	})

	It("jumps when durations are negative", func() {
		rc = New(Timing{Enter: -time.Second, Update: -1, Exit: -1, Radius: 3})
		rc.Apply(t0, targets(ByIndex))

		Expect(rc.Marks(t0)[0].R).To(Equal(3.0))
		Expect(rc.Animating(t0)).To(BeFalse())
	})
})
