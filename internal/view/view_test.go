package view

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/scatterview/internal/dataset"
	"github.com/san-kum/scatterview/internal/legend"
	"github.com/san-kum/scatterview/internal/reconcile"
	"github.com/san-kum/scatterview/internal/schema"
	"github.com/san-kum/scatterview/internal/selection"
)

func mustParse(csv string) *dataset.Dataset {
	ds, err := dataset.Parse(strings.NewReader(csv))
	Expect(err).NotTo(HaveOccurred())
	ds.Path, ds.Requested = "mem.csv", "mem.csv"
	return ds
}

var _ = Describe("View", func() {
	var (
		v   *View
		now time.Time
	)

	BeforeEach(func() {
		now = time.Unix(500, 0)
		opts := DefaultOptions()
		opts.Now = func() time.Time { return now }
		v = New(opts)
	})

	Describe("loading", func() {
		It("reports loading then a summary", func() {
			tok := v.BeginLoad("mem.csv")
			Expect(v.Status().Phase).To(Equal(Loading))
			Expect(v.Status().Message).To(ContainSubstring("mem.csv"))

			Expect(v.CompleteLoad(tok, mustParse("a,b,class\n1,2,x\n3,4,y\n"), nil)).To(BeTrue())
			Expect(v.Status().Phase).To(Equal(Ready))
			Expect(v.Status().Message).To(Equal("Loaded 2 rows, numeric columns: 2"))
		})

		It("discards a completion whose token is stale", func() {
			slow := v.BeginLoad("slow.csv")
			fast := v.BeginLoad("fast.csv")

			Expect(v.CompleteLoad(fast, mustParse("a,b\n1,2\n"), nil)).To(BeTrue())
			Expect(v.CompleteLoad(slow, mustParse("p,q,r\n1,2,3\n4,5,6\n"), nil)).To(BeFalse())

			Expect(v.Schema().Numeric).To(Equal([]string{"a", "b"}))
			Expect(v.Requested()).To(Equal("fast.csv"))
		})

		It("ends in a terminal state when no dataset could be loaded", func() {
			tok := v.BeginLoad("missing.csv")
			err := &dataset.LoadError{Attempts: []dataset.Attempt{{Path: "missing.csv", Err: errors.New("boom")}}}

			Expect(v.CompleteLoad(tok, nil, err)).To(BeTrue())
			Expect(v.Status().Phase).To(Equal(Failed))
			Expect(errors.Is(v.Status().Err, dataset.ErrNoDataset)).To(BeTrue())
			Expect(v.Frame(now).Axes).To(BeFalse())
			Expect(v.SetX("a")).To(MatchError(ErrNotReady))
		})

		It("degrades on a dataset with one numeric attribute", func() {
			tok := v.BeginLoad("mem.csv")
			v.CompleteLoad(tok, mustParse("a,class\n1,x\n"), nil)

			st := v.Status()
			Expect(st.Phase).To(Equal(Degraded))
			Expect(errors.Is(st.Err, schema.ErrTooFewNumeric)).To(BeTrue())
			Expect(v.Frame(now).Axes).To(BeFalse())
			Expect(v.Frame(now).Marks).To(BeEmpty())
		})

		It("degrades on an empty dataset", func() {
			tok := v.BeginLoad("mem.csv")
			v.CompleteLoad(tok, mustParse("a,b,class\n"), nil)

			Expect(v.Status().Phase).To(Equal(Degraded))
			Expect(v.Status().Message).To(ContainSubstring("empty"))
		})
	})

	Describe("with a dataset", func() {
		BeforeEach(func() {
			tok := v.BeginLoad("mem.csv")
			v.CompleteLoad(tok, mustParse("a,b,class\n1,2,x\n3,4,y\n"), nil)
		})

		It("selects the first two numeric attributes and every class", func() {
			sel := v.Selection()
			Expect([]string{sel.X, sel.Y, sel.ClassFilter}).To(Equal([]string{"a", "b", selection.All}))

			f := v.Frame(now)
			Expect(f.Axes).To(BeTrue())
			Expect(f.Marks).To(HaveLen(2))
			Expect(f.Shown).To(Equal(2))
			Expect(f.Legend).To(HaveLen(2))
		})

		It("animates the surviving mark and exits the other on a class filter", func() {
			Expect(v.SetClassFilter("x")).To(Succeed())

			f := v.Frame(now)
			Expect(f.Shown).To(Equal(1))
			Expect(f.Marks).To(HaveLen(2))
			Expect(f.Marks[1].Exiting).To(BeTrue())
			Expect(f.Legend).To(HaveLen(2), "legend covers the whole dataset")

			now = now.Add(time.Second)
			Expect(v.Advance(now)).To(BeFalse())
			Expect(v.Frame(now).Marks).To(HaveLen(1))
		})

		It("keeps the axes when the class filter changes", func() {
			before := v.Frame(now).X.Domain
			Expect(v.SetClassFilter("y")).To(Succeed())
			Expect(v.Frame(now.Add(time.Second)).X.Domain).To(Equal(before))
		})

		It("restores the defaults on reset after a reload", func() {
			Expect(v.SetX("b")).To(Succeed())
			Expect(v.SetClassFilter("y")).To(Succeed())

			tok := v.BeginLoad("mem.csv")
			v.CompleteLoad(tok, mustParse("a,b,class\n1,2,x\n3,4,y\n"), nil)
			Expect(v.SetY("a")).To(Succeed())
			Expect(v.Reset()).To(Succeed())

			sel := v.Selection()
			Expect([]string{sel.X, sel.Y, sel.ClassFilter}).To(Equal([]string{"a", "b", selection.All}))
		})

		It("rejects an unknown attribute without a pass", func() {
			Expect(v.SetX("class")).To(HaveOccurred())
			Expect(v.Selection().X).To(Equal("a"))
		})

		It("animates axes on a selection change and settles", func() {
			Expect(v.SetX("b")).To(Succeed())
			Expect(v.Advance(now)).To(BeTrue())

			now = now.Add(time.Second)
			Expect(v.Advance(now)).To(BeFalse())
			Expect(v.Frame(now).X.Attr).To(Equal("b"))
		})

		It("rebuilds without animation on resize", func() {
			Expect(v.SetX("b")).To(Succeed())
			v.Resize(200, 100)

			Expect(v.Advance(now)).To(BeFalse())
			f := v.Frame(now)
			Expect(f.Width).To(Equal(200.0))
			for _, m := range f.Marks {
				Expect(f.X.Map(m.Record.Get("b").Num)).To(BeNumerically("~", m.X, 1e-9))
				Expect(m.X).To(BeNumerically(">=", 0))
				Expect(m.X).To(BeNumerically("<=", 200))
			}
		})

		It("drives the tooltip from hover", func() {
			m := v.Frame(now).Marks[0]
			v.Hover(legend.Point{X: m.X, Y: m.Y})

			tip := v.Frame(now).Tooltip
			Expect(tip.Visible).To(BeTrue())
			Expect(tip.Lines[0]).To(Equal("Class: x"))
			Expect(tip.Pos).To(Equal(legend.Point{X: m.X + 12, Y: m.Y + 12}))

			v.Hover(legend.Point{X: m.X + 1, Y: m.Y})
			Expect(v.Frame(now).Tooltip.Pos.X).To(BeNumerically("~", m.X+13, 1e-9))

			v.Hover(legend.Point{X: -100, Y: -100})
			Expect(v.Frame(now).Tooltip.Visible).To(BeFalse())
		})
	})

	Describe("tooltip across passes", func() {
		const csv = "a,b,c,class\n1,2,9,x\n3,4,8,y\n"

		hoverFirst := func() {
			m := v.Frame(now).Marks[0]
			v.Hover(legend.Point{X: m.X, Y: m.Y})
			Expect(v.Frame(now).Tooltip.Visible).To(BeTrue())
		}

		It("follows the selected attributes", func() {
			v.CompleteLoad(v.BeginLoad("mem.csv"), mustParse(csv), nil)
			hoverFirst()
			Expect(v.Frame(now).Tooltip.Lines).To(Equal([]string{"Class: x", "a: 1", "b: 2"}))

			Expect(v.SetX("c")).To(Succeed())
			Expect(v.Frame(now).Tooltip.Lines).To(Equal([]string{"Class: x", "c: 9", "b: 2"}))
		})

		It("shows the record now bound to the hovered index", func() {
			v.CompleteLoad(v.BeginLoad("mem.csv"), mustParse(csv), nil)
			hoverFirst()
			Expect(v.SetX("c")).To(Succeed())
			pos := v.Frame(now).Tooltip.Pos

			Expect(v.SetClassFilter("y")).To(Succeed())
			tip := v.Frame(now).Tooltip
			Expect(tip.Visible).To(BeTrue())
			Expect(tip.Lines).To(Equal([]string{"Class: y", "c: 8", "b: 4"}))
			Expect(tip.Pos).To(Equal(pos))
		})

		It("hides when the hovered record is filtered out", func() {
			opts := DefaultOptions()
			opts.Now = func() time.Time { return now }
			opts.Key = reconcile.ByRecord
			v = New(opts)
			v.CompleteLoad(v.BeginLoad("mem.csv"), mustParse(csv), nil)
			hoverFirst()

			Expect(v.SetClassFilter("y")).To(Succeed())
			Expect(v.Frame(now).Tooltip.Visible).To(BeFalse())
		})
	})

	Describe("per-record class mode", func() {
		BeforeEach(func() {
			opts := DefaultOptions()
			opts.Now = func() time.Time { return now }
			opts.PerRecordClass = true
			v = New(opts)
			v.CompleteLoad(v.BeginLoad("mem.csv"), mustParse("kind,a,b,c\nx,1,2,3\ny,3,4,5\n"), nil)
			Expect(v.Status().Phase).To(Equal(Ready))
		})

		It("offers the classes the records resolve to", func() {
			Expect(v.Schema().FilterOptions()).To(ContainElements("x", "y"))

			var labels []string
			for _, e := range v.Frame(now).Legend {
				labels = append(labels, e.Label)
			}
			Expect(labels).To(Equal([]string{"x", "y"}))
		})

		It("filters on those classes", func() {
			Expect(v.SetClassFilter("x")).To(Succeed())
			f := v.Frame(now)
			Expect(f.Shown).To(Equal(1))
			Expect(f.Marks[0].Class.String()).To(Equal("x"))
		})
	})

	Describe("hit radius", func() {
		const csv = "a,b,class\n1,2,x\n3,4,y\n"

		It("uses the radius marks are drawn at", func() {
			opts := DefaultOptions()
			opts.Now = func() time.Time { return now }
			opts.MarkScale = 1.0 / 3
			v = New(opts)
			v.CompleteLoad(v.BeginLoad("mem.csv"), mustParse(csv), nil)

			m := v.Frame(now).Marks[0]
			v.Hover(legend.Point{X: m.X + 5, Y: m.Y})
			Expect(v.Frame(now).Tooltip.Visible).To(BeFalse())

			v.Hover(legend.Point{X: m.X + 3, Y: m.Y})
			Expect(v.Frame(now).Tooltip.Visible).To(BeTrue())
		})

		It("treats a zero scale as unscaled", func() {
			v.CompleteLoad(v.BeginLoad("mem.csv"), mustParse(csv), nil)

			m := v.Frame(now).Marks[0]
			v.Hover(legend.Point{X: m.X + 5, Y: m.Y})
			Expect(v.Frame(now).Tooltip.Visible).To(BeTrue())
		})
	})

	Describe("snapshots", func() {
		It("lays the selection out again at another size", func() {
			v.CompleteLoad(v.BeginLoad("mem.csv"), mustParse("a,b,c,class\n1,2,3,x\n4,5,6,y\n"), nil)
			Expect(v.SetY("c")).To(Succeed())
			Expect(v.SetClassFilter("y")).To(Succeed())

			opts := DefaultOptions()
			opts.Width, opts.Height = 640, 480
			f, err := v.Snapshot(opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Width).To(Equal(640.0))
			Expect(f.Selection.Y).To(Equal("c"))
			Expect(f.Shown).To(Equal(1))
			Expect(f.Marks).To(HaveLen(1))
			Expect(f.Marks[0].R).To(Equal(DefaultOptions().Timing.Radius))

			Expect(v.Frame(now).Width).NotTo(Equal(640.0))
		})

		It("refuses without a usable dataset", func() {
			_, err := v.Snapshot(DefaultOptions())
			Expect(errors.Is(err, ErrNotReady)).To(BeTrue())
		})

		It("does not log a load of its own", func() {
			v.CompleteLoad(v.BeginLoad("mem.csv"), mustParse("a,b,class\n1,2,x\n3,4,y\n"), nil)

			old := logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
			DeferCleanup(func() { logrus.StandardLogger().ReplaceHooks(old) })
			hook := test.NewGlobal()

			_, err := v.Snapshot(DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
			for _, e := range hook.AllEntries() {
				Expect(e.Message).NotTo(Equal("load requested"))
			}
		})
	})
})
