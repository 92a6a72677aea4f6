package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/scatterview/internal/config"
	"github.com/san-kum/scatterview/internal/dataset"
	"github.com/san-kum/scatterview/internal/legend"
	"github.com/san-kum/scatterview/internal/render"
	"github.com/san-kum/scatterview/internal/storage"
	"github.com/san-kum/scatterview/internal/view"
	"github.com/san-kum/scatterview/internal/viz"
)

// Screen layout, in terminal cells.
const (
	headerRows = 3 // title with its border, then the selector line
	plotTop    = headerRows + 1
	footerRows = 4 // x labels, x title, status, hints
	panelWidth = 28

	markDots = 1.5
)

type tickMsg time.Time

type loadedMsg struct {
	token view.Token
	ds    *dataset.Dataset
	err   error
}

type savedMsg struct {
	id  string
	err error
}

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the interactive scatter plot.
type Model struct {
	cfg    *config.Config
	loader *dataset.Loader
	store  *storage.Store

	view   *view.View
	canvas *viz.Canvas
	theme  viz.Theme
	styles viz.Styles

	datasets []string
	current  int

	width, height int
	markScale     float64
	showHelp      bool
	ticking       bool
	frame         int
	notice        string
}

func New(cfg *config.Config, loader *dataset.Loader, store *storage.Store) Model {
	datasets := make([]string, 0, len(config.Presets)+1)
	if config.PresetFor(cfg.Dataset) == "" {
		datasets = append(datasets, cfg.Dataset)
	}
	current := 0
	for _, name := range config.ListPresets() {
		p := config.Presets[name].Path
		if p == cfg.Dataset {
			current = len(datasets)
		}
		datasets = append(datasets, p)
	}

	viz.SetTheme(cfg.Theme)
	theme := viz.GetTheme(cfg.Theme)

	markScale := 1.0
	if cfg.Marks.Radius > 0 {
		markScale = markDots / cfg.Marks.Radius
	}
	opts := view.OptionsFrom(cfg, cfg.Width)
	opts.MarkScale = markScale

	m := Model{
		cfg:       cfg,
		loader:    loader,
		store:     store,
		view:      view.New(opts),
		theme:     theme,
		styles:    viz.NewStyles(theme),
		datasets:  datasets,
		current:   current,
		width:     100,
		height:    32,
		markScale: markScale,
		ticking:   true,
	}
	m.layout()
	return m
}

// Init starts the first load and the tick loop New marked as running.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(m.datasets[m.current]), tick())
}

// load starts a fetch of path. The result comes back as a loadedMsg
// carrying the token of this request.
func (m Model) load(path string) tea.Cmd {
	tok := m.view.BeginLoad(path)
	loader := m.loader
	return func() tea.Msg {
		ds, err := loader.Load(context.Background(), path)
		return loadedMsg{token: tok, ds: ds, err: err}
	}
}

// layout sizes the canvas to the terminal and lays the view out in
// canvas dots.
func (m *Model) layout() {
	cols := m.width - viz.GutterWidth - panelWidth - 2
	rows := m.height - plotTop - footerRows - 1
	m.canvas = viz.NewCanvas(max(cols, 10), max(rows, 5))
	w, h := m.canvas.Dots()
	m.view.Resize(float64(w), float64(h))
}

// animate starts the tick loop unless it is already running.
func (m *Model) animate() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.MouseMsg:
		m.hover(msg)
		return m, nil
	case loadedMsg:
		if m.view.CompleteLoad(msg.token, msg.ds, msg.err) {
			m.notice = ""
		}
		return m, m.animate()
	case savedMsg:
		if msg.err != nil {
			m.notice = "export failed: " + msg.err.Error()
		} else {
			m.notice = "saved " + msg.id
		}
		return m, nil
	case tickMsg:
		m.frame++
		busy := m.view.Advance(time.Time(msg))
		if busy || m.view.Status().Phase == view.Loading {
			return m, tick()
		}
		m.ticking = false
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	var err error
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "d", "D":
		delta := 1
		if msg.String() == "D" {
			delta = -1
		}
		m.current = (m.current + delta + len(m.datasets)) % len(m.datasets)
		return m, tea.Batch(m.load(m.datasets[m.current]), m.animate())
	case "x":
		err = m.view.CycleX(1)
	case "X":
		err = m.view.CycleX(-1)
	case "y":
		err = m.view.CycleY(1)
	case "Y":
		err = m.view.CycleY(-1)
	case "c":
		err = m.view.CycleClass(1)
	case "C":
		err = m.view.CycleClass(-1)
	case "r":
		err = m.view.Reset()
	case "t":
		m.theme = viz.NextTheme()
		m.styles = viz.NewStyles(m.theme)
		return m, nil
	case "s":
		return m, m.save()
	default:
		return m, nil
	}

	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	return m, m.animate()
}

// hover maps a terminal cell to canvas dots and moves the tooltip.
func (m *Model) hover(msg tea.MouseMsg) {
	col := msg.X - viz.GutterWidth
	row := msg.Y - plotTop
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		m.view.Leave()
		return
	}
	m.view.Hover(legend.Point{X: float64(col*2 + 1), Y: float64(row*4 + 2)})
}

// save renders the settled chart at its configured size and hands it
// to the store.
func (m Model) save() tea.Cmd {
	if m.store == nil {
		return nil
	}
	f, err := m.view.Snapshot(view.OptionsFrom(m.cfg, m.cfg.Width))
	if err != nil {
		return func() tea.Msg { return savedMsg{err: err} }
	}
	store, style := m.store, render.StyleFrom(m.cfg)
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := render.SVG(&buf, f, style); err != nil {
			return savedMsg{err: err}
		}
		if err := store.Init(); err != nil {
			return savedMsg{err: err}
		}
		id, err := store.Save(f, buf.Bytes())
		return savedMsg{id: id, err: err}
	}
}

func (m Model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	f := m.view.Frame(time.Now())
	var b strings.Builder

	b.WriteString(m.styles.Header.Render(viz.GradientText("scatterview", m.theme.Primary, m.theme.Accent) +
		"  " + m.styles.Muted.Render(m.view.Requested())))
	b.WriteString("\n")
	b.WriteString(m.viewSelectors(f))
	b.WriteString("\n")

	plot := viz.Plot(f, m.canvas, m.theme, m.markScale)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, plot, "  ", m.viewPanel(f)))
	b.WriteString("\n")
	b.WriteString(m.viewStatus(f.Status))
	b.WriteString("\n")
	b.WriteString(m.styles.KeyHint.Render("x/y axes  c class  d dataset  r reset  t theme  s save  ? help  q quit"))
	return b.String()
}

func (m Model) viewSelectors(f view.Frame) string {
	sel := f.Selection
	item := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return m.styles.Muted.Render(label+" ") + m.styles.Value.Render(value)
	}
	return strings.Join([]string{
		item("x", sel.X),
		item("y", sel.Y),
		item("class", sel.ClassFilter),
	}, "   ")
}

func (m Model) viewPanel(f view.Frame) string {
	var b strings.Builder
	b.WriteString(m.styles.Muted.Render("classes") + "\n")
	for _, e := range f.Legend {
		b.WriteString(viz.Swatch(e.Color, e.Label, m.theme.Text) + "\n")
	}

	if f.Axes && f.Rows > 0 {
		b.WriteString("\n" + m.styles.Muted.Render(fmt.Sprintf("shown %d/%d", f.Shown, f.Rows)) + "\n")
		b.WriteString(viz.ProgressBar(float64(f.Shown)/float64(f.Rows), panelWidth-6, m.theme.Primary) + "\n")
	}

	if f.Tooltip.Visible {
		b.WriteString("\n" + m.styles.Tooltip.Render(strings.Join(f.Tooltip.Lines, "\n")))
	}
	return m.styles.Panel.Width(panelWidth - 4).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewStatus(st view.Status) string {
	msg := st.Message
	if m.notice != "" {
		msg += "  " + m.notice
	}
	switch st.Phase {
	case view.Loading:
		return m.styles.Loading.Render(viz.AnimatedSpinner(m.frame) + " " + msg)
	case view.Ready:
		return m.styles.Ready.Render(msg)
	case view.Degraded:
		return m.styles.Degraded.Render(msg)
	case view.Failed:
		return m.styles.Failed.Render(msg)
	default:
		return m.styles.Muted.Render(msg)
	}
}

func (m Model) viewHelp() string {
	keys := [][2]string{
		{"x / X", "next / previous x attribute"},
		{"y / Y", "next / previous y attribute"},
		{"c / C", "next / previous class filter"},
		{"d / D", "next / previous dataset"},
		{"r", "reset selection"},
		{"t", "cycle theme"},
		{"s", "export chart to " + m.cfg.OutDir},
		{"mouse", "hover a point for details"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(m.styles.Value.Render("keys") + "\n\n")
	for _, k := range keys {
		b.WriteString(m.styles.Label.Render(k[0]) + "  " + k[1] + "\n")
	}
	b.WriteString("\n" + m.styles.KeyHint.Render("press any key"))
	return m.styles.Panel.Render(b.String())
}

// Run starts the interactive plot and blocks until the user quits.
func Run(cfg *config.Config, loader *dataset.Loader, store *storage.Store) error {
	p := tea.NewProgram(New(cfg, loader, store), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	if err != nil {
		logrus.WithError(err).Error("tui exited")
	}
	return err
}
