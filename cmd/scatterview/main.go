package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aclements/go-moremath/stats"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/scatterview/internal/config"
	"github.com/san-kum/scatterview/internal/dataset"
	"github.com/san-kum/scatterview/internal/render"
	"github.com/san-kum/scatterview/internal/schema"
	"github.com/san-kum/scatterview/internal/storage"
	"github.com/san-kum/scatterview/internal/tui"
	"github.com/san-kum/scatterview/internal/view"
)

var (
	configFile string
	logLevel   string
	logFile    string

	datasetPath string
	preset      string
	xAttr       string
	yAttr       string
	classFilter string
	outFile     string
	width       int
	keyMode     string
	theme       string
	plotAttr    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scatterview",
		Short: "interactive scatter plots of tabular datasets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		},
		RunE: runInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (interactive mode defaults to scatterview.log)")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "dataset path or url")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "dataset preset name")
	rootCmd.Flags().StringVar(&theme, "theme", "", "colour theme")
	rootCmd.Flags().StringVar(&keyMode, "key", "", "mark identity: index or record")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the settled chart as svg",
		RunE:  runRender,
	}
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render a static png of the chart",
		RunE:  runSnapshot,
	}
	for _, c := range []*cobra.Command{renderCmd, snapshotCmd} {
		c.Flags().StringVar(&xAttr, "x", "", "x attribute (default: first numeric)")
		c.Flags().StringVar(&yAttr, "y", "", "y attribute (default: second numeric)")
		c.Flags().StringVar(&classFilter, "class", "", "class filter (default: all)")
		c.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")
		c.Flags().IntVar(&width, "width", 0, "container width in pixels")
	}

	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "show the schema and attribute statistics of a dataset",
		RunE:  runDescribe,
	}
	describeCmd.Flags().StringVar(&plotAttr, "plot", "", "attribute to graph (default: first numeric)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list dataset presets",
		RunE:  listPresets,
	}

	exportsCmd := &cobra.Command{
		Use:   "exports",
		Short: "list saved chart exports",
		RunE:  listExports,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "print the effective config, or write it to path",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(renderCmd, snapshotCmd, describeCmd, presetsCmd, exportsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command) error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	path := logFile
	if path == "" && cmd.Root() == cmd {
		// the terminal belongs to the plot
		path = "scatterview.log"
	}
	if path == "" {
		logrus.SetOutput(os.Stderr)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	return nil
}

// loadConfig reads the config file, then applies command-line
// overrides that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, errors.Errorf("unknown preset %q (see `scatterview presets`)", preset)
		}
		cfg.Dataset = p.Path
	}
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Dataset = datasetPath
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Lookup("key") != nil && flags.Changed("key") {
		cfg.Key = keyMode
	}
	if flags.Lookup("width") != nil && flags.Changed("width") {
		cfg.Width = width
	}
	return cfg, cfg.Validate()
}

func newLoader(cfg *config.Config) *dataset.Loader {
	return dataset.NewLoader(dataset.AutoSource{}, cfg.Fallback)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(cfg, newLoader(cfg), storage.New(cfg.OutDir))
}

// settledFrame loads the configured dataset, applies the selection
// flags and returns the chart with every transition finished.
func settledFrame(cmd *cobra.Command) (*config.Config, view.Frame, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, view.Frame{}, err
	}

	ds, err := newLoader(cfg).Load(context.Background(), cfg.Dataset)
	opts := view.OptionsFrom(cfg, cfg.Width)
	v := view.New(opts)
	v.CompleteLoad(v.BeginLoad(cfg.Dataset), ds, err)
	if st := v.Status(); st.Phase != view.Ready {
		if st.Err == nil {
			return cfg, v.Frame(opts.Now()), errors.New(st.Message)
		}
		return cfg, v.Frame(opts.Now()), errors.Wrap(st.Err, st.Message)
	}

	if xAttr != "" {
		if err := v.SetX(xAttr); err != nil {
			return nil, view.Frame{}, err
		}
	}
	if yAttr != "" {
		if err := v.SetY(yAttr); err != nil {
			return nil, view.Frame{}, err
		}
	}
	if classFilter != "" {
		if err := v.SetClassFilter(classFilter); err != nil {
			return nil, view.Frame{}, err
		}
	}
	f, err := v.Snapshot(opts)
	return cfg, f, err
}

func output() (io.WriteCloser, error) {
	if outFile == "" || outFile == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func runRender(cmd *cobra.Command, args []string) error {
	cfg, f, err := settledFrame(cmd)
	if cfg == nil {
		return err
	}
	if err != nil {
		// still draw the status so the failure is visible in the chart
		logrus.WithError(err).Warn("rendering without data")
	}

	w, oerr := output()
	if oerr != nil {
		return oerr
	}
	defer w.Close()
	if rerr := render.SVG(w, f, render.StyleFrom(cfg)); rerr != nil {
		return rerr
	}
	return err
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, f, err := settledFrame(cmd)
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return render.PNG(w, f, vg.Points(float64(cfg.Width)), vg.Points(float64(cfg.ChartHeight)))
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ds, err := newLoader(cfg).Load(context.Background(), cfg.Dataset)
	if err != nil {
		return err
	}
	sch, serr := schema.Discover(ds, false)

	fmt.Printf("dataset:  %s\n", ds.Path)
	if ds.FellBack() {
		fmt.Printf("          (requested %s)\n", ds.Requested)
	}
	fmt.Printf("rows:     %d\n", ds.Len())
	fmt.Printf("class:    %s (%d classes)\n", orDash(sch.Class), len(sch.Classes))
	fmt.Println()

	if len(sch.Numeric) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ATTRIBUTE\tN\tMIN\tMAX\tMEAN\tSTDDEV")
		for _, attr := range sch.Numeric {
			xs := ds.Floats(attr)
			if len(xs) == 0 {
				fmt.Fprintf(w, "%s\t0\t-\t-\t-\t-\n", attr)
				continue
			}
			lo, hi := stats.Bounds(xs)
			sd := 0.0
			if len(xs) > 1 {
				sd = stats.StdDev(xs)
			}
			fmt.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\n", attr, len(xs), lo, hi, stats.Mean(xs), sd)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println()
	}

	if serr != nil {
		fmt.Println(serr)
		return nil
	}

	attr := plotAttr
	if attr == "" {
		attr = sch.Numeric[0]
	}
	if !sch.IsNumeric(attr) {
		return errors.Errorf("%q is not a numeric attribute", attr)
	}
	if data := ds.Floats(attr); len(data) > 0 {
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(attr+" by row"),
		))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Path, p.Description)
	}
	return w.Flush()
}

func listExports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exports, err := storage.New(cfg.OutDir).List()
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Println("no exports found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATASET\tTIME\tX\tY\tCLASS\tSHOWN")
	for _, e := range exports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d/%d\n",
			e.ID,
			e.Dataset,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.X,
			e.Y,
			e.ClassFilter,
			e.Shown,
			e.Rows,
		)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return config.Save(args[0], cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
