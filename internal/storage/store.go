package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/san-kum/scatterview/internal/view"
	"github.com/sirupsen/logrus"
)

const (
	chartFile    = "chart.svg"
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"
)

// Store keeps exported charts, one directory per export.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ExportMetadata struct {
	ID          string    `json:"id"`
	Dataset     string    `json:"dataset"`
	Timestamp   time.Time `json:"timestamp"`
	X           string    `json:"x"`
	Y           string    `json:"y"`
	ClassFilter string    `json:"class_filter"`
	Rows        int       `json:"rows"`
	Shown       int       `json:"shown"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
}

// Save writes the rendered chart, its metadata and the visible points.
func (s *Store) Save(f view.Frame, chart []byte) (string, error) {
	ts := s.now()
	base := datasetName(f.Dataset)
	id := fmt.Sprintf("%s_%d", base, ts.Unix())
	dir := filepath.Join(s.baseDir, id)
	for n := 2; exists(dir); n++ {
		id = fmt.Sprintf("%s_%d_%d", base, ts.Unix(), n)
		dir = filepath.Join(s.baseDir, id)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "create export dir")
	}

	if err := os.WriteFile(filepath.Join(dir, chartFile), chart, 0644); err != nil {
		return "", errors.Wrap(err, "write chart")
	}

	meta := ExportMetadata{
		ID:          id,
		Dataset:     f.Dataset,
		Timestamp:   ts,
		X:           f.Selection.X,
		Y:           f.Selection.Y,
		ClassFilter: f.Selection.ClassFilter,
		Rows:        f.Rows,
		Shown:       f.Shown,
		Width:       f.Width,
		Height:      f.Height,
	}
	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writePoints(filepath.Join(dir, pointsFile), f); err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{"id": id, "dir": dir}).Info("chart exported")
	return id, nil
}

func writeJSON(path string, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create metadata")
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode metadata")
}

// writePoints stores the records behind the visible marks with their
// axis values and class.
func writePoints(path string, f view.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create points")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	x, y := f.Selection.X, f.Selection.Y
	if err := w.Write([]string{"id", x, y, "class"}); err != nil {
		return err
	}
	for _, m := range f.Marks {
		if m.Exiting {
			continue
		}
		row := []string{
			strconv.Itoa(m.Record.ID),
			m.Record.Get(x).String(),
			m.Record.Get(y).String(),
			m.Class.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "write points")
}

// List returns every readable export, oldest first.
func (s *Store) List() ([]ExportMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ExportMetadata{}, nil
		}
		return nil, err
	}

	exports := make([]ExportMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		exports = append(exports, *meta)
	}
	sort.SliceStable(exports, func(i, j int) bool {
		return exports[i].Timestamp.Before(exports[j].Timestamp)
	})
	return exports, nil
}

func (s *Store) Load(id string) (*ExportMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta ExportMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "parse metadata of %s", id)
	}
	return &meta, nil
}

// ChartPath is where the SVG of an export lives.
func (s *Store) ChartPath(id string) string {
	return filepath.Join(s.baseDir, id, chartFile)
}

// LoadPoints reads back the points of an export as header plus rows.
func (s *Store) LoadPoints(id string) ([]string, [][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, pointsFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func datasetName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		return "chart"
	}
	return name
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
