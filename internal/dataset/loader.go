package dataset

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNoDataset is the terminal load failure: the requested path and
// the fallback both failed.
var ErrNoDataset = errors.New("dataset: no dataset available")

// Attempt records one failed read.
type Attempt struct {
	Path string
	Err  error
}

// LoadError lists every path that was tried. It unwraps to
// ErrNoDataset.
type LoadError struct {
	Attempts []Attempt
}

func (e *LoadError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Path, a.Err)
	}
	return fmt.Sprintf("%v (%s)", ErrNoDataset, strings.Join(parts, "; "))
}

func (e *LoadError) Unwrap() error { return ErrNoDataset }

// Loader reads datasets and retries the fallback path at most once.
type Loader struct {
	Source   Source
	Fallback string
}

func NewLoader(src Source, fallback string) *Loader {
	if src == nil {
		src = AutoSource{}
	}
	return &Loader{Source: src, Fallback: fallback}
}

// Load reads p. If that fails and p is not the fallback, the fallback
// is read instead. The returned dataset's Requested field is always p.
func (l *Loader) Load(ctx context.Context, p string) (*Dataset, error) {
	ds, err := l.read(ctx, p, 1)
	if err == nil {
		return ds, nil
	}
	attempts := []Attempt{{Path: p, Err: err}}

	if l.Fallback == "" || l.isFallback(p) || ctx.Err() != nil {
		return nil, &LoadError{Attempts: attempts}
	}

	logrus.WithFields(logrus.Fields{"path": p, "fallback": l.Fallback}).Warn("load failed, trying fallback")
	ds, err = l.read(ctx, l.Fallback, 2)
	if err != nil {
		attempts = append(attempts, Attempt{Path: l.Fallback, Err: err})
		return nil, &LoadError{Attempts: attempts}
	}
	ds.Requested = p
	return ds, nil
}

func (l *Loader) read(ctx context.Context, p string, attempt int) (*Dataset, error) {
	log := logrus.WithFields(logrus.Fields{"path": p, "attempt": attempt})
	log.Debug("loading dataset")

	rc, err := l.Source.Open(ctx, p)
	if err != nil {
		log.WithError(err).Warn("open failed")
		return nil, err
	}
	defer rc.Close()

	ds, err := Parse(rc)
	if err != nil {
		log.WithError(err).Warn("parse failed")
		return nil, errors.Wrapf(err, "parse %s", p)
	}
	ds.Path = p
	ds.Requested = p
	log.WithField("rows", ds.Len()).Info("dataset loaded")
	return ds, nil
}

func (l *Loader) isFallback(p string) bool {
	if IsURL(p) || IsURL(l.Fallback) {
		return p == l.Fallback
	}
	return path.Clean(strings.TrimPrefix(p, "/")) == path.Clean(strings.TrimPrefix(l.Fallback, "/"))
}
