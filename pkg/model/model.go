package model

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/dmitryikh/leaves"
	"github.com/mchmarny/churn/pkg/customer"
)

const binaryObjective = "binary"

// Classifier estimates the positive-class (churn) probability of a record.
type Classifier interface {
	PredictProba(r *customer.Record) (float64, error)
}

// ensemble is the part of *leaves.Ensemble the model uses.
type ensemble interface {
	PredictSingle(fvals []float64, nEstimators int) float64
	NFeatures() int
	NEstimators() int
}

// Model is a loaded churn classifier.
type Model struct {
	path    string
	ens     ensemble
	columns []column
	strict  bool
}

// Option configures a Model.
type Option func(*Model)

// WithStrictCategories makes PredictProba fail on categorical values the
// model was not trained on instead of treating them as missing.
func WithStrictCategories(strict bool) Option {
	return func(m *Model) {
		m.strict = strict
	}
}

// Load reads a LightGBM text model from path.
func Load(path string, opts ...Option) (*Model, error) {
	if path == "" {
		return nil, &LoadError{Err: errors.New("model path required")}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	m, err := newModel(b, opts...)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m.path = path

	slog.Debug("model loaded",
		"path", path,
		"trees", m.ens.NEstimators(),
		"features", len(m.columns),
		"strict", m.strict,
	)

	return m, nil
}

func newModel(b []byte, opts ...Option) (*Model, error) {
	a, err := parseArtifact(bufio.NewReader(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(a.objective, binaryObjective) {
		return nil, fmt.Errorf("unsupported objective %q, want %s", a.objective, binaryObjective)
	}

	if a.numClass != 1 {
		return nil, fmt.Errorf("unsupported number of classes: %d", a.numClass)
	}

	cols, err := resolveColumns(a)
	if err != nil {
		return nil, err
	}

	ens, err := leaves.LGEnsembleFromReader(bufio.NewReader(bytes.NewReader(b)), true)
	if err != nil {
		return nil, fmt.Errorf("error reading trees: %w", err)
	}

	if ens.NFeatures() != len(cols) {
		return nil, fmt.Errorf("trees use %d features, header names %d", ens.NFeatures(), len(cols))
	}

	m := &Model{
		ens:     ens,
		columns: cols,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Path returns the file the model was loaded from.
func (m *Model) Path() string {
	return m.path
}

// Features returns the record fields the model reads, in model order.
func (m *Model) Features() []string {
	list := make([]string, 0, len(m.columns))
	for _, c := range m.columns {
		list = append(list, c.name)
	}
	return list
}

// PredictProba returns the probability in [0, 1] that the customer churns.
func (m *Model) PredictProba(r *customer.Record) (float64, error) {
	if err := r.Validate(); err != nil {
		var mfe *customer.MissingFieldError
		if errors.As(err, &mfe) {
			return 0, &PredictionError{Field: mfe.Field, Err: err}
		}
		return 0, &PredictionError{Err: err}
	}

	fvals, err := encode(m.columns, r, m.strict)
	if err != nil {
		return 0, err
	}

	slog.Debug("record encoded", "customer", r.CustomerID, "features", len(fvals))

	p := m.ens.PredictSingle(fvals, 0)
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, &PredictionError{Err: fmt.Errorf("model returned %v, outside [0, 1]", p)}
	}

	return p, nil
}
