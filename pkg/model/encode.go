package model

import (
	"fmt"
	"math"

	"github.com/mchmarny/churn/pkg/customer"
)

// column maps one model feature to a customer record field.
type column struct {
	name        string
	kind        customer.Kind
	categorical bool

	// codes maps category keys to the integer codes used in training.
	// Always set for string fields.
	codes map[string]int
}

// resolveColumns binds the model features to the customer schema. String
// fields must have been pandas categoricals at training time, so they
// consume the stored category lists in column order. When the model
// carries more lists than string features, numeric features marked
// categorical were pandas categoricals too.
func resolveColumns(a *artifact) ([]column, error) {
	cols := make([]column, 0, len(a.featureNames))
	var nStrings, nNumericCats int

	for i, name := range a.featureNames {
		f, ok := customer.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("model feature %q is not a customer field", name)
		}

		c := column{
			name:        name,
			kind:        f.Kind,
			categorical: isCategoricalInfo(a.featureInfos[i]),
		}

		switch {
		case f.Kind == customer.KindString:
			nStrings++
		case c.categorical:
			nNumericCats++
		}

		cols = append(cols, c)
	}

	withNumeric := len(a.categories) > nStrings
	want := nStrings
	if withNumeric {
		want += nNumericCats
	}

	if len(a.categories) != want {
		return nil, fmt.Errorf("model has %d category lists for %d categorical features", len(a.categories), want)
	}

	next := 0
	for i := range cols {
		c := &cols[i]
		if c.kind != customer.KindString && !(withNumeric && c.categorical) {
			continue
		}
		c.codes = make(map[string]int, len(a.categories[next]))
		for code, key := range a.categories[next] {
			c.codes[key] = code
		}
		next++
	}

	return cols, nil
}

// encode builds the model's feature vector from the record.
func encode(cols []column, r *customer.Record, strict bool) ([]float64, error) {
	fvals := make([]float64, len(cols))
	for i, c := range cols {
		v, err := r.Value(c.name)
		if err != nil {
			return nil, &PredictionError{Field: c.name, Err: err}
		}

		if fvals[i], err = c.encode(v, strict); err != nil {
			return nil, &PredictionError{Field: c.name, Err: err}
		}
	}
	return fvals, nil
}

func (c column) encode(v any, strict bool) (float64, error) {
	if c.codes != nil {
		key, err := categoryKey(v)
		if err != nil {
			return 0, err
		}
		code, ok := c.codes[key]
		if !ok {
			if strict {
				return 0, fmt.Errorf("%w: %q", ErrUnseenCategory, key)
			}
			return math.NaN(), nil
		}
		return float64(code), nil
	}

	switch t := v.(type) {
	case int:
		return float64(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("invalid numeric value %v", t)
		}
		return t, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T for numeric feature", v)
	}
}
