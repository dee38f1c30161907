package model

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	paramObjective     = "objective"
	paramNumClass      = "num_class"
	paramMaxFeatureIdx = "max_feature_idx"
	paramFeatureNames  = "feature_names"
	paramFeatureInfos  = "feature_infos"

	pandasCategoricalPrefix = "pandas_categorical:"
	featureInfoNone         = "none"
)

// artifact holds the parts of a LightGBM text model that describe its
// input columns. Tree evaluation is left to leaves.
type artifact struct {
	objective     string
	numClass      int
	maxFeatureIdx int
	featureNames  []string
	featureInfos  []string

	// categories are the pandas category lists in column order,
	// normalized with categoryKey.
	categories [][]string
}

func parseArtifact(r *bufio.Reader) (*artifact, error) {
	params, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	for _, k := range []string{paramObjective, paramMaxFeatureIdx, paramFeatureNames, paramFeatureInfos} {
		if _, ok := params[k]; !ok {
			return nil, fmt.Errorf("not a LightGBM model: missing %s", k)
		}
	}

	a := &artifact{
		objective:    params[paramObjective],
		numClass:     1,
		featureNames: strings.Fields(params[paramFeatureNames]),
		featureInfos: strings.Fields(params[paramFeatureInfos]),
	}

	if a.maxFeatureIdx, err = strconv.Atoi(params[paramMaxFeatureIdx]); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", paramMaxFeatureIdx, err)
	}

	if v, ok := params[paramNumClass]; ok {
		if a.numClass, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", paramNumClass, err)
		}
	}

	if len(a.featureNames) != a.maxFeatureIdx+1 {
		return nil, fmt.Errorf("model declares %d features but names %d", a.maxFeatureIdx+1, len(a.featureNames))
	}

	if len(a.featureInfos) != len(a.featureNames) {
		return nil, fmt.Errorf("model has %d feature infos for %d features", len(a.featureInfos), len(a.featureNames))
	}

	if a.categories, err = readPandasCategorical(r); err != nil {
		return nil, err
	}

	return a, nil
}

// readHeader reads the key=value block at the top of the model up to the
// first blank line.
func readHeader(r *bufio.Reader) (map[string]string, error) {
	params := make(map[string]string)
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error reading model header: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			if len(params) > 0 || errors.Is(err, io.EOF) {
				break
			}
			continue
		}

		if k, v, ok := strings.Cut(line, "="); ok {
			params[k] = v
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	if len(params) == 0 {
		return nil, errors.New("not a LightGBM model: empty header")
	}
	return params, nil
}

// readPandasCategorical scans the rest of the model for the category
// lists LightGBM stores when trained on a pandas DataFrame.
func readPandasCategorical(r *bufio.Reader) ([][]string, error) {
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error reading model: %w", err)
		}

		if v, ok := strings.CutPrefix(strings.TrimSpace(line), pandasCategoricalPrefix); ok {
			return parseCategories(v)
		}

		if errors.Is(err, io.EOF) {
			return nil, nil
		}
	}
}

func parseCategories(s string) ([][]string, error) {
	d := json.NewDecoder(strings.NewReader(s))
	d.UseNumber()

	var raw [][]any
	if err := d.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid %s section: %w", strings.TrimSuffix(pandasCategoricalPrefix, ":"), err)
	}

	list := make([][]string, 0, len(raw))
	for i, cats := range raw {
		keys := make([]string, 0, len(cats))
		for _, c := range cats {
			k, err := categoryKey(c)
			if err != nil {
				return nil, fmt.Errorf("category list %d: %w", i, err)
			}
			keys = append(keys, k)
		}
		list = append(list, keys)
	}
	return list, nil
}

// categoryKey normalizes a category value so that JSON numbers and record
// values compare equal regardless of formatting (1, 1.0).
func categoryKey(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return "", fmt.Errorf("invalid numeric category %q: %w", t, err)
		}
		return formatNumber(f), nil
	case float64:
		return formatNumber(t), nil
	case int:
		return strconv.Itoa(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported category value %v (%T)", v, v)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isCategoricalInfo(info string) bool {
	return info != featureInfoNone && !strings.HasPrefix(info, "[")
}
