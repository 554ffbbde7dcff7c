package stats

import (
	"fmt"
	"os"

	"github.com/ministryofjustice/pamo-utilities/core"
)

// The helpers double as dynamic report sources. Registering them under
// dotted names lets configurations reference e.g. "stats:group_means"
// without a registry entry; Sources exposes the same functions for
// registry-style wiring.
func init() {
	core.RegisterFunc("stats.group_means", GroupMeansSource)
	core.RegisterFunc("stats.group_medians", GroupMediansSource)
	core.RegisterFunc("stats.pay_gap", PayGapSource)
	core.RegisterFunc("stats.quantiles", QuantilesSource)
}

// Sources returns the helpers as a registry for core.Build.
func Sources() map[string]core.SourceFunc {
	return map[string]core.SourceFunc{
		"group_means":   GroupMeansSource,
		"group_medians": GroupMediansSource,
		"pay_gap":       PayGapSource,
		"quantiles":     QuantilesSource,
	}
}

// GroupMeansSource wraps GroupMeans as a dynamic source.
// Kwargs: table or csv.
func GroupMeansSource(kwargs map[string]any) (any, error) {
	t, err := tableArg(kwargs)
	if err != nil {
		return nil, err
	}
	return GroupMeans(t)
}

// GroupMediansSource wraps GroupMedians as a dynamic source. It returns a
// mapping with keys "results", "data" and "medians"; configurations select
// one with the source key. Kwargs: table or csv.
func GroupMediansSource(kwargs map[string]any) (any, error) {
	t, err := tableArg(kwargs)
	if err != nil {
		return nil, err
	}
	r, err := GroupMedians(t)
	if err != nil {
		return nil, err
	}
	return map[string]*core.Table{
		"results": r.Results,
		"data":    r.Data,
		"medians": r.Medians,
	}, nil
}

// PayGapSource wraps PayGap as a dynamic source.
// Kwargs: table or csv, plus comparator.
func PayGapSource(kwargs map[string]any) (any, error) {
	t, err := tableArg(kwargs)
	if err != nil {
		return nil, err
	}
	comparator, err := stringArg(kwargs, "comparator")
	if err != nil {
		return nil, err
	}
	return PayGap(t, comparator)
}

// QuantilesSource wraps Quantiles as a dynamic source.
// Kwargs: table or csv, plus range_column and bin_count.
func QuantilesSource(kwargs map[string]any) (any, error) {
	t, err := tableArg(kwargs)
	if err != nil {
		return nil, err
	}
	rangeColumn, err := stringArg(kwargs, "range_column")
	if err != nil {
		return nil, err
	}
	binCount, err := intArg(kwargs, "bin_count")
	if err != nil {
		return nil, err
	}
	return Quantiles(t, rangeColumn, binCount)
}

// tableArg resolves the input table from kwargs: a *core.Table under
// "table", or a CSV path under "csv".
func tableArg(kwargs map[string]any) (*core.Table, error) {
	if v, ok := kwargs["table"]; ok {
		t, ok := v.(*core.Table)
		if !ok {
			return nil, fmt.Errorf("kwarg 'table' must be a table, got %T", v)
		}
		return t, nil
	}
	if v, ok := kwargs["csv"]; ok {
		path, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("kwarg 'csv' must be a path, got %T", v)
		}
		return core.ReadCSV(os.ExpandEnv(path))
	}
	return nil, fmt.Errorf("source requires a 'table' or 'csv' kwarg")
}

func stringArg(kwargs map[string]any, name string) (string, error) {
	v, ok := kwargs[name]
	if !ok {
		return "", fmt.Errorf("missing required kwarg '%s'", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("kwarg '%s' must be a string, got %T", name, v)
	}
	return s, nil
}

func intArg(kwargs map[string]any, name string) (int, error) {
	v, ok := kwargs[name]
	if !ok {
		return 0, fmt.Errorf("missing required kwarg '%s'", name)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("kwarg '%s' must be an integer, got %T", name, v)
	}
}
