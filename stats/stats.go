// Package stats provides the pay-gap statistical helpers: group means,
// group medians, pay-gap ratios and quantile binning over simple tabular
// inputs. Each helper is also registered as a dynamic report source (see
// sources.go).
package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/ministryofjustice/pamo-utilities/core"
)

// GroupMeans calculates the mean value for each group in the table. The
// table must have a numeric "value" column; every other column is treated
// as a grouping column. Results are rounded to 2 decimal places and groups
// are sorted ascending.
func GroupMeans(t *core.Table) (*core.Table, error) {
	valueIdx := t.Column("value")
	if valueIdx < 0 {
		return nil, fmt.Errorf("value column missing")
	}

	var groupIdx []int
	var groupCols []string
	for i, c := range t.Columns {
		if i != valueIdx {
			groupIdx = append(groupIdx, i)
			groupCols = append(groupCols, c)
		}
	}
	if len(groupIdx) == 0 {
		return nil, fmt.Errorf("no group columns found")
	}

	type acc struct {
		key   []any
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	var order []*acc

	for _, row := range t.Rows {
		v, err := numeric(row[valueIdx])
		if err != nil {
			return nil, fmt.Errorf("value column contains non-numeric values: %w", err)
		}
		key := make([]any, len(groupIdx))
		for i, gi := range groupIdx {
			key[i] = row[gi]
		}
		id := groupID(key)
		a, ok := groups[id]
		if !ok {
			a = &acc{key: key}
			groups[id] = a
			order = append(order, a)
		}
		a.sum += v
		a.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return compareKeys(order[i].key, order[j].key) < 0
	})

	result := &core.Table{Columns: append(append([]string{}, groupCols...), "value")}
	for _, a := range order {
		row := append(append([]any{}, a.key...), round(a.sum/float64(a.count), 2))
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

// MedianResult holds the outputs of GroupMedians: the per-group medians,
// the input data unchanged, and the records that form each group's median.
type MedianResult struct {
	Results *core.Table
	Data    *core.Table
	Medians *core.Table
}

// GroupMedians calculates the median value for each group in a two-column
// (group, value) table, and identifies the records closest to each group's
// median.
func GroupMedians(t *core.Table) (*MedianResult, error) {
	groupIdx := t.Column("group")
	if groupIdx < 0 {
		return nil, fmt.Errorf("group column missing")
	}
	valueIdx := t.Column("value")
	if valueIdx < 0 {
		return nil, fmt.Errorf("value column missing")
	}

	values := make(map[string][]float64)
	keys := make(map[string]any)
	var order []string
	for _, row := range t.Rows {
		v, err := numeric(row[valueIdx])
		if err != nil {
			return nil, fmt.Errorf("value column contains non-numeric values: %w", err)
		}
		id := groupID([]any{row[groupIdx]})
		if _, ok := values[id]; !ok {
			order = append(order, id)
			keys[id] = row[groupIdx]
		}
		values[id] = append(values[id], v)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return compareScalars(keys[order[i]], keys[order[j]]) < 0
	})

	medians := make(map[string]float64, len(order))
	results := &core.Table{Columns: []string{"group", "median_value"}}
	for _, id := range order {
		m := median(values[id])
		medians[id] = m
		results.Rows = append(results.Rows, []any{keys[id], m})
	}

	// Minimal absolute deviation from the group median per group.
	minDev := make(map[string]float64, len(order))
	type record struct {
		group  any
		value  float64
		median float64
		dev    float64
		id     string
	}
	var records []record
	for _, row := range t.Rows {
		v, _ := numeric(row[valueIdx])
		id := groupID([]any{row[groupIdx]})
		dev := math.Abs(v - medians[id])
		records = append(records, record{group: row[groupIdx], value: v, median: medians[id], dev: dev, id: id})
		if cur, ok := minDev[id]; !ok || dev < cur {
			minDev[id] = dev
		}
	}

	medianRecords := &core.Table{Columns: []string{"group", "value", "median_value", "deviation"}}
	for _, r := range records {
		if r.dev == minDev[r.id] {
			medianRecords.Rows = append(medianRecords.Rows, []any{r.group, r.value, r.median, r.dev})
		}
	}

	return &MedianResult{Results: results, Data: t, Medians: medianRecords}, nil
}

// PayGap calculates the pay gap between a comparator group and every other
// group in a (group, value) table of hourly rates. The gap is
// (comparator - group) / comparator, rounded to 4 decimal places. Exactly
// one row must belong to the comparator group.
func PayGap(t *core.Table, comparatorGroup string) (*core.Table, error) {
	groupIdx := t.Column("group")
	if groupIdx < 0 {
		return nil, fmt.Errorf("group column missing")
	}
	valueIdx := t.Column("value")
	if valueIdx < 0 {
		return nil, fmt.Errorf("value column missing")
	}

	comparatorValue := 0.0
	matches := 0
	for _, row := range t.Rows {
		v, err := numeric(row[valueIdx])
		if err != nil {
			return nil, fmt.Errorf("value column contains non-numeric values: %w", err)
		}
		if fmt.Sprintf("%v", row[groupIdx]) == comparatorGroup {
			comparatorValue = v
			matches++
		}
	}
	if matches != 1 {
		return nil, fmt.Errorf("expected exactly one record for comparator group '%s', found %d", comparatorGroup, matches)
	}

	result := &core.Table{Columns: []string{"group", "value", "pay_gap"}}
	for _, row := range t.Rows {
		v, _ := numeric(row[valueIdx])
		gap := round((comparatorValue-v)/comparatorValue, 4)
		result.Rows = append(result.Rows, []any{row[groupIdx], v, gap})
	}
	return result, nil
}

// Quantiles groups the table's range column into binCount quantiles. Rows
// are sorted ascending and split so the first (rows mod binCount) bins take
// one extra row each; the output reports each bin's record count and value
// range.
func Quantiles(t *core.Table, rangeColumn string, binCount int) (*core.Table, error) {
	idx := t.Column(rangeColumn)
	if idx < 0 {
		return nil, fmt.Errorf("%s column missing", rangeColumn)
	}
	if binCount < 1 {
		return nil, fmt.Errorf("bin count must be at least 1")
	}

	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		v, err := numeric(row[idx])
		if err != nil {
			return nil, fmt.Errorf("%s column contains non-numeric values: %w", rangeColumn, err)
		}
		values = append(values, v)
	}
	sort.Float64s(values)

	result := &core.Table{Columns: []string{"quantile", "record_count", "range_min", "range_max"}}
	n := len(values)
	base, extra := n/binCount, n%binCount
	pos := 0
	for bin := 0; bin < binCount; bin++ {
		size := base
		if bin < extra {
			size++
		}
		chunk := values[pos : pos+size]
		pos += size

		var rangeMin, rangeMax any
		if size > 0 {
			rangeMin, rangeMax = chunk[0], chunk[size-1]
		}
		result.Rows = append(result.Rows, []any{int64(bin + 1), int64(size), rangeMin, rangeMax})
	}

	if pos != n {
		return nil, fmt.Errorf("record count in quantiles doesn't match input data")
	}
	return result, nil
}

func median(values []float64) float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// numeric coerces a table cell to float64, accepting numeric strings.
func numeric(v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to a number", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %v (%T) to a number", v, v)
	}
}

func groupID(key []any) string {
	id := ""
	for _, k := range key {
		id += fmt.Sprintf("%v\x00", k)
	}
	return id
}

// compareScalars orders numbers numerically and everything else
// lexicographically by its string form.
func compareScalars(a, b any) int {
	af, aerr := numeric(a)
	bf, berr := numeric(b)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func compareKeys(a, b []any) int {
	for i := range a {
		if i >= len(b) {
			return 1
		}
		if c := compareScalars(a[i], b[i]); c != 0 {
			return c
		}
	}
	if len(a) < len(b) {
		return -1
	}
	return 0
}
