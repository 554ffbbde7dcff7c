package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ministryofjustice/pamo-utilities/core"
)

func TestSources_RegistryKeys(t *testing.T) {
	reg := Sources()
	for _, name := range []string{"group_means", "group_medians", "pay_gap", "quantiles"} {
		if reg[name] == nil {
			t.Errorf("Sources() missing %q", name)
		}
	}
}

func TestGroupMeansSource_CSVKwarg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pay.csv")
	data := "grade,value\nA,10\nA,20\nB,30\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := GroupMeansSource(map[string]any{"csv": path})
	if err != nil {
		t.Fatalf("GroupMeansSource() error = %v", err)
	}

	tbl, ok := result.(*core.Table)
	if !ok {
		t.Fatalf("GroupMeansSource() returned %T, want *core.Table", result)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0][1] != 15.0 {
		t.Errorf("mean for grade A = %v, want 15", tbl.Rows[0][1])
	}
}

func TestGroupMediansSource_ReturnsMapping(t *testing.T) {
	input := &core.Table{
		Columns: []string{"group", "value"},
		Rows:    [][]any{{"F", 10.0}, {"F", 20.0}},
	}

	result, err := GroupMediansSource(map[string]any{"table": input})
	if err != nil {
		t.Fatalf("GroupMediansSource() error = %v", err)
	}

	m, ok := result.(map[string]*core.Table)
	if !ok {
		t.Fatalf("GroupMediansSource() returned %T, want mapping", result)
	}
	for _, key := range []string{"results", "data", "medians"} {
		if m[key] == nil {
			t.Errorf("mapping missing %q", key)
		}
	}
}

func TestQuantilesSource_Kwargs(t *testing.T) {
	input := &core.Table{
		Columns: []string{"salary"},
		Rows:    [][]any{{10.0}, {20.0}, {30.0}},
	}

	// TOML integers arrive as int64; accept that for bin_count.
	result, err := QuantilesSource(map[string]any{
		"table":        input,
		"range_column": "salary",
		"bin_count":    int64(3),
	})
	if err != nil {
		t.Fatalf("QuantilesSource() error = %v", err)
	}
	tbl := result.(*core.Table)
	if len(tbl.Rows) != 3 {
		t.Errorf("got %d bins, want 3", len(tbl.Rows))
	}
}

func TestSourceKwargErrors(t *testing.T) {
	tests := []struct {
		name   string
		fn     core.SourceFunc
		kwargs map[string]any
	}{
		{"no table input", GroupMeansSource, map[string]any{}},
		{"table kwarg wrong type", GroupMeansSource, map[string]any{"table": 42}},
		{"missing comparator", PayGapSource, map[string]any{"table": &core.Table{Columns: []string{"group", "value"}}}},
		{"bin_count wrong type", QuantilesSource, map[string]any{
			"table":        &core.Table{Columns: []string{"salary"}},
			"range_column": "salary",
			"bin_count":    "three",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(tt.kwargs); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
