package config

import (
	"reflect"
	"testing"
)

func TestMerge_OverlayOnlyKeys(t *testing.T) {
	t.Parallel()
	base := map[string]any{"a": 1}
	overlay := map[string]any{"b": 2}

	got := Merge(base, overlay)

	want := map[string]any{"a": 1, "b": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
}

func TestMerge_LeafOverride(t *testing.T) {
	t.Parallel()
	base := map[string]any{"attempts": 3, "name": "base"}
	overlay := map[string]any{"attempts": 10}

	got := Merge(base, overlay)

	if got["attempts"] != 10 {
		t.Errorf("attempts = %v, want 10", got["attempts"])
	}
	if got["name"] != "base" {
		t.Errorf("name = %v, want base", got["name"])
	}
}

func TestMerge_NestedRecordsRecurse(t *testing.T) {
	t.Parallel()
	base := map[string]any{
		"path": map[string]any{"pattern": []any{"./*.puppet.js"}, "results": "./results.json"},
	}
	overlay := map[string]any{
		"path": map[string]any{"pattern": []any{"./tasks/*.js"}},
	}

	got := Merge(base, overlay)

	path := got["path"].(map[string]any)
	if !reflect.DeepEqual(path["pattern"], []any{"./tasks/*.js"}) {
		t.Errorf("path.pattern = %v, want [./tasks/*.js]", path["pattern"])
	}
	if path["results"] != "./results.json" {
		t.Errorf("path.results = %v, want ./results.json (kept from base)", path["results"])
	}
}

func TestMerge_SlicesReplacedWholesale(t *testing.T) {
	t.Parallel()
	base := map[string]any{"list": []any{"a", "b", "c"}}
	overlay := map[string]any{"list": []any{"z"}}

	got := Merge(base, overlay)

	if !reflect.DeepEqual(got["list"], []any{"z"}) {
		t.Errorf("list = %v, want [z]", got["list"])
	}
}

func TestMerge_RecordReplacesPrimitive(t *testing.T) {
	t.Parallel()
	base := map[string]any{"x": "scalar"}
	overlay := map[string]any{"x": map[string]any{"k": true}}

	got := Merge(base, overlay)

	if !reflect.DeepEqual(got["x"], map[string]any{"k": true}) {
		t.Errorf("x = %v, want map[k:true]", got["x"])
	}
}

func TestMerge_PrimitiveReplacesRecord(t *testing.T) {
	t.Parallel()
	base := map[string]any{"x": map[string]any{"k": true}}
	overlay := map[string]any{"x": "scalar"}

	got := Merge(base, overlay)

	if got["x"] != "scalar" {
		t.Errorf("x = %v, want scalar", got["x"])
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()
	base := map[string]any{
		"path": map[string]any{"results": "a.json"},
		"list": []any{"a"},
	}
	overlay := map[string]any{
		"path":  map[string]any{"pattern": "*.js"},
		"extra": map[string]any{"deep": map[string]any{"v": 1}},
	}
	baseCopy := copyRecord(base)
	overlayCopy := copyRecord(overlay)

	got := Merge(base, overlay)

	// Mutating the result must not leak into the inputs either.
	got["path"].(map[string]any)["results"] = "changed"
	got["extra"].(map[string]any)["deep"].(map[string]any)["v"] = 2
	got["list"].([]any)[0] = "changed"

	if !reflect.DeepEqual(base, baseCopy) {
		t.Errorf("base mutated: %v, want %v", base, baseCopy)
	}
	if !reflect.DeepEqual(overlay, overlayCopy) {
		t.Errorf("overlay mutated: %v, want %v", overlay, overlayCopy)
	}
}

func TestMerge_NilInputs(t *testing.T) {
	t.Parallel()
	got := Merge(nil, map[string]any{"a": 1})
	if got["a"] != 1 {
		t.Errorf("Merge(nil, overlay)[a] = %v, want 1", got["a"])
	}

	got = Merge(map[string]any{"a": 1}, nil)
	if got["a"] != 1 {
		t.Errorf("Merge(base, nil)[a] = %v, want 1", got["a"])
	}
}

func TestMergeValues_NonRecordPassesBaseThrough(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		base    any
		overlay any
		want    any
	}{
		{"base not record", "base", map[string]any{"a": 1}, "base"},
		{"overlay not record", map[string]any{"a": 1}, []any{"x"}, map[string]any{"a": 1}},
		{"both scalars", 1, 2, 1},
		{"both records", map[string]any{"a": 1}, map[string]any{"b": 2}, map[string]any{"a": 1, "b": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MergeValues(tt.base, tt.overlay); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeValues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMerge_DefaultsLayering(t *testing.T) {
	t.Parallel()
	file := map[string]any{
		"attempts": 2,
		"additionalParams": map[string]any{
			"fastGlobParams": map[string]any{"dot": false},
		},
	}
	flags := map[string]any{
		"additionalParams": map[string]any{"silent": true},
	}

	merged := Merge(Merge(DefaultMap(), file), flags)

	if merged["attempts"] != 2 {
		t.Errorf("attempts = %v, want 2", merged["attempts"])
	}
	params := merged["additionalParams"].(map[string]any)
	if params["silent"] != true {
		t.Errorf("silent = %v, want true", params["silent"])
	}
	if params["checkPerformance"] != true {
		t.Errorf("checkPerformance = %v, want true (default)", params["checkPerformance"])
	}
	glob := params["fastGlobParams"].(map[string]any)
	if glob["dot"] != false {
		t.Errorf("fastGlobParams.dot = %v, want false", glob["dot"])
	}
	if glob["onlyFiles"] != true {
		t.Errorf("fastGlobParams.onlyFiles = %v, want true (default)", glob["onlyFiles"])
	}
}
