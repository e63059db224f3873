package app

import (
	"reflect"
	"testing"

	"orion/adapters/excel"
	"orion/domain/dataset"
	"orion/internal/config"
)

func testDataConfig() config.DataConfig {
	return config.DataConfig{
		MaxUploadMB:       100,
		MaxGroups:         200,
		PreviewRows:       50,
		DiscreteThreshold: 30,
		DiscreteRatio:     0.02,
	}
}

func TestSanitizeColumnKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Revenue (USD)", "revenue_usd"},
		{"  Age  ", "age"},
		{"Pâté à l'Américaine", "pate_a_l_americaine"},
		{"2024 Sales", "col_2024_sales"},
		{"__weird__", "weird"},
		{"%%%", ""},
	}
	for _, tc := range cases {
		if got := sanitizeColumnKey(tc.in); got != tc.want {
			t.Errorf("sanitizeColumnKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeColumnKeys_Collisions(t *testing.T) {
	got := sanitizeColumnKeys([]string{"Price", "price!", "", "price"})
	want := []string{"price", "price_2", "column_3", "price_3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuildFrame_Typing(t *testing.T) {
	sheet := &excel.RawSheet{
		Headers: []string{"Score", "City", "Mixed"},
		Rows: [][]string{
			{"1.5", "Berlin", "10"},
			{"2.5", "Paris", "x"},
			{"NA", "Berlin", "20"},
		},
	}

	f, cols := buildFrame(sheet, testDataConfig())

	if f.RowCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", f.RowCount())
	}

	score := cols[0]
	if score.DType != "float64" || score.MissingCount != 1 || score.UniqueCount != 2 {
		t.Errorf("score meta wrong: %+v", score)
	}
	if score.VarType != dataset.VarDiscrete {
		t.Errorf("2 unique values over 3 rows should be discrete, got %s", score.VarType)
	}

	city := cols[1]
	if city.DType != "text" || city.VarType != dataset.VarCategorical {
		t.Errorf("city meta wrong: %+v", city)
	}

	// One unparsable cell makes the whole column categorical, and the
	// numeric cells fall back to their string form.
	mixed := cols[2]
	if mixed.DType != "text" || mixed.VarType != dataset.VarCategorical {
		t.Errorf("mixed meta wrong: %+v", mixed)
	}
	if f.Rows[0][2] != "10" {
		t.Errorf("numeric cell in a mixed column should revert to string, got %v", f.Rows[0][2])
	}
}

func TestBuildFrame_MissingMarkers(t *testing.T) {
	sheet := &excel.RawSheet{
		Headers: []string{"v"},
		Rows:    [][]string{{""}, {"na"}, {"N/A"}, {"null"}, {"-"}, {"3"}},
	}
	f, cols := buildFrame(sheet, testDataConfig())

	if cols[0].MissingCount != 5 {
		t.Errorf("expected 5 missing cells, got %d", cols[0].MissingCount)
	}
	if f.Rows[5][0] != 3.0 {
		t.Errorf("expected parsed float, got %v", f.Rows[5][0])
	}
}

func TestDetectNumericVarType(t *testing.T) {
	cfg := testDataConfig()

	if got := detectNumericVarType(10, 1000, cfg); got != dataset.VarDiscrete {
		t.Errorf("low cardinality should be discrete, got %s", got)
	}
	if got := detectNumericVarType(40, 10000, cfg); got != dataset.VarDiscrete {
		t.Errorf("low unique ratio should be discrete, got %s", got)
	}
	if got := detectNumericVarType(500, 1000, cfg); got != dataset.VarContinuous {
		t.Errorf("high cardinality should be continuous, got %s", got)
	}
}
