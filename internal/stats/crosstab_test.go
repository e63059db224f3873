package stats

import (
	"fmt"
	"testing"
)

func TestBuildCrosstab_PerfectAssociation(t *testing.T) {
	var rows, cols []string
	for i := 0; i < 20; i++ {
		rows = append(rows, "yes")
		cols = append(cols, "high")
	}
	for i := 0; i < 20; i++ {
		rows = append(rows, "no")
		cols = append(cols, "low")
	}

	ct, err := BuildCrosstab("Answer", "Level", rows, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct.GrandTotal != 40 {
		t.Errorf("grand total should be 40, got %d", ct.GrandTotal)
	}
	// diagonal table: chi-square = N, V = 1
	if ct.ChiSquare == nil || *ct.ChiSquare != 40 {
		t.Errorf("chi-square should be 40, got %v", ct.ChiSquare)
	}
	if ct.CramersV == nil || *ct.CramersV != 1 {
		t.Errorf("Cramér's V should be 1 for perfect association, got %v", ct.CramersV)
	}
	if ct.DegreesOfFreedom == nil || *ct.DegreesOfFreedom != 1 {
		t.Errorf("df should be 1 for a 2x2 table, got %v", ct.DegreesOfFreedom)
	}
	if ct.ChiSquarePValue == nil || *ct.ChiSquarePValue >= 0.001 {
		t.Errorf("perfect association should be highly significant, got %v", ct.ChiSquarePValue)
	}

	var pctSum float64
	for i := range ct.Percentages {
		for j := range ct.Percentages[i] {
			pctSum += ct.Percentages[i][j]
		}
	}
	if !almostEqual(pctSum, 100, 0.1) {
		t.Errorf("percentages should sum to ~100, got %f", pctSum)
	}
}

func TestBuildCrosstab_SkipsIncompleteRows(t *testing.T) {
	rows := []string{"a", "", "b", "a"}
	cols := []string{"x", "y", "", "y"}
	ct, err := BuildCrosstab("R", "C", rows, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct.GrandTotal != 2 {
		t.Errorf("rows with an empty side should be skipped, total=%d", ct.GrandTotal)
	}
}

func TestBuildCrosstab_LevelCap(t *testing.T) {
	var rows, cols []string
	// "r00" appears twice so it must survive the trim; every other
	// label appears once.
	rows = append(rows, "r00")
	cols = append(cols, "c")
	for i := 0; i <= MaxCrosstabLevels; i++ {
		rows = append(rows, fmt.Sprintf("r%02d", i))
		cols = append(cols, "c")
	}

	ct, err := BuildCrosstab("R", "C", rows, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ct.RowLabels) != MaxCrosstabLevels {
		t.Errorf("expected axis trimmed to %d levels, got %d", MaxCrosstabLevels, len(ct.RowLabels))
	}
	if ct.RowLabels[0] != "r00" {
		t.Errorf("most frequent label should survive the trim, labels start with %q", ct.RowLabels[0])
	}
	if ct.GrandTotal != MaxCrosstabLevels+1 {
		t.Errorf("observations outside kept levels should be dropped, total=%d", ct.GrandTotal)
	}
}

func TestBuildCrosstab_Misaligned(t *testing.T) {
	if _, err := BuildCrosstab("R", "C", []string{"a"}, []string{"x", "y"}); err == nil {
		t.Error("expected error for misaligned inputs")
	}
}
