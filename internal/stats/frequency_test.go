package stats

import "testing"

func TestFrequencyTable_Basic(t *testing.T) {
	rows := FrequencyTable([]string{"a", "a", "a", "b", "b", "c"}, 0)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Value != "a" || rows[0].Count != 3 || rows[0].Percentage != 50 {
		t.Errorf("first row wrong: %+v", rows[0])
	}
	last := rows[len(rows)-1]
	if last.CumulativeCount != 6 || last.CumulativePct != 100 {
		t.Errorf("cumulative totals wrong: %+v", last)
	}
}

func TestFrequencyTable_TieBrokenByLabel(t *testing.T) {
	rows := FrequencyTable([]string{"z", "m", "z", "m"}, 0)
	if rows[0].Value != "m" || rows[1].Value != "z" {
		t.Errorf("equal counts should sort by label: %+v", rows)
	}
}

func TestFrequencyTable_CapCollapsesIntoOther(t *testing.T) {
	rows := FrequencyTable([]string{"a", "a", "a", "b", "b", "c", "d"}, 2)
	if len(rows) != 3 {
		t.Fatalf("expected 2 rows plus (other), got %d", len(rows))
	}
	other := rows[2]
	if other.Value != "(other)" || other.Count != 2 {
		t.Errorf("overflow should collapse into (other) with count 2, got %+v", other)
	}
	if other.CumulativeCount != 7 || other.CumulativePct != 100 {
		t.Errorf("cumulative totals should still cover everything: %+v", other)
	}
}

func TestFrequencyTable_IgnoresEmptyAndHandlesNoData(t *testing.T) {
	if rows := FrequencyTable([]string{"", "", ""}, 0); rows != nil {
		t.Errorf("all-empty input should produce nil, got %v", rows)
	}
}
