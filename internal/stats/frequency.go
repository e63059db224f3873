package stats

import (
	"sort"

	domainstats "orion/domain/stats"
)

// FrequencyTable counts value occurrences and derives percentages and
// cumulative columns. Rows are ordered by descending count, ties by
// label. maxRows <= 0 means no cap; when capped, remaining values are
// collapsed into an "(other)" bucket so the percentages still sum to
// 100.
func FrequencyTable(values []string, maxRows int) []domainstats.FrequencyRow {
	counts := map[string]int{}
	total := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return nil
	}

	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	if maxRows > 0 && len(labels) > maxRows {
		var other int
		for _, l := range labels[maxRows:] {
			other += counts[l]
		}
		labels = append(labels[:maxRows], "(other)")
		counts["(other)"] = other
	}

	rows := make([]domainstats.FrequencyRow, 0, len(labels))
	cum := 0
	for _, l := range labels {
		n := counts[l]
		cum += n
		rows = append(rows, domainstats.FrequencyRow{
			Value:           l,
			Count:           n,
			Percentage:      Round(float64(n)/float64(total)*100, 2),
			CumulativeCount: cum,
			CumulativePct:   Round(float64(cum)/float64(total)*100, 2),
		})
	}
	return rows
}
