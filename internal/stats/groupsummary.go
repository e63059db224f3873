package stats

import (
	"math"
	"sort"
)

// GroupSeed is a partial per-group statistics record supplied by an
// upstream computation. Present fields win over locally computed ones;
// absent fields fall back to the local value.
type GroupSeed map[string]float64

// GroupMetric is the full descriptive block for one group.
type GroupMetric struct {
	Group    string  `json:"group"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Variance float64 `json:"variance"`
	CV       float64 `json:"cv"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	P10      float64 `json:"p10"`
	P90      float64 `json:"p90"`
	SEM      float64 `json:"sem"`
	CILower  float64 `json:"ci_lower"`
	CIUpper  float64 `json:"ci_upper"`
}

// GroupRollup ranks the groups against each other.
type GroupRollup struct {
	Best         string  `json:"best"`
	Worst        string  `json:"worst"`
	HighestStd   string  `json:"highest_std"`
	LargestGroup string  `json:"largest_group"`
	Spread       float64 `json:"spread"`
	BalanceRatio float64 `json:"balance_ratio"`
	AvgCV        float64 `json:"avg_cv"`
}

// SummarizeGroups computes per-group descriptive statistics from raw
// samples, merges in any seeded values, and derives the cross-group
// rollup. Groups with no finite samples are dropped. Output is sorted
// descending by mean, ties broken by group label so the order is
// deterministic. The rollup is nil when no group survives.
func SummarizeGroups(samples map[string][]float64, seeds map[string]GroupSeed) ([]GroupMetric, *GroupRollup) {
	metrics := make([]GroupMetric, 0, len(samples))
	for group, raw := range samples {
		vals := make([]float64, 0, len(raw))
		for _, v := range raw {
			if Finite(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		m := describeGroup(group, vals)
		if seed, ok := seeds[group]; ok {
			applySeed(&m, seed)
		}
		metrics = append(metrics, m)
	}
	if len(metrics) == 0 {
		return nil, nil
	}

	sort.SliceStable(metrics, func(i, j int) bool {
		if metrics[i].Mean != metrics[j].Mean {
			return metrics[i].Mean > metrics[j].Mean
		}
		return metrics[i].Group < metrics[j].Group
	})

	return metrics, rollup(metrics)
}

func describeGroup(group string, vals []float64) GroupMetric {
	n := len(vals)
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)

	mean := Mean(vals)
	variance := Variance(vals)
	std := math.Sqrt(variance)
	sem := std / math.Sqrt(float64(n))
	cv := 0.0
	if mean != 0 {
		cv = std / mean * 100
	}
	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	min := sorted[0]
	max := sorted[n-1]

	return GroupMetric{
		Group:    group,
		Count:    n,
		Mean:     mean,
		Median:   quantileSorted(sorted, 0.5),
		Std:      std,
		Variance: variance,
		CV:       cv,
		Min:      min,
		Max:      max,
		Range:    max - min,
		Q1:       q1,
		Q3:       q3,
		IQR:      q3 - q1,
		P10:      quantileSorted(sorted, 0.10),
		P90:      quantileSorted(sorted, 0.90),
		SEM:      sem,
		// normal approximation, not t-based
		CILower: mean - 1.96*sem,
		CIUpper: mean + 1.96*sem,
	}
}

// applySeed overwrites computed fields with seeded ones. Fallback runs
// the other way: a field missing from the seed keeps the local value.
func applySeed(m *GroupMetric, seed GroupSeed) {
	fields := map[string]*float64{
		"mean": &m.Mean, "median": &m.Median, "std": &m.Std,
		"variance": &m.Variance, "cv": &m.CV, "min": &m.Min,
		"max": &m.Max, "range": &m.Range, "q1": &m.Q1, "q3": &m.Q3,
		"iqr": &m.IQR, "p10": &m.P10, "p90": &m.P90, "sem": &m.SEM,
		"ci_lower": &m.CILower, "ci_upper": &m.CIUpper,
	}
	for name, dst := range fields {
		if v, ok := seed[name]; ok && Finite(v) {
			*dst = v
		}
	}
	if v, ok := seed["count"]; ok && Finite(v) && v >= 0 {
		m.Count = int(v)
	}
}

func rollup(metrics []GroupMetric) *GroupRollup {
	r := &GroupRollup{
		Best:         metrics[0].Group,
		Worst:        metrics[0].Group,
		HighestStd:   metrics[0].Group,
		LargestGroup: metrics[0].Group,
	}
	bestMean, worstMean := metrics[0].Mean, metrics[0].Mean
	maxStd := metrics[0].Std
	minCount, maxCount := metrics[0].Count, metrics[0].Count
	var cvSum float64

	for _, m := range metrics {
		if m.Mean > bestMean {
			bestMean = m.Mean
			r.Best = m.Group
		}
		if m.Mean < worstMean {
			worstMean = m.Mean
			r.Worst = m.Group
		}
		if m.Std > maxStd {
			maxStd = m.Std
			r.HighestStd = m.Group
		}
		if m.Count > maxCount {
			maxCount = m.Count
			r.LargestGroup = m.Group
		}
		if m.Count < minCount {
			minCount = m.Count
		}
		cvSum += m.CV
	}

	r.Spread = bestMean - worstMean
	if minCount > 0 {
		r.BalanceRatio = float64(maxCount) / float64(minCount)
	}
	r.AvgCV = cvSum / float64(len(metrics))
	return r
}
