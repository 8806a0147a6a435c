package services

import (
	"math"
	"sort"
	"strconv"
)

// Apportion distributes total across the ratio buckets using the
// largest-remainder (Hamilton) method: every bucket gets the floor of its
// exact share, then the leftover seats go to the buckets with the largest
// fractional remainders. Ratio sums may deviate from 1.0 within the
// validator's tolerance; when the floors alone already exceed total, seats
// are trimmed from the smallest-remainder buckets until the sum is exact.
// Ties on the remainder break by ascending label when adding and by
// descending label when trimming, so the same input always yields the same
// per-bucket counts and the sum always equals total.
func Apportion(total int, ratios map[string]float64) map[string]int {
	labels := make([]string, 0, len(ratios))
	for label := range ratios {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labelValue(labels[i]) < labelValue(labels[j])
	})

	targets := make(map[string]int, len(ratios))
	type remainder struct {
		label string
		frac  float64
	}
	remainders := make([]remainder, 0, len(ratios))

	assigned := 0
	for _, label := range labels {
		exact := ratios[label] * float64(total)
		floor := int(math.Floor(exact))
		targets[label] = floor
		assigned += floor
		remainders = append(remainders, remainder{label: label, frac: exact - float64(floor)})
	}

	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].frac > remainders[j].frac
	})

	for i := 0; assigned < total && len(remainders) > 0; i = (i + 1) % len(remainders) {
		targets[remainders[i].label]++
		assigned++
	}

	// A ratio sum above 1.0 can make the floors alone overshoot. Walk the
	// remainder order backwards (smallest fraction first, descending label
	// on ties) and take seats back until the sum is exact.
	for i := len(remainders) - 1; assigned > total; i-- {
		if i < 0 {
			i = len(remainders) - 1
		}
		if label := remainders[i].label; targets[label] > 0 {
			targets[label]--
			assigned--
		}
	}
	return targets
}

// RedistributeShortfall caps each target at its available pool and moves
// the resulting deficit to other buckets, preferring the nearest difficulty
// first (d-1, d+1, d-2, d+2, ...). When no capacity remains anywhere the
// deficit stays unresolved and the exam comes out short; that is reported,
// not treated as a failure.
func RedistributeShortfall(targets, available map[string]int) map[string]int {
	take := make(map[string]int, len(targets))
	shortLabels := make([]string, 0, len(targets))
	for label, want := range targets {
		have := available[label]
		if want <= have {
			take[label] = want
			continue
		}
		take[label] = have
		shortLabels = append(shortLabels, label)
	}
	sort.Slice(shortLabels, func(i, j int) bool {
		return labelValue(shortLabels[i]) < labelValue(shortLabels[j])
	})

	spare := func(label string) int {
		return available[label] - take[label]
	}

	for _, label := range shortLabels {
		deficit := targets[label] - take[label]
		d := labelValue(label)
		for dist := 1; deficit > 0 && dist <= maxLabelDistance(available); dist++ {
			for _, candidate := range []int{d - dist, d + dist} {
				if deficit == 0 {
					break
				}
				cLabel := strconv.Itoa(candidate)
				if s := spare(cLabel); s > 0 {
					moved := min(s, deficit)
					take[cLabel] += moved
					deficit -= moved
				}
			}
		}
	}
	return take
}

// labelValue parses a difficulty label; unparseable labels sort last.
func labelValue(label string) int {
	v, err := strconv.Atoi(label)
	if err != nil {
		return math.MaxInt32
	}
	return v
}

// maxLabelDistance bounds the outward walk to the spread of known labels.
func maxLabelDistance(available map[string]int) int {
	lo, hi := math.MaxInt32, math.MinInt32
	for label := range available {
		v := labelValue(label)
		if v == math.MaxInt32 {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}
