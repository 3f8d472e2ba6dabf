// Package stats summarizes samples collected over many self-play games.
package stats

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Sample is a list of observations. It is not safe for concurrent use.
type Sample struct {
	values []float64
}

func (s *Sample) Push(val float64) {
	s.values = append(s.values, val)
}

func (s *Sample) Len() int {
	return len(s.values)
}

func (s *Sample) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return stat.Mean(s.values, nil)
}

// Stdev is the sample standard deviation; zero for fewer than two values.
func (s *Sample) Stdev() float64 {
	if len(s.values) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(s.values, nil)
	return std
}

func (s *Sample) StandardError() float64 {
	if len(s.values) < 2 {
		return 0
	}
	return stat.StdErr(s.Stdev(), float64(len(s.values)))
}

// Quantile returns the empirical p-quantile, p in [0, 1].
func (s *Sample) Quantile(p float64) float64 {
	if len(s.values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.values)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Interval returns the half-width of the confidence interval around the
// mean, with the confidence given in percent.
func (s *Sample) Interval(confidence float64) float64 {
	return ZVal(confidence) * s.StandardError()
}

func (s *Sample) String() string {
	return fmt.Sprintf("mean %.2f ± %.2f (stdev %.2f, median %.1f, n=%d)",
		s.Mean(), s.Interval(95), s.Stdev(), s.Quantile(0.5), s.Len())
}

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// Histogram draws the distribution of the sample over the given number of
// buckets, with bars at most width characters long.
func (s *Sample) Histogram(bins, width int) string {
	if len(s.values) == 0 {
		return ""
	}
	var sb strings.Builder
	h := histogram.Hist(bins, s.values)
	if err := histogram.Fprint(&sb, h, histogram.Linear(width)); err != nil {
		return ""
	}
	return sb.String()
}
