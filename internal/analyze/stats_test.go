// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package analyze

import (
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestMeanAndStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := mean(xs); got != 5.0 {
		t.Errorf("mean = %v, want 5", got)
	}
	// Sample standard deviation with n-1 denominator.
	if got := stdDev(xs); !almostEqual(got, 2.1381, 1e-4) {
		t.Errorf("stdDev = %v, want 2.1381", got)
	}

	if got := mean(nil); got != 0 {
		t.Errorf("mean(nil) = %v", got)
	}
	if got := stdDev([]float64{3}); got != 0 {
		t.Errorf("stdDev of single value = %v", got)
	}
}

func TestQuantile(t *testing.T) {
	xs := []float64{4, 1, 3, 2}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := quantile(xs, tt.q); !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}

	if got := median([]float64{5, 1, 3}); got != 3 {
		t.Errorf("median = %v, want 3", got)
	}
}

func TestPearson(t *testing.T) {
	if got := pearson([]float64{1, 2, 3}, []float64{2, 4, 6}); !almostEqual(got, 1, 1e-9) {
		t.Errorf("perfect positive correlation = %v, want 1", got)
	}
	if got := pearson([]float64{1, 2, 3}, []float64{6, 4, 2}); !almostEqual(got, -1, 1e-9) {
		t.Errorf("perfect negative correlation = %v, want -1", got)
	}
	if got := pearson([]float64{1, 2, 3}, []float64{5, 5, 5}); got != 0 {
		t.Errorf("zero-variance correlation = %v, want 0", got)
	}
	if got := pearson([]float64{1}, []float64{2}); got != 0 {
		t.Errorf("short-sample correlation = %v, want 0", got)
	}
}

func TestWelchTTest(t *testing.T) {
	// Identical samples: no effect, p = 1.
	same := []float64{1, 2, 3, 4, 5}
	tstat, _, p := welchTTest(same, same)
	if tstat != 0 {
		t.Errorf("t = %v, want 0", tstat)
	}
	if !almostEqual(p, 1, 1e-9) {
		t.Errorf("p = %v, want 1", p)
	}

	// Hand-computed case: a = {2,4,6}, b = {1,2,3}.
	// mean_a = 4, var_a = 4, mean_b = 2, var_b = 1
	// t = 2 / sqrt(4/3 + 1/3) = 1.5492
	// df = (5/3)^2 / ((4/3)^2/2 + (1/3)^2/2) = 2.9412
	tstat, df, p := welchTTest([]float64{2, 4, 6}, []float64{1, 2, 3})
	if !almostEqual(tstat, 1.5492, 1e-4) {
		t.Errorf("t = %v, want 1.5492", tstat)
	}
	if !almostEqual(df, 2.9412, 1e-4) {
		t.Errorf("df = %v, want 2.9412", df)
	}
	if p < 0.18 || p > 0.26 {
		t.Errorf("p = %v, want about 0.22", p)
	}

	// Degenerate inputs fall back to a null result.
	if _, _, p := welchTTest([]float64{1}, same); p != 1 {
		t.Errorf("undersized sample p = %v, want 1", p)
	}
}

func TestStudentTailProb(t *testing.T) {
	// P(T > 0) is one half for any df.
	if got := studentTailProb(0, 10); !almostEqual(got, 0.5, 1e-9) {
		t.Errorf("P(T>0) = %v, want 0.5", got)
	}

	// Large df approaches the normal distribution: P(T > 1.96) ~ 0.025.
	if got := studentTailProb(1.96, 1000); !almostEqual(got, 0.025, 1e-3) {
		t.Errorf("P(T>1.96, df=1000) = %v, want ~0.025", got)
	}

	// Reference value: P(T > 2.228, df=10) = 0.025 (t-table row for the
	// 95% two-sided interval).
	if got := studentTailProb(2.228, 10); !almostEqual(got, 0.025, 1e-3) {
		t.Errorf("P(T>2.228, df=10) = %v, want 0.025", got)
	}

	// Monotone in t.
	if studentTailProb(1, 10) <= studentTailProb(2, 10) {
		t.Error("tail probability not decreasing in t")
	}
}
