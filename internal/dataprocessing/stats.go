package dataprocessing

import (
	"math"
	"sort"

	"aptcli/pkg/contracts/domain"
)

// mean returns the arithmetic mean of the non-missing values, NaN when none.
func mean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if domain.Missing(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// median returns the median of the non-missing values, NaN when none.
func median(values []float64) float64 {
	present := presentValues(values)
	if len(present) == 0 {
		return math.NaN()
	}
	sort.Float64s(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return present[mid]
	}
	return (present[mid-1] + present[mid]) / 2
}

// stddev returns the sample standard deviation of the non-missing values,
// NaN when fewer than two are present.
func stddev(values []float64) float64 {
	m := mean(values)
	if domain.Missing(m) {
		return math.NaN()
	}
	var sum float64
	var n int
	for _, v := range values {
		if domain.Missing(v) {
			continue
		}
		d := v - m
		sum += d * d
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(sum / float64(n-1))
}

// quantile returns the q-quantile (0..1) of the non-missing values using
// linear interpolation, NaN when none.
func quantile(values []float64, q float64) float64 {
	present := presentValues(values)
	if len(present) == 0 {
		return math.NaN()
	}
	sort.Float64s(present)
	if len(present) == 1 {
		return present[0]
	}

	pos := q * float64(len(present)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return present[lo]
	}
	frac := pos - float64(lo)
	return present[lo]*(1-frac) + present[hi]*frac
}

// mode returns the most frequent non-empty value; ties break towards the
// lexicographically smaller value so the result is deterministic.
func mode(values []string) string {
	counts := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}

	var best string
	var bestCount int
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best
}

// pearson returns the Pearson correlation coefficient of the paired values,
// skipping pairs where either side is missing. NaN when fewer than two
// usable pairs remain or either side has zero variance.
func pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) {
		return math.NaN()
	}

	var px, py []float64
	for i := range xs {
		if domain.Missing(xs[i]) || domain.Missing(ys[i]) {
			continue
		}
		px = append(px, xs[i])
		py = append(py, ys[i])
	}
	if len(px) < 2 {
		return math.NaN()
	}

	mx, my := mean(px), mean(py)
	var cov, varX, varY float64
	for i := range px {
		dx := px[i] - mx
		dy := py[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

func presentValues(values []float64) []float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !domain.Missing(v) {
			present = append(present, v)
		}
	}
	return present
}

// columnValues extracts one numeric column from the listings.
func columnValues(listings []domain.Listing, column string) []float64 {
	values := make([]float64, len(listings))
	for i := range listings {
		v, _ := listings[i].NumericField(column)
		values[i] = v
	}
	return values
}
