package anomaly

import "math"

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the population standard deviation around m.
func stdDev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// normalCDF is the standard normal distribution function.
func normalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// TwoProportionPValue runs a two-sided pooled two-proportion z-test on
// baseline approvals (count1 of nobs1) against current approvals
// (count2 of nobs2). Degenerate inputs carry no evidence: an empty
// side, a pooled rate of exactly 0 or 1, or a zero standard error all
// yield 1.0.
func TwoProportionPValue(count1, nobs1, count2, nobs2 int64) float64 {
	if nobs1 == 0 || nobs2 == 0 {
		return 1.0
	}

	p1 := float64(count1) / float64(nobs1)
	p2 := float64(count2) / float64(nobs2)
	pooled := float64(count1+count2) / float64(nobs1+nobs2)
	if pooled == 0 || pooled == 1 {
		return 1.0
	}

	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(nobs1) + 1/float64(nobs2)))
	if se == 0 {
		return 1.0
	}

	z := (p1 - p2) / se
	return 2 * (1 - normalCDF(math.Abs(z)))
}
