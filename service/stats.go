package service

import "math"

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rate returns part/total*100 rounded to two decimals, 0 when total is 0.
// Never NaN or Inf.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}
