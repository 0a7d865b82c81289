package performance

import "math"

// OverallRating returns the stored rating when one was recorded, otherwise
// the weight-averaged category rating rounded to two places. The result is
// nil when nothing can be derived. p is not modified.
func OverallRating(p Plan) *float64 {
	if p.OverallRating != nil {
		v := *p.OverallRating
		return &v
	}
	if len(p.CategoryRatings) == 0 {
		return nil
	}
	var weighted, total float64
	for _, c := range p.CategoryRatings {
		weighted += c.Rating * c.Weight
		total += c.Weight
	}
	if total <= 0 {
		return nil
	}
	v := math.Round(weighted/total*100) / 100
	return &v
}
