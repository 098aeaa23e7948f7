package rating

import (
	"math"

	model "deal-rater/internal/models"
)

// AverageRating is the mean score of the breakdown rounded half-up to one decimal.
// It works on integer tenths so ties such as 4.25 always round up.
func AverageRating(b model.RatingBreakdown) float64 {
	count := b.Total()
	if count == 0 {
		return 0
	}
	return float64(roundHalfUp(10*b.Sum(), count)) / 10
}

// MeanOfAverages averages n one-decimal ratings whose sum is sum, rounded half-up to one decimal
func MeanOfAverages(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	sumTenths := int(math.Round(sum * 10))
	return float64(roundHalfUp(sumTenths, n)) / 10
}

// roundHalfUp returns floor(num/den + 1/2) for non-negative num and positive den
func roundHalfUp(num, den int) int {
	return (2*num + den) / (2 * den)
}

// applyScore adds one score to the post's aggregate
func applyScore(post model.Post, score int) model.Post {
	post.RatingBreakdown[score]++
	post.RatingCount = post.RatingBreakdown.Total()
	post.AverageRating = AverageRating(post.RatingBreakdown)
	return post
}
