package rating

import (
	"testing"

	model "deal-rater/internal/models"

	"github.com/stretchr/testify/require"
)

func breakdownOf(scores ...int) model.RatingBreakdown {
	var b model.RatingBreakdown
	for _, s := range scores {
		b[s]++
	}
	return b
}

func TestAverageRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scores []int
		want   float64
	}{
		{name: "no_ratings", scores: nil, want: 0},
		{name: "single", scores: []int{3}, want: 3},
		{name: "four_fives_and_a_three", scores: []int{5, 5, 5, 5, 3}, want: 4.6},
		{name: "exact_half", scores: []int{4, 5}, want: 4.5},
		{name: "tie_rounds_up", scores: []int{1, 1, 1, 2}, want: 1.3},
		{name: "tie_rounds_up_again", scores: []int{4, 4, 5, 4}, want: 4.3},
		{name: "rounds_down", scores: []int{1, 2, 2, 2, 2, 2}, want: 1.8},
		{name: "repeating_third", scores: []int{5, 5, 4}, want: 4.7},
		{name: "all_ones", scores: []int{1, 1, 1, 1, 1, 1, 1}, want: 1},
		{name: "all_fives", scores: []int{5, 5, 5, 5, 5, 5}, want: 5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, AverageRating(breakdownOf(tc.scores...)))
		})
	}
}

func TestMeanOfAverages(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, MeanOfAverages(0, 0))
	require.Equal(t, 4.6, MeanOfAverages(4.6, 1))
	// (4.6 + 3.5) / 2 = 4.05 rounds up
	require.Equal(t, 4.1, MeanOfAverages(4.6+3.5, 2))
	// (4.3 + 4.3 + 4.4) / 3 = 4.333...
	require.Equal(t, 4.3, MeanOfAverages(4.3+4.3+4.4, 3))
}

func TestApplyScore(t *testing.T) {
	t.Parallel()

	post := model.Post{RatingBreakdown: breakdownOf(5, 5, 5, 5), RatingCount: 4, AverageRating: 5}
	post = applyScore(post, 3)

	require.Equal(t, 5, post.RatingCount)
	require.Equal(t, 4.6, post.AverageRating)
	require.Equal(t, 1, post.RatingBreakdown[3])
	require.Equal(t, 4, post.RatingBreakdown[5])
}
