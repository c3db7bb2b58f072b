package esg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingFromScore(t *testing.T) {
	tests := []struct {
		total int
		want  Rating
	}{
		{100, RatingAAA},
		{95, RatingAAA},
		{90, RatingAAA}, // lower boundary is inclusive
		{89, RatingAA},
		{85, RatingAA},
		{84, RatingA},
		{80, RatingA},
		{79, RatingBBB},
		{70, RatingBBB},
		{69, RatingBB},
		{60, RatingBB},
		{59, RatingB},
		{50, RatingB},
		{49, RatingCCC},
		{40, RatingCCC},
		{39, RatingCC},
		{30, RatingCC},
		{29, RatingC},
		{20, RatingC},
		{19, RatingD},
		{10, RatingD},
		{0, RatingD},
	}

	for _, tt := range tests {
		got := RatingFromScore(tt.total)
		assert.Equal(t, tt.want, got, "score %d", tt.total)
	}
}

func TestRatingFromScore_Monotonic(t *testing.T) {
	prev := RatingFromScore(100)
	for total := 99; total >= 0; total-- {
		got := RatingFromScore(total)
		assert.LessOrEqual(t, got, prev, "rating must not improve as score decreases (score %d)", total)
		prev = got
	}
}

func TestIsInvestmentGrade(t *testing.T) {
	investmentGrade := map[Rating]bool{
		RatingAAA: true,
		RatingAA:  true,
		RatingA:   true,
		RatingBBB: true,
		RatingBB:  false,
		RatingB:   false,
		RatingCCC: false,
		RatingCC:  false,
		RatingC:   false,
		RatingD:   false,
	}

	for _, r := range AllRatings {
		assert.Equal(t, investmentGrade[r], r.IsInvestmentGrade(), "rating %s", r)
	}
}

func TestRatingString(t *testing.T) {
	labels := []string{"AAA", "AA", "A", "BBB", "BB", "B", "CCC", "CC", "C", "D"}

	for i, r := range AllRatings {
		assert.Equal(t, labels[i], r.String())
		assert.Equal(t, r, ParseRating(labels[i]))
	}

	assert.Equal(t, RatingD, ParseRating("unknown"))
}
