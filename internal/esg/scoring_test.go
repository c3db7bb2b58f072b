package esg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCalculator_NormalizesWeights(t *testing.T) {
	triples := [][3]float64{
		{1, 1, 1},
		{0.4, 0.3, 0.3},
		{2, 1, 1},
		{0, 0.5, 0.5},
		{10, 0, 0},
		{0.001, 0.002, 0.003},
	}

	for _, w := range triples {
		c, err := NewCalculator(w[0], w[1], w[2])
		require.NoError(t, err, "weights %v", w)

		we, ws, wg := c.Weights()
		assert.InDelta(t, 1.0, we+ws+wg, 1e-9, "weights %v must sum to 1", w)
	}
}

func TestNewCalculator_InvalidWeights(t *testing.T) {
	_, err := NewCalculator(-1, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewCalculator(1, -0.5, 1)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewCalculator(0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestCalculate_EqualWeights(t *testing.T) {
	c := NewEqualWeightCalculator()

	score := c.Calculate(90, 80, 70)
	assert.Equal(t, 80, score.Total)
	assert.Equal(t, RatingA, score.Rating)
	assert.True(t, score.IsInvestmentGrade())
}

func TestCalculate_WeightedScenario(t *testing.T) {
	// Weights (0.40, 0.30, 0.30), inputs (85, 78, 92):
	// 85*0.4 + 78*0.3 + 92*0.3 = 85
	c, err := NewCalculator(0.40, 0.30, 0.30)
	require.NoError(t, err)

	score := c.Calculate(85, 78, 92)
	assert.Equal(t, 85, score.Environmental)
	assert.Equal(t, 78, score.Social)
	assert.Equal(t, 92, score.Governance)
	assert.Equal(t, 85, score.Total)
	assert.Equal(t, RatingAA, score.Rating)
	assert.True(t, score.IsInvestmentGrade())
}

func TestCalculate_ClampsAndRounds(t *testing.T) {
	c := NewEqualWeightCalculator()

	score := c.Calculate(150, -20, 80.6)
	assert.Equal(t, 100, score.Environmental)
	assert.Equal(t, 0, score.Social)
	assert.Equal(t, 81, score.Governance)

	// (100 + 0 + 81) / 3 = 60.33 -> 60
	assert.Equal(t, 60, score.Total)
	assert.Equal(t, RatingBB, score.Rating)
}

func TestCalculate_TotalStaysInRange(t *testing.T) {
	c, err := NewCalculator(2, 1, 1)
	require.NoError(t, err)

	high := c.Calculate(100, 100, 100)
	assert.Equal(t, 100, high.Total)
	assert.Equal(t, RatingAAA, high.Rating)

	low := c.Calculate(0, 0, 0)
	assert.Equal(t, 0, low.Total)
	assert.Equal(t, RatingD, low.Rating)
}

func TestCalculate_CustomWeights(t *testing.T) {
	// (80*0.5 + 60*0.25 + 60*0.25) = 70
	c, err := NewCalculator(2, 1, 1)
	require.NoError(t, err)

	score := c.Calculate(80, 60, 60)
	assert.Equal(t, 70, score.Total)
	assert.Equal(t, RatingBBB, score.Rating)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(math.Inf(-1)))
	assert.Equal(t, 100, clampScore(math.Inf(1)))
	assert.Equal(t, 50, clampScore(50.4))
	assert.Equal(t, 51, clampScore(50.5))
}
