package esg

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is returned when a calculator is constructed with a
// negative weight or with weights that sum to zero.
var ErrInvalidWeights = errors.New("invalid weights")

// Score is an immutable ESG score breakdown. Sub-scores and total are
// integers in [0,100]; Rating is a pure function of Total. A new Score
// supersedes an old one, nothing mutates a Score in place.
type Score struct {
	Environmental int    `json:"environmental"`
	Social        int    `json:"social"`
	Governance    int    `json:"governance"`
	Total         int    `json:"total"`
	Rating        Rating `json:"rating"`
}

// IsInvestmentGrade reports whether the score's rating is investment grade.
func (s Score) IsInvestmentGrade() bool {
	return s.Rating.IsInvestmentGrade()
}

// Calculator aggregates the three ESG sub-scores into a total score using
// normalized weights. Weights are fixed at construction time; Calculate holds
// no mutable state and is safe for unlimited concurrent callers.
type Calculator struct {
	environmentalWeight float64
	socialWeight        float64
	governanceWeight    float64
}

// NewCalculator creates a calculator from three weight values. Weights must
// be non-negative and sum to a strictly positive value; they are divided by
// their sum so they sum to exactly 1.
func NewCalculator(environmental, social, governance float64) (*Calculator, error) {
	if environmental < 0 || social < 0 || governance < 0 {
		return nil, fmt.Errorf("%w: weights must be non-negative, got (%v, %v, %v)",
			ErrInvalidWeights, environmental, social, governance)
	}

	sum := environmental + social + governance
	if sum <= 0 {
		return nil, fmt.Errorf("%w: weights must sum to > 0", ErrInvalidWeights)
	}

	return &Calculator{
		environmentalWeight: environmental / sum,
		socialWeight:        social / sum,
		governanceWeight:    governance / sum,
	}, nil
}

// NewEqualWeightCalculator creates a calculator with equal weights.
func NewEqualWeightCalculator() *Calculator {
	c, _ := NewCalculator(1, 1, 1)
	return c
}

// Weights returns the normalized weights (environmental, social, governance).
func (c *Calculator) Weights() (float64, float64, float64) {
	return c.environmentalWeight, c.socialWeight, c.governanceWeight
}

// Calculate clamps each input to [0,100], rounds to the nearest integer and
// aggregates them into a Score with the weighted total and derived rating.
func (c *Calculator) Calculate(environmental, social, governance float64) Score {
	e := clampScore(environmental)
	s := clampScore(social)
	g := clampScore(governance)

	weighted := float64(e)*c.environmentalWeight +
		float64(s)*c.socialWeight +
		float64(g)*c.governanceWeight

	total := int(math.Round(math.Min(math.Max(weighted, 0), 100)))

	return Score{
		Environmental: e,
		Social:        s,
		Governance:    g,
		Total:         total,
		Rating:        RatingFromScore(total),
	}
}

// clampScore clamps a raw sub-score to [0,100] and rounds to the nearest
// integer.
func clampScore(v float64) int {
	return int(math.Round(math.Min(math.Max(v, 0), 100)))
}
