package iso20022

import (
	"github.com/verdana-labs/esgbridge/internal/esg"
)

// Instrument identifies a financial instrument. The identifiers are opaque
// and pass through unchanged into the message payload.
type Instrument struct {
	ISIN string `json:"isin"` // 12-character ISIN
	LEI  string `json:"lei"`  // 20-character LEI
	Name string `json:"name"`
}

// Classification is the regulatory view of an ESG score: EU Taxonomy
// alignment percentage, SFDR article number and the letter rating. Carbon
// intensity is optional. Derived deterministically from a Score; immutable.
type Classification struct {
	TaxonomyAlignment float64  `json:"taxonomy_alignment"`
	SFDRArticle       int      `json:"sfdr_article"`
	RatingLabel       string   `json:"rating_label"`
	CarbonIntensity   *float64 `json:"carbon_intensity,omitempty"`
}

// MapArticle maps a rating to its SFDR article classification. The mapping
// is keyed purely on the discrete rating, never on the numeric total:
// AAA/AA/A carry a sustainable investment objective (Article 9), BBB/BB
// promote ESG characteristics (Article 8), everything else is Article 6.
func MapArticle(rating esg.Rating) int {
	switch rating {
	case esg.RatingAAA, esg.RatingAA, esg.RatingA:
		return 9
	case esg.RatingBBB, esg.RatingBB:
		return 8
	default:
		return 6
	}
}

// TaxonomyAlignment computes the EU Taxonomy alignment percentage from the
// environmental sub-score: >=80 aligns directly, 60-79 scales as
// (env-60)*2, below 60 there is no alignment.
func TaxonomyAlignment(score esg.Score) float64 {
	env := score.Environmental
	switch {
	case env >= 80:
		if env > 100 {
			env = 100
		}
		return float64(env)
	case env >= 60:
		return float64(env-60) * 2
	default:
		return 0
	}
}

// CarbonIntensity estimates carbon intensity (tCO2e per $M revenue) from the
// environmental sub-score. Intensity decreases linearly from 500 at env=0 to
// 0 at env=100. Computed on integers so every implementation produces the
// same value bit for bit.
func CarbonIntensity(environmental int) float64 {
	return float64(100-environmental) * 5
}

// Classify assembles a Classification from an ESG score. The carbon
// intensity estimate is included only when requested.
func Classify(score esg.Score, withCarbon bool) Classification {
	c := Classification{
		TaxonomyAlignment: TaxonomyAlignment(score),
		SFDRArticle:       MapArticle(score.Rating),
		RatingLabel:       score.Rating.String(),
	}
	if withCarbon {
		intensity := CarbonIntensity(score.Environmental)
		c.CarbonIntensity = &intensity
	}
	return c
}
