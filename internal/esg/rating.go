package esg

import "encoding/json"

// Rating is a discrete ESG letter grade, ordered from D (worst) to AAA (best).
// The numeric values matter: they define the total order used by compliance
// checks (a required rating of BBB is met by BBB or anything above it).
type Rating int

const (
	RatingD Rating = iota
	RatingC
	RatingCC
	RatingCCC
	RatingB
	RatingBB
	RatingBBB
	RatingA
	RatingAA
	RatingAAA
)

// ratingLabels maps ratings to their canonical labels.
var ratingLabels = map[Rating]string{
	RatingAAA: "AAA",
	RatingAA:  "AA",
	RatingA:   "A",
	RatingBBB: "BBB",
	RatingBB:  "BB",
	RatingB:   "B",
	RatingCCC: "CCC",
	RatingCC:  "CC",
	RatingC:   "C",
	RatingD:   "D",
}

// AllRatings lists every rating from best to worst.
var AllRatings = []Rating{
	RatingAAA, RatingAA, RatingA, RatingBBB, RatingBB,
	RatingB, RatingCCC, RatingCC, RatingC, RatingD,
}

// RatingFromScore converts a total ESG score (0-100) to a rating.
// Boundaries are closed at the lower edge: 90 is AAA, 89 is AA.
func RatingFromScore(total int) Rating {
	switch {
	case total >= 90:
		return RatingAAA
	case total >= 85:
		return RatingAA
	case total >= 80:
		return RatingA
	case total >= 70:
		return RatingBBB
	case total >= 60:
		return RatingBB
	case total >= 50:
		return RatingB
	case total >= 40:
		return RatingCCC
	case total >= 30:
		return RatingCC
	case total >= 20:
		return RatingC
	default:
		return RatingD
	}
}

// ParseRating converts a rating label to a Rating. Unknown labels map to D.
func ParseRating(label string) Rating {
	for r, l := range ratingLabels {
		if l == label {
			return r
		}
	}
	return RatingD
}

// String returns the canonical label for the rating.
func (r Rating) String() string {
	if label, ok := ratingLabels[r]; ok {
		return label
	}
	return "D"
}

// IsInvestmentGrade reports whether the rating is BBB or higher.
func (r Rating) IsInvestmentGrade() bool {
	return r >= RatingBBB
}

// MarshalJSON encodes the rating as its label.
func (r Rating) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a rating label.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	*r = ParseRating(label)
	return nil
}
