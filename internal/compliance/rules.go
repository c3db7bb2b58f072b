package compliance

import (
	"time"

	"github.com/verdana-labs/esgbridge/internal/esg"
)

// Framework identifies a regulatory framework a rule belongs to.
type Framework string

const (
	FrameworkEUSFDR     Framework = "EU_SFDR"
	FrameworkEUTaxonomy Framework = "EU_Taxonomy"
	FrameworkSECClimate Framework = "SEC_Climate"
	FrameworkMiFIDII    Framework = "MiFID_II"
	FrameworkBasel      Framework = "Basel"
)

// Jurisdiction is the region where a rule applies.
type Jurisdiction string

const (
	JurisdictionEU     Jurisdiction = "EU"
	JurisdictionUS     Jurisdiction = "US"
	JurisdictionUK     Jurisdiction = "UK"
	JurisdictionBR     Jurisdiction = "BR"
	JurisdictionGlobal Jurisdiction = "GLOBAL"
)

// Severity ranks how serious a rule violation is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Rule is a static compliance catalog entry. Rules are never mutated by
// validation.
type Rule struct {
	ID           string       `json:"id"`
	Framework    Framework    `json:"framework"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`
	Severity     Severity     `json:"severity"`
	Description  string       `json:"description"`

	// Effective window. A zero EffectiveUntil means open-ended.
	EffectiveFrom  time.Time `json:"effective_from"`
	EffectiveUntil time.Time `json:"effective_until,omitempty"`

	// RequiredRating, when set, is the minimum ESG rating the scored entity
	// must hold for the rule to pass. Empty means no rating requirement.
	RequiredRating string `json:"required_rating,omitempty"`
}

// IsEffective reports whether the rule is in effect at the given time.
func (r Rule) IsEffective(at time.Time) bool {
	if at.Before(r.EffectiveFrom) {
		return false
	}
	if !r.EffectiveUntil.IsZero() && at.After(r.EffectiveUntil) {
		return false
	}
	return true
}

// AppliesTo reports whether the rule applies in the given jurisdiction.
// Global rules apply everywhere.
func (r Rule) AppliesTo(jurisdiction Jurisdiction) bool {
	return r.Jurisdiction == jurisdiction || r.Jurisdiction == JurisdictionGlobal
}

// requiredRating resolves the rule's rating requirement, if any.
func (r Rule) requiredRating() (esg.Rating, bool) {
	if r.RequiredRating == "" {
		return 0, false
	}
	return esg.ParseRating(r.RequiredRating), true
}
