package compliance

import (
	"fmt"
	"time"

	"github.com/verdana-labs/esgbridge/internal/esg"
)

// MinScoreRuleID tags results produced by the minimum-score check.
const MinScoreRuleID = "esg_min_score"

// Status is the outcome of a single compliance check.
type Status string

const (
	StatusCompliant          Status = "Compliant"
	StatusPartiallyCompliant Status = "PartiallyCompliant"
	StatusNonCompliant       Status = "NonCompliant"
	StatusPending            Status = "Pending"
	StatusNotApplicable      Status = "NotApplicable"
)

// Result is the outcome of validating one rule. Results are produced fresh
// per validation call and never persisted.
type Result struct {
	RuleID  string `json:"rule_id"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// ValidateESG checks a score against a minimum total score threshold.
func ValidateESG(score esg.Score, minScore int) Result {
	if score.Total >= minScore {
		return Result{
			RuleID:  MinScoreRuleID,
			Status:  StatusCompliant,
			Message: fmt.Sprintf("total score %d meets minimum %d", score.Total, minScore),
		}
	}
	return Result{
		RuleID:  MinScoreRuleID,
		Status:  StatusNonCompliant,
		Message: fmt.Sprintf("total score %d below minimum %d", score.Total, minScore),
	}
}

// ValidateAll evaluates a score against every rule in the catalog at the
// given time. Rules outside their effective window yield NotApplicable.
// Effective rules with a rating requirement compare against the score's
// rating; effective rules without one are satisfied directly.
func ValidateAll(score esg.Score, rules []Rule, at time.Time) []Result {
	results := make([]Result, 0, len(rules))

	for _, rule := range rules {
		if !rule.IsEffective(at) {
			results = append(results, Result{
				RuleID:  rule.ID,
				Status:  StatusNotApplicable,
				Message: "rule not currently effective",
			})
			continue
		}

		required, ok := rule.requiredRating()
		if !ok {
			results = append(results, Result{
				RuleID:  rule.ID,
				Status:  StatusCompliant,
				Message: "rule satisfied",
			})
			continue
		}

		if score.Rating >= required {
			results = append(results, Result{
				RuleID:  rule.ID,
				Status:  StatusCompliant,
				Message: fmt.Sprintf("rating %s meets requirement %s", score.Rating, required),
			})
		} else {
			results = append(results, Result{
				RuleID:  rule.ID,
				Status:  StatusNonCompliant,
				Message: fmt.Sprintf("rating %s below requirement %s", score.Rating, required),
			})
		}
	}

	return results
}

// OverallStatus collapses per-rule results into one aggregate status.
// Precedence is fixed regardless of input order: any NonCompliant dominates,
// then Pending, then PartiallyCompliant, otherwise Compliant.
func OverallStatus(results []Result) Status {
	var hasPending, hasPartial bool

	for _, result := range results {
		switch result.Status {
		case StatusNonCompliant:
			return StatusNonCompliant
		case StatusPending:
			hasPending = true
		case StatusPartiallyCompliant:
			hasPartial = true
		}
	}

	if hasPending {
		return StatusPending
	}
	if hasPartial {
		return StatusPartiallyCompliant
	}
	return StatusCompliant
}
