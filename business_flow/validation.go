package businessflow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/surtimax/cost-approvals/utils"
)

// FieldResult is the outcome of a pure field validation. Validators never
// touch the database or the network; they map an input string to a verdict.
type FieldResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func invalidField(msg string) FieldResult {
	return FieldResult{Valid: false, Error: msg}
}

func validField() FieldResult {
	return FieldResult{Valid: true}
}

// numericPattern accepts an optional sign, an integer part without leading
// zeros ("0" alone is allowed, "05" is not) and at most two decimal digits.
var numericPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]{1,2})?$`)

// parseStrictNumber applies the shared wire-format rules for margin and PDV:
// non-empty, numeric, no leading zero unless followed by the decimal point,
// at most two decimal digits.
func parseStrictNumber(s string) (float64, FieldResult) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalidField("value is required")
	}
	if !numericPattern.MatchString(s) {
		return 0, invalidField("value must be a number with at most 2 decimal digits and no leading zeros")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, invalidField("value is not a valid number")
	}
	return v, validField()
}

// ValidateMargin checks a wire-level margin value. A margin is valid when it
// parses under the strict numeric rules and falls in (0, 1000].
func ValidateMargin(s string) FieldResult {
	v, res := parseStrictNumber(s)
	if !res.Valid {
		return res
	}
	if v <= 0 {
		return invalidField("margin must be greater than 0")
	}
	if v > utils.MaxMarginPercent {
		return invalidField("margin must not exceed 1000")
	}
	return validField()
}

// ValidatePDV checks a wire-level PDV value. Zero is a legal boundary: a PDV
// is valid when it parses under the strict numeric rules and is >= 0.
func ValidatePDV(s string) FieldResult {
	v, res := parseStrictNumber(s)
	if !res.Valid {
		return res
	}
	if v < 0 {
		return invalidField("pdv must not be negative")
	}
	return validField()
}

// ValidateApplicationDate checks a wire-level application date. The sentinel
// "0000-00-00" means unset and is rejected the same as an empty value.
func ValidateApplicationDate(s string) FieldResult {
	s = strings.TrimSpace(s)
	if s == "" || s == utils.NoDateSentinel {
		return invalidField("application date is required")
	}
	if _, err := utils.ParseDate(s); err != nil {
		return invalidField("application date must use the YYYY-MM-DD format")
	}
	return validField()
}

// FinalizeItemInput is the per-item input of the finalize gate. Margin and
// PDV arrive as strings so the format rules can be enforced exactly as the
// wire carries them.
type FinalizeItemInput struct {
	LineItemID uint
	Margin     string
	PDV        string
}

// CompletenessReport summarizes the finalize gate over a request. The
// counters apply the exact same predicates as the gate itself; a field the
// gate would reject is never counted as completed.
type CompletenessReport struct {
	TotalItems      int  `json:"total_items"`
	MarginCompleted int  `json:"margin_completed"`
	PDVCompleted    int  `json:"pdv_completed"`
	DateSet         bool `json:"date_set"`
}

// Complete reports whether the finalize transition may proceed: every item
// carries a valid margin and a valid PDV, and the application date is set.
func (r CompletenessReport) Complete() bool {
	return r.TotalItems > 0 &&
		r.MarginCompleted == r.TotalItems &&
		r.PDVCompleted == r.TotalItems &&
		r.DateSet
}

// CountCompletedFields computes the finalize completeness counters for a set
// of items and an application date. Pure: same inputs, same report.
func CountCompletedFields(items []FinalizeItemInput, applicationDate string) CompletenessReport {
	report := CompletenessReport{
		TotalItems: len(items),
		DateSet:    ValidateApplicationDate(applicationDate).Valid,
	}

	for _, item := range items {
		if ValidateMargin(item.Margin).Valid {
			report.MarginCompleted++
		}
		if ValidatePDV(item.PDV).Valid {
			report.PDVCompleted++
		}
	}

	return report
}
