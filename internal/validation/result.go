// Package validation classifies a normalized KYC record against the NI 45-106
// exemption thresholds and emits regulatory red flags and advisory warnings.
// Everything in this package is pure domain logic: no I/O, no side effects,
// and the same record always produces the same result.
package validation

import "skyvault/internal/schema"

// Exemption is the headline regulatory tier.
type Exemption string

const (
	ExemptionAccredited  Exemption = "ACCREDITED"
	ExemptionEligible    Exemption = "ELIGIBLE"
	ExemptionNonEligible Exemption = "NON_ELIGIBLE"
)

// FlagKind identifies a red flag or warning. Red flags block automated
// progression; warnings are advisory.
type FlagKind string

const (
	FlagPEP               FlagKind = "PEP"
	FlagHIO               FlagKind = "HIO"
	FlagHighConcentration FlagKind = "HIGH_CONCENTRATION"
	FlagBorrowedToInvest  FlagKind = "BORROWED_TO_INVEST"
	FlagRiskMismatch      FlagKind = "RISK_MISMATCH"
	FlagAgeRiskConcern    FlagKind = "AGE_RISK_CONCERN"

	WarnInsufficientData          FlagKind = "INSUFFICIENT_DATA_FOR_CLASSIFICATION"
	WarnEligibleCapNonBC          FlagKind = "ELIGIBLE_CAP_NON_BC"
	WarnNonEligibleMinimumCap     FlagKind = "NON_ELIGIBLE_MINIMUM_AMOUNT_CAP"
	WarnNFAVerificationRequired   FlagKind = "NFA_VERIFICATION_REQUIRED"
	WarnGrowthObjectiveLowRisk    FlagKind = "GROWTH_OBJECTIVE_LOW_RISK"
	WarnIncomeObjectiveHighRisk   FlagKind = "INCOME_OBJECTIVE_HIGH_RISK"
	WarnRetirementHorizonMismatch FlagKind = "RETIREMENT_HORIZON_MISMATCH"
)

// Result is the write-once outcome of one validation pass.
type Result struct {
	Classification Exemption              `json:"classification"`
	Exemption      schema.ExemptionStatus `json:"exemption_status"`
	RedFlags       []FlagKind             `json:"red_flags"`
	Warnings       []FlagKind             `json:"warnings"`
	// MissingRequired lists form-type required fields absent from the record.
	MissingRequired []string `json:"missing_required"`
	// DataComplete distinguishes a fully-substantiated classification from a
	// best-effort one computed with classification inputs missing.
	DataComplete   bool `json:"data_complete"`
	FollowUpNeeded bool `json:"follow_up_needed"`
}

// HasRedFlags reports whether any red flag was raised.
func (r Result) HasRedFlags() bool { return len(r.RedFlags) > 0 }
