package validation

import (
	"fmt"
	"strings"
	"time"

	"skyvault/internal/schema"
)

// Engine evaluates a normalized record against the exemption and suitability
// rules. The clock is injected so age-dependent rules stay deterministic under
// test; apart from that the engine holds no state.
type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithNow fixes the engine's clock.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate classifies the record and collects red flags and warnings. It
// never fails on a structurally valid record: a nil numeric field never
// satisfies a threshold, and rules whose inputs are absent are skipped, not
// defaulted.
func (e *Engine) Validate(rec schema.KYCRecord, formType schema.FormType) Result {
	exemption, headline := classify(rec.Financials)

	result := Result{
		Classification:  headline,
		Exemption:       exemption,
		RedFlags:        []FlagKind{},
		Warnings:        []FlagKind{},
		MissingRequired: missingRequired(rec, formType),
		DataComplete:    classificationComplete(rec.Financials),
	}

	result.RedFlags = e.redFlags(rec)
	result.Warnings = e.warnings(rec, headline, result.DataComplete)

	result.FollowUpNeeded = len(result.RedFlags) > 0 ||
		len(result.MissingRequired) > 3 ||
		contains(result.Warnings, WarnGrowthObjectiveLowRisk) ||
		contains(result.Warnings, WarnRetirementHorizonMismatch)

	return result
}

// classify applies the exemption tiers. Accredited and Eligible thresholds
// are both evaluated so eligibility can be disclosed even for accredited
// clients; the headline takes the highest tier reached.
func classify(f schema.Financials) (schema.ExemptionStatus, Exemption) {
	joint, jointOK := jointIncome(f)
	netWorth := effectiveNetWorth(f)
	stable := f.IncomeStable2Years != nil && *f.IncomeStable2Years

	var accreditedReasons []string
	if meets(f.AnnualIncome, AccreditedIncomeSingle) && stable {
		accreditedReasons = append(accreditedReasons,
			fmt.Sprintf("annual_income >= $%s for 2 years", money(AccreditedIncomeSingle)))
	}
	if jointOK && joint >= AccreditedIncomeJoint && stable {
		accreditedReasons = append(accreditedReasons,
			fmt.Sprintf("joint_income >= $%s for 2 years", money(AccreditedIncomeJoint)))
	}
	if meets(f.NetFinancialAssets, AccreditedNFA) {
		accreditedReasons = append(accreditedReasons,
			fmt.Sprintf("net_financial_assets >= $%s", money(AccreditedNFA)))
	}
	if meets(netWorth, AccreditedNetAssets) {
		accreditedReasons = append(accreditedReasons,
			fmt.Sprintf("net_worth >= $%s", money(AccreditedNetAssets)))
	}

	var eligibleReasons []string
	if meets(f.AnnualIncome, EligibleIncomeSingle) {
		eligibleReasons = append(eligibleReasons,
			fmt.Sprintf("annual_income >= $%s", money(EligibleIncomeSingle)))
	}
	if jointOK && joint >= EligibleIncomeJoint {
		eligibleReasons = append(eligibleReasons,
			fmt.Sprintf("joint_income >= $%s", money(EligibleIncomeJoint)))
	}
	if meets(netWorth, EligibleNetAssets) {
		eligibleReasons = append(eligibleReasons,
			fmt.Sprintf("net_worth >= $%s", money(EligibleNetAssets)))
	}

	status := schema.ExemptionStatus{
		IsAccredited: len(accreditedReasons) > 0,
		IsEligible:   len(eligibleReasons) > 0,
	}

	switch {
	case status.IsAccredited:
		status.AccreditationReason = strings.Join(accreditedReasons, "; ")
		return status, ExemptionAccredited
	case status.IsEligible:
		status.AccreditationReason = strings.Join(eligibleReasons, "; ")
		return status, ExemptionEligible
	default:
		status.AccreditationReason = "no exemption threshold met"
		return status, ExemptionNonEligible
	}
}

// redFlags evaluates each flag independently; all applicable flags are
// emitted in a fixed order.
func (e *Engine) redFlags(rec schema.KYCRecord) []FlagKind {
	flags := []FlagKind{}

	if isTrue(rec.AML.IsPEP) {
		flags = append(flags, FlagPEP)
	}
	if isTrue(rec.AML.IsHIO) {
		flags = append(flags, FlagHIO)
	}

	// Concentration needs both sides disclosed; absent data skips the check
	// rather than flagging on it.
	nfa := rec.Financials.NetFinancialAssets
	amount := rec.InvestmentDetails.Amount
	if nfa != nil && *nfa > 0 && amount != nil && *amount > *nfa*ConcentrationLimit {
		flags = append(flags, FlagHighConcentration)
	}

	if isTrue(rec.Financials.BorrowedToInvest) {
		flags = append(flags, FlagBorrowedToInvest)
	}

	if riskMismatch(rec.InvestmentProfile) {
		flags = append(flags, FlagRiskMismatch)
	}

	if e.ageRiskConcern(rec) {
		flags = append(flags, FlagAgeRiskConcern)
	}

	return flags
}

func (e *Engine) warnings(rec schema.KYCRecord, headline Exemption, complete bool) []FlagKind {
	warnings := []FlagKind{}

	if !complete {
		warnings = append(warnings, WarnInsufficientData)
	}

	switch headline {
	case ExemptionEligible:
		// Non-BC residents are capped at $100,000 over a rolling 12 months;
		// advisory only, never blocks the classification.
		warnings = append(warnings, WarnEligibleCapNonBC)
	case ExemptionNonEligible:
		warnings = append(warnings, WarnNonEligibleMinimumCap)
	}

	if meets(rec.Financials.NetFinancialAssets, AccreditedNFA) {
		warnings = append(warnings, WarnNFAVerificationRequired)
	}

	profile := rec.InvestmentProfile
	if enumIs(profile.InvestmentObjective, schema.ObjectiveGrowth) &&
		enumIs(profile.RiskTolerance, schema.RiskToleranceLow) {
		warnings = append(warnings, WarnGrowthObjectiveLowRisk)
	}
	if enumIs(profile.InvestmentObjective, schema.ObjectiveIncome) &&
		enumIs(profile.RiskTolerance, schema.RiskToleranceHigh) {
		warnings = append(warnings, WarnIncomeObjectiveHighRisk)
	}

	if profile.PlannedRetirementYear != nil &&
		enumIs(profile.TimeHorizon, schema.Horizon10Plus) &&
		*profile.PlannedRetirementYear-e.now().Year() < 5 {
		warnings = append(warnings, WarnRetirementHorizonMismatch)
	}

	return warnings
}

// riskMismatch flags HIGH stated tolerance against LOW or NIL capacity.
// Milder gaps (capacity exceeding tolerance, or a one-step spread) are a
// conversation for the dealing rep, not a red flag.
func riskMismatch(p schema.InvestmentProfile) bool {
	if p.RiskTolerance == nil || p.RiskCapacity == nil {
		return false
	}
	if *p.RiskTolerance != schema.RiskToleranceHigh {
		return false
	}
	return *p.RiskCapacity == schema.RiskCapacityLow || *p.RiskCapacity == schema.RiskCapacityNil
}

// ageRiskConcern fires for clients 65+ holding a HIGH tolerance on a short
// horizon. Missing DOB suppresses the rule; it never defaults an age.
func (e *Engine) ageRiskConcern(rec schema.KYCRecord) bool {
	if rec.Personal.DOB == nil {
		return false
	}
	dob, err := time.Parse(time.DateOnly, *rec.Personal.DOB)
	if err != nil {
		return false
	}
	if ageAt(dob, e.now()) < AgeConcernThreshold {
		return false
	}
	if !enumIs(rec.InvestmentProfile.RiskTolerance, schema.RiskToleranceHigh) {
		return false
	}
	horizon := rec.InvestmentProfile.TimeHorizon
	return horizon != nil && (*horizon == schema.Horizon1To3 || *horizon == schema.Horizon3To5)
}

func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		age--
	}
	return age
}

// classificationComplete reports whether every financial input the exemption
// rules read is populated. It inspects the record itself, not the
// missing-fields bookkeeping, so the answer stays correct for records built
// outside the normalizer.
func classificationComplete(f schema.Financials) bool {
	for _, v := range []*float64{
		f.AnnualIncome,
		f.SpouseIncome,
		f.NetFinancialAssets,
		f.TotalAssets,
		f.Liabilities,
		f.NetWorth,
	} {
		if v == nil {
			return false
		}
	}
	return f.IncomeStable2Years != nil
}

func missingRequired(rec schema.KYCRecord, formType schema.FormType) []string {
	required := requiredFields[formType]
	missing := make([]string, 0, len(required))
	for _, path := range required {
		if contains(rec.MissingFields, path) {
			missing = append(missing, path)
		}
	}
	return missing
}

// meets is the null-safe threshold comparison: nil never satisfies ">= t".
func meets(v *float64, t float64) bool {
	return v != nil && *v >= t
}

func isTrue(b *bool) bool { return b != nil && *b }

func enumIs[T comparable](v *T, want T) bool { return v != nil && *v == want }

// jointIncome sums the non-nil income components; ok is false when both are
// absent so a fully-null pair can never reach a joint threshold.
func jointIncome(f schema.Financials) (float64, bool) {
	sum, any := 0.0, false
	for _, c := range []*float64{f.AnnualIncome, f.SpouseIncome} {
		if c != nil {
			sum += *c
			any = true
		}
	}
	return sum, any
}

// effectiveNetWorth prefers the stated net worth, falling back to
// total_assets - liabilities when both components are present.
func effectiveNetWorth(f schema.Financials) *float64 {
	if f.NetWorth != nil {
		return f.NetWorth
	}
	if f.TotalAssets != nil && f.Liabilities != nil {
		nw := *f.TotalAssets - *f.Liabilities
		return &nw
	}
	return nil
}

func money(v int) string {
	s := fmt.Sprintf("%d", v)
	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func contains[T comparable](list []T, want T) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
